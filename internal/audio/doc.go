// Package audio handles sound for translations.
//
// Player is the playback controller. It decodes the base64 clips returned by
// the translation service, writes each one to a temporary file and plays it
// through a Device. At most one clip plays at a time and the temporary file
// is released when the clip ends or is stopped.
//
// Synthesizer voices text on the device for languages the service returns
// no audio for. The espeak-ng engine is used when it is installed, with
// OpenAI speech as an optional fallback.
package audio
