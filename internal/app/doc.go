// Package app builds the tarjama components from a Config and wires them
// together: the session store, the service client, the audio player and
// synthesizer, the translation orchestrator, the history cache and the
// account manager.
package app
