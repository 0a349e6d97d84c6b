// Package translation issues translation requests against the translation
// service and decides how results are voiced.
//
// The Orchestrator owns one logical stream of requests. Every Submit gets a
// strictly increasing sequence id and supersedes the request before it, so
// a late answer to an older request is never delivered. Targets in the
// Arabic family are voiced on the device through a synthesizer; every other
// target asks the service for an audio clip, which is kept for playback.
package translation
