// Package models lists the OpenAI text-to-speech models the configured key
// can use for the fallback voice.
package models
