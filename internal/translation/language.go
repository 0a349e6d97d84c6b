package translation

import (
	"strings"

	"golang.org/x/text/cases"
)

// localVoiceMarkers name the target languages voiced on the device
var localVoiceMarkers = []string{"arabic", "darija"}

// IsLocalVoice reports whether results in targetLanguage are spoken by the
// on-device synthesizer instead of a server audio clip
func IsLocalVoice(targetLanguage string) bool {
	folded := cases.Fold().String(targetLanguage)
	for _, marker := range localVoiceMarkers {
		if strings.Contains(folded, marker) {
			return true
		}
	}
	return false
}

// WantsServerAudio reports whether a request for targetLanguage should ask
// the service to include audio
func WantsServerAudio(targetLanguage string) bool {
	return !IsLocalVoice(targetLanguage)
}
