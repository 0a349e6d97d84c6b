package history

import (
	"strings"

	"codeberg.org/snonux/tarjama/internal"
	"codeberg.org/snonux/tarjama/internal/api"
)

// SourceLanguage is the language every translation starts from
const SourceLanguage = "EN"

// Entry is one past translation
type Entry struct {
	ID             string
	OriginalText   string
	TranslatedText string
	TargetLanguage string
	Timestamp      string
}

func fromItem(item api.HistoryItem) Entry {
	return Entry{
		ID:             item.ID.String(),
		OriginalText:   item.OriginalText,
		TranslatedText: item.TranslatedText,
		TargetLanguage: item.TargetLang,
		Timestamp:      item.Timestamp.String(),
	}
}

// Date returns the calendar date part of the timestamp
func (e Entry) Date() string {
	return internal.ShortDate(e.Timestamp)
}

// Tag labels the language pair, e.g. "EN → FRENCH"
func (e Entry) Tag() string {
	return SourceLanguage + " → " + strings.ToUpper(e.TargetLanguage)
}
