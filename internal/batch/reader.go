package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/snonux/tarjama/internal/errs"
)

// Entry is one line of a batch file
type Entry struct {
	Line           int
	Text           string
	TargetLanguage string
}

// ReadFile reads entries from filename. Lines without their own target
// language use defaultLanguage.
func ReadFile(filename, defaultLanguage string) ([]Entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	return Parse(f, defaultLanguage)
}

// Parse reads entries from r
func Parse(r io.Reader, defaultLanguage string) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		text, language := line, defaultLanguage
		// The last '=' separates the language so the text may contain '='
		if i := strings.LastIndex(line, "="); i >= 0 {
			text = strings.TrimSpace(line[:i])
			language = strings.TrimSpace(line[i+1:])
		}

		if text == "" {
			return nil, errs.Validation("batch", fmt.Sprintf("line %d has no text", lineNo))
		}
		if language == "" {
			return nil, errs.Validation("batch", fmt.Sprintf("line %d has no target language", lineNo))
		}

		entries = append(entries, Entry{Line: lineNo, Text: text, TargetLanguage: language})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return entries, nil
}
