package history

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"

	"codeberg.org/snonux/tarjama/internal/api"
	"codeberg.org/snonux/tarjama/internal/errs"
	"codeberg.org/snonux/tarjama/internal/testutil"
)

var sampleHistory = []testutil.FakeHistoryItem{
	{ID: "1", OriginalText: "Good morning", TranslatedText: "Bonjour", TargetLang: "French", Timestamp: "2024-05-01 09:00:00.000"},
	{ID: "2", OriginalText: "Thank you", TranslatedText: "شكرا", TargetLang: "Arabic", Timestamp: "2024-05-02 10:30:00.000"},
	{ID: "3", OriginalText: "good night", TranslatedText: "Buenas noches", TargetLang: "Spanish", Timestamp: "2024-05-03 22:15:00.000"},
	{ID: "4", OriginalText: "Cheers", TranslatedText: "Prost", TargetLang: "German", Timestamp: "2024-05-04 18:00:00.000"},
}

func newTestCache(t *testing.T) (*Cache, *testutil.FakeBackend) {
	t.Helper()

	backend := testutil.NewFakeBackend(t)
	backend.SetHistory("alice", sampleHistory)

	client, err := api.NewClient(&api.Config{BaseURL: backend.BaseURL()})
	if err != nil {
		t.Fatalf("NewClient() failed: %v", err)
	}
	return NewCache(client, nil), backend
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestRefresh(t *testing.T) {
	cache, _ := newTestCache(t)

	entries, err := cache.Refresh(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	want := []string{"1", "2", "3", "4"}
	if got := ids(entries); !reflect.DeepEqual(got, want) {
		t.Errorf("Refresh() ids = %v, want %v", got, want)
	}
	if cache.Count() != 4 {
		t.Errorf("Expected 4 cached entries, got %d", cache.Count())
	}
	if entries[1].TranslatedText != "شكرا" || entries[1].TargetLanguage != "Arabic" {
		t.Errorf("Unexpected entry %+v", entries[1])
	}
}

func TestRefreshRequiresUsername(t *testing.T) {
	cache, backend := newTestCache(t)

	for _, username := range []string{"", "  "} {
		if _, err := cache.Refresh(context.Background(), username); !errors.Is(err, errs.ErrNotAuth) {
			t.Errorf("Refresh(%q) error = %v, want ErrNotAuth", username, err)
		}
	}
	if calls := backend.Calls(); len(calls) != 0 {
		t.Errorf("Expected no network calls, got %v", calls)
	}
}

func TestRefreshFailureKeepsCache(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		malformed string
		kind      error
	}{
		{"server error", http.StatusInternalServerError, "", errs.ErrNetwork},
		{"malformed body", 0, `{"history": "nope"`, errs.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, backend := newTestCache(t)
			if _, err := cache.Refresh(context.Background(), "alice"); err != nil {
				t.Fatalf("Refresh() failed: %v", err)
			}
			before := cache.Entries()

			if tt.status != 0 {
				backend.Fail("history", tt.status)
			}
			if tt.malformed != "" {
				backend.Malformed["history"] = tt.malformed
			}

			if _, err := cache.Refresh(context.Background(), "alice"); !errors.Is(err, tt.kind) {
				t.Fatalf("Expected %v, got %v", tt.kind, err)
			}
			if after := cache.Entries(); !reflect.DeepEqual(before, after) {
				t.Errorf("Cache changed after failed refresh: %v -> %v", before, after)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	cache, _ := newTestCache(t)
	if _, err := cache.Refresh(context.Background(), "alice"); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty returns all", "", []string{"1", "2", "3", "4"}},
		{"space is matched literally", " ", []string{"1", "2", "3"}},
		{"double space", "  ", []string{}},
		{"case insensitive original", "GOOD", []string{"1", "3"}},
		{"translated text", "noches", []string{"3"}},
		{"arabic translated text", "شكر", []string{"2"}},
		{"either field keeps order", "o", []string{"1", "2", "3", "4"}},
		{"no match", "zebra", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(cache.Search(tt.query))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}

	if cache.Count() != 4 {
		t.Errorf("Search must not shrink the cache, got %d entries", cache.Count())
	}
}

func TestClear(t *testing.T) {
	cache, backend := newTestCache(t)
	if _, err := cache.Refresh(context.Background(), "alice"); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	if err := cache.Clear(context.Background(), "alice"); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if cache.Count() != 0 {
		t.Errorf("Expected empty cache, got %d entries", cache.Count())
	}
	if len(backend.History("alice")) != 0 {
		t.Error("Expected server history to be cleared")
	}
	if got := cache.Search(""); len(got) != 0 {
		t.Errorf("Expected empty search after clear, got %v", got)
	}
}

func TestClearFailureKeepsCache(t *testing.T) {
	cache, backend := newTestCache(t)
	if _, err := cache.Refresh(context.Background(), "alice"); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}
	before := cache.Entries()

	backend.Fail("clear", http.StatusForbidden)
	err := cache.Clear(context.Background(), "alice")
	if !errors.Is(err, errs.ErrAuthorization) {
		t.Fatalf("Expected authorization error, got %v", err)
	}
	if after := cache.Entries(); !reflect.DeepEqual(before, after) {
		t.Errorf("Cache changed after failed clear: %v -> %v", before, after)
	}
}

func TestClearRequiresUsername(t *testing.T) {
	cache, backend := newTestCache(t)

	if err := cache.Clear(context.Background(), ""); !errors.Is(err, errs.ErrNotAuth) {
		t.Errorf("Expected ErrNotAuth, got %v", err)
	}
	if calls := backend.Calls(); len(calls) != 0 {
		t.Errorf("Expected no network calls, got %v", calls)
	}
}

// staleClient returns a fixed history, letting a test clear the cache
// while the fetch is in flight
type staleClient struct {
	items   []api.HistoryItem
	onFetch func()
}

func (c *staleClient) History(ctx context.Context, username string) ([]api.HistoryItem, error) {
	if c.onFetch != nil {
		c.onFetch()
	}
	return c.items, nil
}

func (c *staleClient) ClearHistory(ctx context.Context, username string) error {
	return nil
}

func TestRefreshStartedBeforeClearIsDropped(t *testing.T) {
	client := &staleClient{items: []api.HistoryItem{{ID: "1", OriginalText: "hello"}}}
	cache := NewCache(client, nil)

	client.onFetch = func() {
		if err := cache.Clear(context.Background(), "alice"); err != nil {
			t.Errorf("Clear() failed: %v", err)
		}
	}

	entries, err := cache.Refresh(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}
	if len(entries) != 0 || cache.Count() != 0 {
		t.Errorf("Expected cleared cache to stay empty, got %d entries", cache.Count())
	}
}

func TestEntryHelpers(t *testing.T) {
	e := Entry{TargetLanguage: "French", Timestamp: "2024-05-01 09:00:00.000"}

	if e.Date() != "2024-05-01" {
		t.Errorf("Date() = %q", e.Date())
	}
	if e.Tag() != "EN → FRENCH" {
		t.Errorf("Tag() = %q", e.Tag())
	}
}
