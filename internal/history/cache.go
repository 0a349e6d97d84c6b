package history

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"codeberg.org/snonux/tarjama/internal/api"
	"codeberg.org/snonux/tarjama/internal/errs"
)

// Client is the part of the service API the cache needs
type Client interface {
	History(ctx context.Context, username string) ([]api.HistoryItem, error)
	ClearHistory(ctx context.Context, username string) error
}

// Cache holds the full history list in server order
type Cache struct {
	client Client
	logger *zap.Logger

	mu      sync.RWMutex
	entries []Entry
	// generation changes on every successful clear so that a refresh that
	// started earlier cannot bring cleared entries back
	generation uint64
}

// NewCache creates an empty cache
func NewCache(client Client, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		client: client,
		logger: logger,
	}
}

// Refresh replaces the cache with the user's history from the service. On
// failure the cached entries are kept and the error is returned.
func (c *Cache) Refresh(ctx context.Context, username string) ([]Entry, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errs.NotAuthenticated("history.refresh")
	}

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	items, err := c.client.History(ctx, username)
	if err != nil {
		c.logger.Debug("history refresh failed", zap.Error(err))
		return nil, err
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, fromItem(item))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		c.logger.Debug("dropping history fetched before a clear")
		return cloneEntries(c.entries), nil
	}
	c.entries = entries
	c.logger.Debug("history refreshed", zap.Int("entries", len(entries)))
	return cloneEntries(entries), nil
}

// Search returns the entries whose original or translated text contains
// query, ignoring case, in server order. The empty query returns everything.
func (c *Cache) Search(query string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if query == "" {
		return cloneEntries(c.entries)
	}

	fold := cases.Fold()
	needle := fold.String(query)

	matches := []Entry{}
	for _, e := range c.entries {
		if strings.Contains(fold.String(e.OriginalText), needle) ||
			strings.Contains(fold.String(e.TranslatedText), needle) {
			matches = append(matches, e)
		}
	}
	return matches
}

// Clear deletes the user's history on the service and then empties the
// cache. On failure the cache is left as it was. The deletion cannot be
// undone.
func (c *Cache) Clear(ctx context.Context, username string) error {
	if strings.TrimSpace(username) == "" {
		return errs.NotAuthenticated("history.clear")
	}

	if err := c.client.ClearHistory(ctx, username); err != nil {
		c.logger.Debug("history clear failed", zap.Error(err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.generation++
	c.logger.Debug("history cleared")
	return nil
}

// Entries returns every cached entry in server order
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneEntries(c.entries)
}

// Count returns the number of cached entries
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
