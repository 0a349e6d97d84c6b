// Package history keeps the signed-in user's translation history in memory
// and serves case-insensitive searches over it.
package history
