// Package session persists which user is logged in on this device together
// with the remember-me flag. The SQLite store is durable across restarts;
// the memory store is used for tests and throwaway runs.
package session
