package internal

import (
	"strings"

	"github.com/google/uuid"
)

// Version is the tarjama release version
const Version = "0.3.0"

// UserAgent is sent with every API request
const UserAgent = "tarjama/" + Version

// NewRequestID returns a unique id for correlating a request with server logs
func NewRequestID() string {
	return uuid.NewString()
}

// ShortDate returns the date part of a server timestamp such as
// "2024-05-01 13:45:10.123". Shorter values are returned unchanged.
func ShortDate(timestamp string) string {
	timestamp = strings.TrimSpace(timestamp)
	if len(timestamp) > 10 {
		return timestamp[:10]
	}
	return timestamp
}
