package api

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Credentials is the login request body
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest is the signup request body
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// signupResponse carries either message (success) or error (failure)
type signupResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Profile holds the editable account fields. Absent or null fields are empty.
type Profile struct {
	Email string
	Phone string
}

type profileResponse struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// ProfileUpdate is the profile update body. Empty fields are omitted so the
// server leaves them untouched.
type ProfileUpdate struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type passwordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// TranslateRequest describes one call to the translate endpoint
type TranslateRequest struct {
	Text         string
	To           string
	Username     string // Optional; attributes the translation to a user's history
	IncludeAudio bool   // Ask the server to attach base64 audio
}

// TranslateResponse is the translate endpoint result
type TranslateResponse struct {
	Translation *string `json:"translation"`
	Audio       string  `json:"audio,omitempty"`
}

// HistoryItem is one stored translation as sent by the server
type HistoryItem struct {
	ID             FlexString `json:"id"`
	OriginalText   string     `json:"originalText"`
	TranslatedText string     `json:"translatedText"`
	TargetLang     string     `json:"targetLang"`
	Timestamp      FlexString `json:"timestamp"`
}

type historyResponse struct {
	History []HistoryItem `json:"history"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// FlexString accepts a JSON string or number. The server sends numeric ids
// and epoch timestamps on some deployments.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the value as a plain string
func (f FlexString) String() string {
	return string(f)
}
