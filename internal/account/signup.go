package account

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"codeberg.org/snonux/tarjama/internal/errs"
)

// Minimum field lengths accepted at signup
const (
	MinUsernameLength = 3
	MinPhoneLength    = 8
	MinPasswordLength = 6
)

// emailPattern accepts addresses of the form local@domain.tld
var emailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`)

// SignupForm is what a user enters to create an account
type SignupForm struct {
	Username        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// Validate checks the form before anything is sent. The first problem
// found is returned as a validation error.
func (f SignupForm) Validate() error {
	const op = "signup"

	username := strings.TrimSpace(f.Username)
	email := strings.TrimSpace(f.Email)
	phone := strings.TrimSpace(f.Phone)

	switch {
	case username == "" || email == "" || phone == "" || f.Password == "" || f.ConfirmPassword == "":
		return errs.Validation(op, "all fields are required")
	case utf8.RuneCountInString(username) < MinUsernameLength:
		return errs.Validation(op, "username must be at least 3 characters")
	case !emailPattern.MatchString(email):
		return errs.Validation(op, "enter a valid email address")
	case utf8.RuneCountInString(phone) < MinPhoneLength:
		return errs.Validation(op, "enter a valid phone number")
	case utf8.RuneCountInString(f.Password) < MinPasswordLength:
		return errs.Validation(op, "password must be at least 6 characters")
	case f.Password != f.ConfirmPassword:
		return errs.Validation(op, "passwords do not match")
	}
	return nil
}
