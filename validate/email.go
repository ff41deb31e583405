package validate

import (
	"errors"
	"regexp"
	"strings"
)

var (
	forbiddenEmailChars = regexp.MustCompile("[#!*&%$?/><|{}()\\[\\]=+\\-`~^]")
	allowedEmailChars   = regexp.MustCompile(`^[a-zA-Z0-9._@]+$`)
	emailShape          = regexp.MustCompile(`^[a-zA-Z0-9._]+@[a-zA-Z0-9]+([.-][a-zA-Z0-9]+)*\.[a-zA-Z]{2,}$`)
)

var (
	ErrEmailRequired  = errors.New("email is required")
	ErrEmailForbidden = errors.New("email must not contain special characters such as #!*&%$?/><|{}()[]=-+`~^")
	ErrEmailCharset   = errors.New("email may only contain letters, numbers, underscore (_), dot (.) and @")
	ErrEmailRepeated  = errors.New("email must not contain consecutive dots or underscores")
	ErrEmailFormat    = errors.New("invalid email format")
	ErrEmailDomain    = errors.New("invalid email format, e.g. user@example.com")
	ErrEmailLength    = errors.New("email must be between 5 and 254 characters")
)

// Email applies the registration email rules, returning the first rule the
// address breaks.
func Email(email string) error {
	switch {
	case email == "":
		return ErrEmailRequired
	case forbiddenEmailChars.MatchString(email):
		return ErrEmailForbidden
	case !allowedEmailChars.MatchString(email):
		return ErrEmailCharset
	case strings.Contains(email, "..") || strings.Contains(email, "._") || strings.Contains(email, "_."):
		return ErrEmailRepeated
	case strings.HasPrefix(email, ".") || strings.HasPrefix(email, "_") ||
		strings.Contains(email, "@.") || strings.Contains(email, ".@"):
		return ErrEmailFormat
	case !emailShape.MatchString(email):
		return ErrEmailDomain
	case len(email) < 5 || len(email) > 254:
		return ErrEmailLength
	}
	return nil
}
