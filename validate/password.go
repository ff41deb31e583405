package validate

import (
	"strings"
	"unicode/utf8"
)

// MinPasswordScore is the lowest strength accepted for registration.
const MinPasswordScore = 3

const specialChars = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

// Strength lists which password criteria hold.
type Strength struct {
	Length    bool
	Uppercase bool
	Lowercase bool
	Number    bool
	Special   bool
}

func PasswordStrength(password string) Strength {
	var s Strength
	s.Length = utf8.RuneCountInString(password) >= 8
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			s.Uppercase = true
		case r >= 'a' && r <= 'z':
			s.Lowercase = true
		case r >= '0' && r <= '9':
			s.Number = true
		case strings.ContainsRune(specialChars, r):
			s.Special = true
		}
	}
	return s
}

// Score counts the satisfied criteria, 0 to 5.
func (s Strength) Score() int {
	score := 0
	for _, ok := range []bool{s.Length, s.Uppercase, s.Lowercase, s.Number, s.Special} {
		if ok {
			score++
		}
	}
	return score
}

func (s Strength) Label() string {
	switch score := s.Score(); {
	case score == 0:
		return "Very Weak"
	case score <= 2:
		return "Weak"
	case score == 3:
		return "Fair"
	case score == 4:
		return "Good"
	default:
		return "Strong"
	}
}

func (s Strength) Acceptable() bool {
	return s.Score() >= MinPasswordScore
}
