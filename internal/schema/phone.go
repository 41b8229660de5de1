package schema

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidPhone is returned when a phone number is not a Russian
// mobile/landline number in one of the accepted notations.
var ErrInvalidPhone = errors.New("invalid phone number")

var phonePattern = regexp.MustCompile(`^(\+7|8|7)\d{10}$`)

// NormalizePhone strips everything but digits and '+', checks the result
// against +7XXXXXXXXXX / 8XXXXXXXXXX / 7XXXXXXXXXX and returns the canonical
// +7XXXXXXXXXX form.
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '+' {
			return r
		}
		return -1
	}, raw)

	if !phonePattern.MatchString(cleaned) {
		return "", ErrInvalidPhone
	}
	switch cleaned[0] {
	case '8':
		return "+7" + cleaned[1:], nil
	case '7':
		return "+" + cleaned, nil
	}
	return cleaned, nil
}
