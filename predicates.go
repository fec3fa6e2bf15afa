package ripple

import (
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength is the minimum number of Unicode scalar values in a
// password.
const MinPasswordLength = 6

// HasMinLength reports whether password has at least MinPasswordLength
// Unicode scalar values.
func HasMinLength(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// HasMixedCharacterClasses reports whether password contains at least one
// uppercase letter, one lowercase letter and one decimal digit. Titlecase
// letters such as U+01C5 count as uppercase.
func HasMixedCharacterClasses(password string) bool {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.In(r, unicode.Lu, unicode.Lt):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
		if upper && lower && digit {
			return true
		}
	}
	return false
}

// PasswordsMatch reports whether password and confirmation are identical.
// Two empty strings match.
func PasswordsMatch(password, confirmation string) bool {
	return password == confirmation
}
