package auth

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	MsgIncomplete   = "Debes completar correctamente todos los campos."
	MsgUnderage     = "Debes tener al menos 13 años para registrarte."
	MsgProfileCheck = "Por favor, revisa los campos del formulario. La contraseña requiere al menos 6 caracteres, una mayúscula y un número."

	minAge            = 13
	minPasswordLength = 6
	maxPasswordLength = 18
	birthDateLayout   = "2006-01-02"
)

// ValidationError reports every form field that failed its rule.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string { return e.Message }

type fieldChecker struct {
	bad []string
}

func (c *fieldChecker) check(field string, ok bool) {
	if !ok {
		c.bad = append(c.bad, field)
	}
}

func (c *fieldChecker) err(msg string) error {
	if len(c.bad) == 0 {
		return nil
	}
	return &ValidationError{Message: msg, Fields: c.bad}
}

func required(s string) bool {
	return strings.TrimSpace(s) != ""
}

func validEmail(s string) bool {
	if s == "" {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// strongPassword requires one uppercase letter and one digit.
func strongPassword(s string) bool {
	var hasUpper, hasDigit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}

func passwordLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	if n < min {
		return false
	}
	return max <= 0 || n <= max
}

func parseBirthDate(s string) (time.Time, bool) {
	t, err := time.Parse(birthDateLayout, strings.TrimSpace(s))
	return t, err == nil
}

// ageOn counts full years between birth and now.
func ageOn(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
