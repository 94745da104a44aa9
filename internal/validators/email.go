package validators

import (
	"net/mail"
	"strings"
)

func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsEmailValid checks the address syntax only. Empty is valid: email is
// optional everywhere it is collected.
func IsEmailValid(email string) bool {
	if email == "" {
		return true
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}
