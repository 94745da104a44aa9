package validators

import "strings"

const countryCodeBR = "55"

// NormalizePhone reduces a Brazilian phone number to digits with the
// country code: "(92) 99999-0000" → "5592999990000". Numbers that already
// carry a country code are kept; anything else is returned as digits only.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	// trunk prefix
	digits = strings.TrimLeft(digits, "0")

	if len(digits) == 10 || len(digits) == 11 {
		return countryCodeBR + digits
	}
	return digits
}

// IsPhoneValid accepts normalized Brazilian numbers (12 or 13 digits).
func IsPhoneValid(normalized string) bool {
	return strings.HasPrefix(normalized, countryCodeBR) && (len(normalized) == 12 || len(normalized) == 13)
}
