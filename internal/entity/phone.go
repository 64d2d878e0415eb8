package entity

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	phoneCountryCode = "7"
	phoneRegion      = "RU"
	phoneMaxDigits   = 11
)

// ExtractDigits keeps only the ASCII decimal digits of raw, in order.
func ExtractDigits(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

// FormatPhone turns whatever the user typed into a prefix of the
// "+7 (XXX) XXX-XX-XX" mask. The first digit is always taken as the country
// code slot and replaced by 7; digits past the eleventh are dropped.
func FormatPhone(raw string) string {
	d := ExtractDigits(raw)
	if len(d) > phoneMaxDigits {
		d = d[:phoneMaxDigits]
	}
	n := len(d)

	switch {
	case n == 0:
		return ""
	case n == 1:
		return "+7"
	case n <= 4:
		return "+7 (" + d[1:]
	case n <= 7:
		return "+7 (" + d[1:4] + ") " + d[4:]
	case n <= 9:
		return "+7 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:]
	default:
		return "+7 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:9] + "-" + d[9:]
	}
}

// ValidatePhone reports whether s carries exactly 11 digits starting with 7.
// Accepts both the masked and the raw form.
func ValidatePhone(s string) bool {
	d := ExtractDigits(s)
	return len(d) == phoneMaxDigits && strings.HasPrefix(d, phoneCountryCode)
}

// PhoneE164 returns the E.164 form ("+79991234567") of a valid phone. Numbers
// the numbering plan does not know are still returned as "+" + digits so CRM
// records never lose a lead.
func PhoneE164(s string) string {
	d := ExtractDigits(s)
	if d == "" {
		return ""
	}

	num, err := phonenumbers.Parse("+"+d, phoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "+" + d
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// MaskPhone hides everything but the last two digits, for logs.
func MaskPhone(s string) string {
	d := ExtractDigits(s)
	if len(d) <= 2 {
		return strings.Repeat("*", len(d))
	}
	return strings.Repeat("*", len(d)-2) + d[len(d)-2:]
}
