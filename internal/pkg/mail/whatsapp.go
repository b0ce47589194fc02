package mail

import (
	"net/url"
	"strings"
)

// WhatsAppLink builds a wa.me deep link for the given phone number and
// prefilled message. Israeli local numbers (05x...) are normalized to the
// international 972 prefix.
func WhatsAppLink(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}
	if strings.HasPrefix(digits, "0") {
		digits = "972" + digits[1:]
	}

	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}
