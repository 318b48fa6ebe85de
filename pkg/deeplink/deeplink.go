// Package deeplink builds the wa.me and upi:// links handed to the
// operator's phone.
package deeplink

import (
	"net/url"
	"strings"
	"unicode"
)

const whatsappPrefix = "https://wa.me/"

// componentUnescaper undoes the escapes url.QueryEscape adds beyond the
// URI component rules: spaces become %20 and !'()* stay literal.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// formReplacer turns url.QueryEscape output into form encoding, which keeps
// * literal and escapes ~.
var formReplacer = strings.NewReplacer(
	"%2A", "*",
	"~", "%7E",
)

// Digits keeps only the ASCII digits of s.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}

		return -1
	}, s)
}

// EncodeComponent escapes s as a URI component.
func EncodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// EncodeForm escapes s as an application/x-www-form-urlencoded value.
func EncodeForm(s string) string {
	return formReplacer.Replace(url.QueryEscape(s))
}

// WhatsApp returns the chat link for a phone number typed in any format.
// It reports false when the number has no digits.
func WhatsApp(number string) (string, bool) {
	digits := Digits(number)
	if digits == "" {
		return "", false
	}

	return whatsappPrefix + digits, true
}

// WhatsAppText returns a chat link that pre-fills text.
func WhatsAppText(digits, text string) string {
	return whatsappPrefix + digits + "?text=" + EncodeComponent(text)
}

// Param is one query parameter. Params keep their order in the link.
type Param struct {
	Key   string
	Value string
}

// Query form-encodes params in order.
func Query(params ...Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(EncodeForm(p.Key))
		b.WriteByte('=')
		b.WriteString(EncodeForm(p.Value))
	}

	return b.String()
}

// UPI returns a upi://pay payment request.
func UPI(params ...Param) string {
	return "upi://pay?" + Query(params...)
}
