// Package sanitize cleans submitted settings values before they reach the
// option store. Text values lose markup, control characters and stray
// percent-encoded octets; textarea values keep their line breaks; colors are
// accepted only in hex notation.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy

	inlineWhitespace = regexp.MustCompile(`[\r\n\t ]+`)
	percentOctet     = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
	hexColor         = regexp.MustCompile(`^#([A-Fa-f0-9]{3}){1,2}$`)
)

// Text sanitizes a single-line value.
func Text(raw string) string {
	cleaned := stripTags(raw)
	cleaned = stripControl(cleaned, false)
	cleaned = percentOctet.ReplaceAllString(cleaned, "")
	cleaned = inlineWhitespace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// Textarea sanitizes a multi-line value. Line breaks are normalized to \n and
// kept; tabs become spaces.
func Textarea(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	cleaned := stripTags(normalized)
	cleaned = stripControl(cleaned, true)
	cleaned = percentOctet.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// HexColor returns raw when it is a #rgb or #rrggbb color and "" otherwise.
func HexColor(raw string) string {
	if hexColor.MatchString(raw) {
		return raw
	}
	return ""
}

// IsHexColor reports whether raw is a #rgb or #rrggbb color.
func IsHexColor(raw string) bool {
	return hexColor.MatchString(raw)
}

// Flag maps a submitted checkbox/switch value onto "1" or "".
func Flag(raw string) string {
	if raw == "1" {
		return "1"
	}
	return ""
}

// stripTags removes markup. Ampersands are escaped before the policy runs so
// the single unescape afterwards reverts only the policy's own escaping and
// entity text typed by the user survives unchanged.
func stripTags(raw string) string {
	valid := strings.ToValidUTF8(raw, "")
	if !strings.Contains(valid, "<") {
		return valid
	}
	protected := strings.ReplaceAll(valid, "&", "&amp;")
	return html.UnescapeString(stripSanitizer().Sanitize(protected))
}

func stripControl(raw string, keepNewlines bool) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' && keepNewlines:
			return r
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, raw)
}

func stripSanitizer() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}
