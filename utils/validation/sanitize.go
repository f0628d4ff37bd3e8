package validation

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// SanitizeString removes null bytes and surrounding whitespace
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	s = strings.TrimSpace(s)
	return s
}

// SanitizeText sanitizes free text and strips any HTML markup, keeping the text content
func SanitizeText(s string) string {
	s = SanitizeString(s)
	if !strings.ContainsAny(s, "<>") {
		return s
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(escapeStrayOpeners(s)))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return strings.TrimSpace(b.String())
			}
			return ""
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// escapeStrayOpeners escapes every "<" that is not closed by a ">" before the next "<",
// so comparisons like "x<y" stay text instead of opening a tag
func escapeStrayOpeners(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '<' {
			next := strings.IndexAny(s[i+1:], "<>")
			if next < 0 || s[i+1+next] == '<' {
				b.WriteString("&lt;")
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
