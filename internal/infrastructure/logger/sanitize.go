package logger

import (
	"strconv"
	"strings"
)

// SanitizeForLog escapes control characters so a file name cannot forge log
// lines or drive the terminal. Printable Unicode is kept as is.
func SanitizeForLog(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if !isControl(r) {
			b.WriteRune(r)
			continue
		}
		// QuoteRune yields '\n', '\x1b', ... with surrounding quotes
		q := strconv.QuoteRune(r)
		b.WriteString(q[1 : len(q)-1])
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 32 || r == 127
}
