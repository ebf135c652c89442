package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "frame path unchanged", input: "/data/frames/img_0001.jpg", expected: "/data/frames/img_0001.jpg"},
		{name: "empty string", input: "", expected: ""},
		{name: "unicode preserved", input: "/séquence/画像_1.png", expected: "/séquence/画像_1.png"},
		{name: "newline escaped", input: "a\nINFO: forged", expected: `a\nINFO: forged`},
		{name: "CRLF escaped", input: "line1\r\nline2", expected: `line1\r\nline2`},
		{name: "tab escaped", input: "col1\tcol2", expected: `col1\tcol2`},
		{name: "null byte escaped", input: "before\x00after", expected: `before\x00after`},
		{name: "ANSI escape escaped", input: "\x1b[31mred\x1b[0m", expected: `\x1b[31mred\x1b[0m`},
		{name: "bell escaped", input: "alert\x07", expected: `alert\a`},
		{name: "delete escaped", input: "x\x7fy", expected: `x\x7fy`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeForLog(tt.input))
		})
	}
}

func TestSetVerbose(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(nopStdout{})
	})

	Debug.Printf("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	SetVerbose(true)
	Debug.Printf("shown")
	Info.Printf("info line")

	assert.Contains(t, buf.String(), "DEBUG: ")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "INFO: ")
}

type nopStdout struct{}

func (nopStdout) Write(p []byte) (int, error) { return len(p), nil }
