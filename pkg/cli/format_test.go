package cli

import (
	"strings"
	"testing"
)

func TestDotPad(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"site name", "branch-nyc", 30, "branch-nyc " + strings.Repeat(".", 19)},
		{"short status", "ok", 10, "ok " + strings.Repeat(".", 7)},
		{"name fills width minus one", "abcde", 6, "abcde"},
		{"name fills width", "abcdef", 6, "abcdef"},
		{"name longer than width", "a-very-long-site-name", 5, "a-very-long-site-name"},
		{"empty name", "", 10, " " + strings.Repeat(".", 9)},
		{"width of 1", "", 1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DotPad(tt.input, tt.width)
			if got != tt.expected {
				t.Errorf("DotPad(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.expected)
			}
		})
	}
}

func TestDotPadResultLength(t *testing.T) {
	if got := DotPad("branch-nyc", 30); len(got) != 30 {
		t.Errorf("DotPad should pad to the full width, got len %d", len(got))
	}
}

func TestColorFunctions(t *testing.T) {
	old := colorEnabled
	colorEnabled = true
	defer func() { colorEnabled = old }()

	tests := []struct {
		name   string
		fn     func(string) string
		prefix string
	}{
		{"Green", Green, "\033[32m"},
		{"Yellow", Yellow, "\033[33m"},
		{"Red", Red, "\033[31m"},
		{"Bold", Bold, "\033[1m"},
		{"Dim", Dim, "\033[2m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn("deployed")
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("%s should start with %q, got %q", tt.name, tt.prefix, got)
			}
			if !strings.Contains(got, "deployed") {
				t.Errorf("%s should contain the input string", tt.name)
			}
			if !strings.HasSuffix(got, "\033[0m") {
				t.Errorf("%s should end with the reset code", tt.name)
			}
		})
	}
}
