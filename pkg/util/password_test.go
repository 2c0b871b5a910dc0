package util

import (
	"strings"
	"testing"
)

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		minLen     int
		minClasses int
		wantErr    string
	}{
		{"strong", "Tr0ub4dor&Gate", 12, 3, ""},
		{"too short", "Ab1!", 12, 3, "at least 12 characters"},
		{"one class", "aaaaaaaaaaaaaaaa", 12, 3, "at least 3 of"},
		{"two classes", "aaaaaaaaaaaa1111", 12, 3, "at least 3 of"},
		{"psk length only", "correct horse battery", 16, 1, ""},
		{"symbols count as class", "abcdefgh!!!!XY12", 12, 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordStrength(tt.password, tt.minLen, tt.minClasses)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected pass, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Error %q should contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
