package logutil

import "testing"

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{
			name:     "short string passes through",
			input:    "hello",
			maxLen:   10,
			expected: "hello",
		},
		{
			name:     "exact length passes through",
			input:    "hello",
			maxLen:   5,
			expected: "hello",
		},
		{
			name:     "bearer token keeps only a prefix",
			input:    "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9",
			maxLen:   8,
			expected: "eyJhbGci...",
		},
		{
			name:     "zero maxLen hides everything",
			input:    "hello",
			maxLen:   0,
			expected: "...",
		},
		{
			name:     "negative maxLen hides everything",
			input:    "hello",
			maxLen:   -1,
			expected: "...",
		},
		{
			name:     "empty input stays empty",
			input:    "",
			maxLen:   10,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateForLog(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("TruncateForLog(%q, %d) = %q, want %q",
					tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}
