package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeLine_SizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		limit   int
		wantErr bool
	}{
		{"Under Limit", 9, 10, false},
		{"Exact Limit", 10, 10, false},
		{"Over Limit", 11, 10, true},
		{"Default Limit", DefaultMaxLineSize + 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SanitizeLine(strings.Repeat("F", tt.size), tt.limit)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrLineTooLarge)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeLine_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "FLFFFRFLB", "FLFFFRFLB"},
		{"Tab Kept", ".history\t3", ".history\t3"},
		{"ANSI Code", "\x1b[AFF", "[AFF"},
		{"Null Byte", "F\x00F", "FF"},
		{"Carriage Return", "FL\r", "FL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeLine(tt.input, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeLine_InvalidUTF8(t *testing.T) {
	_, err := SanitizeLine("F\xffF", 0)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}
