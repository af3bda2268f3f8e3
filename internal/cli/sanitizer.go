package cli

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxLineSize bounds one REPL line.
const DefaultMaxLineSize = 4096

var (
	ErrLineTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8  = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeLine rejects oversized or malformed input and strips control
// characters such as ESC, NUL and BEL. limit <= 0 uses DefaultMaxLineSize.
func SanitizeLine(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxLineSize
	}
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrLineTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range input {
		if unicode.IsControl(r) && r != '\t' {
			clean = false
			break
		}
	}
	if clean {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}
