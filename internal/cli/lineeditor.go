package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	historyFileName = ".moonrobot_history"
	historySize     = 500
)

// LineEditor reads REPL input. On a terminal it uses readline with persistent
// history. Otherwise it scans lines from the reader and echoes the prompt to out.
type LineEditor struct {
	rl      *readline.Instance
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLineEditor picks readline when stdin is a terminal.
func NewLineEditor() *LineEditor {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return NewScannerEditor(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            historyPath(),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return NewScannerEditor(os.Stdin, os.Stdout)
	}
	return &LineEditor{rl: rl}
}

// NewScannerEditor reads plain lines from in.
func NewScannerEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{scanner: bufio.NewScanner(in), out: out}
}

// GetLine returns the next line. io.EOF marks the end of input or an interrupt.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.rl != nil {
		le.rl.SetPrompt(prompt)
		line, err := le.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				return "", io.EOF
			}
			return "", err
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			le.rl.SaveToHistory(trimmed)
		}
		return line, nil
	}

	fmt.Fprint(le.out, prompt)
	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Interactive reports whether readline is active.
func (le *LineEditor) Interactive() bool {
	return le.rl != nil
}

// Close releases the terminal.
func (le *LineEditor) Close() error {
	if le.rl == nil {
		return nil
	}
	le.rl.Close()
	le.rl = nil
	return nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}
