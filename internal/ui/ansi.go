package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var colorMode = ColorAuto

// SetColorMode selects when C and lipgloss styles emit escapes. Auto colors
// a terminal stdout unless NO_COLOR is set.
func SetColorMode(mode string) error {
	switch m := strings.ToLower(strings.TrimSpace(mode)); m {
	case "", ColorAuto:
		colorMode = ColorAuto
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
	case ColorAlways:
		colorMode = m
		lipgloss.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		colorMode = m
		lipgloss.SetColorProfile(termenv.Ascii)
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", mode)
	}
	return nil
}

func colorEnabled() bool {
	switch colorMode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func C(color, s string) string {
	if color == "" || current.NoColor || !colorEnabled() {
		return s
	}
	return color + s + reset
}

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(current.Success, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(current.Error, symCross+" "+msg)) }

// Hint prints a muted follow-up line.
func Hint(w io.Writer, msg string) { fmt.Fprintln(w, C(dim, msg)) }
