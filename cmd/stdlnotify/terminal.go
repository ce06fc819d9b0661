package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const statusLabelWidth = 12

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
)

// isTerminal reports whether writer is an interactive terminal. Non-file
// writers (pipes in tests, buffers) are never terminals.
func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	base := fmt.Sprintf("%-*s %s", statusLabelWidth, label+":", message)
	if !colorize {
		return base
	}
	switch kind {
	case statusOK:
		return ansiGreen + base + ansiReset
	case statusWarn:
		return ansiYellow + base + ansiReset
	default:
		return base
	}
}
