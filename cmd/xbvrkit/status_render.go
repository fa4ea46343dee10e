package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"xbvrkit/internal/services"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

// outcomeKind maps a journal status to a display color class.
func outcomeKind(status string) statusKind {
	switch status {
	case services.StatusMatched, services.StatusDeleted, services.StatusQueued:
		return statusOK
	case services.StatusMissing, services.StatusSkipped, services.StatusDryRun, services.StatusNoChange:
		return statusWarn
	case services.StatusFailed:
		return statusError
	default:
		return statusInfo
	}
}

func colorizeStatus(status string, colorize bool) string {
	if !colorize {
		return status
	}
	if color := statusKindColor(outcomeKind(status)); color != "" {
		return color + status + ansiReset
	}
	return status
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
