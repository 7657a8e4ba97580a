package main

import (
	"fmt"
	"strings"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	sheetReset      = "\x1b[0m"
	sheetLabelWidth = 18
)

// statusSheet collects sectioned "label: [KIND] message" rows.
type statusSheet struct {
	color bool
	rows  []string
}

func (s *statusSheet) section(title string) {
	if len(s.rows) > 0 {
		s.rows = append(s.rows, "")
	}
	heading := "== " + strings.TrimSpace(title) + " =="
	s.rows = append(s.rows,
		s.paint(statusStyles[statusInfo].color, heading),
		s.paint(statusStyles[statusInfo].color, strings.Repeat("-", len(heading))),
	)
}

func (s *statusSheet) row(label string, kind statusKind, message string) {
	style := statusStyles[kind]
	text := fmt.Sprintf("  %-*s [%s]", sheetLabelWidth, label+":", style.label)
	if message != "" {
		text += " " + message
	}
	s.rows = append(s.rows, s.paint(style.color, text))
}

func (s *statusSheet) paint(color, text string) string {
	if !s.color {
		return text
	}
	return color + text + sheetReset
}

func (s *statusSheet) String() string {
	return strings.Join(s.rows, "\n")
}
