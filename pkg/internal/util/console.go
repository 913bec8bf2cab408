package util

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

type Level int

const (
	Plain Level = iota
	Info
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "plain"
	}
}

// Reporter shows status lines to the user.  Implementations own all styling.
type Reporter interface {
	Report(level Level, message string)
}

// ConsoleReporter prints colored, prefixed lines with pterm.  Status lines
// are also kept in the debug log.
type ConsoleReporter struct {
	w      io.Writer
	logger zerolog.Logger
}

func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w, logger: GetLogger("console")}
}

func (c *ConsoleReporter) Report(level Level, message string) {
	if level != Plain {
		c.logger.Debug().Stringer("status", level).Msg(message)
	}

	switch level {
	case Info:
		pterm.Info.WithWriter(c.w).Println(message)
	case Success:
		pterm.Success.WithWriter(c.w).Println(message)
	case Warning:
		pterm.Warning.WithWriter(c.w).Println(message)
	case Error:
		pterm.Error.WithWriter(c.w).Println(message)
	default:
		fmt.Fprintln(c.w, message)
	}
}

type Message struct {
	Level Level
	Text  string
}

// RecordingReporter keeps messages instead of printing them.
type RecordingReporter struct {
	Messages []Message
}

func (r *RecordingReporter) Report(level Level, message string) {
	r.Messages = append(r.Messages, Message{Level: level, Text: message})
}

func (r *RecordingReporter) Has(level Level) bool {
	for _, m := range r.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}
