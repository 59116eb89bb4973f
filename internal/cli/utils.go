// Package cli provides output helpers for the smartutb command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/smartutb/internal/chat"
	"github.com/hyperjump/smartutb/internal/models"
)

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, "":
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: text, json)", s)
	}
}

// WriteChatResponse writes a resolved answer to w.
func WriteChatResponse(w io.Writer, resp chat.Response, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, resp)
	}
	fmt.Fprintln(w, resp.Response)
	if !resp.Found {
		fmt.Fprintln(w, "(no match)")
	}
	return nil
}

// WriteSessions writes session summaries to w.
func WriteSessions(w io.Writer, nim string, sessions []models.SessionSummary, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, sessions)
	}
	if len(sessions) == 0 {
		fmt.Fprintf(w, "No sessions for %s\n", nim)
		return nil
	}
	fmt.Fprintf(w, "%d session(s) for %s\n\n", len(sessions), nim)
	for _, s := range sessions {
		fmt.Fprintf(w, "%s  %-16s  %s\n", s.ID, s.Date, s.Title)
	}
	return nil
}

// WriteMessages writes the messages of one session to w.
func WriteMessages(w io.Writer, messages []models.Message, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, messages)
	}
	for _, m := range messages {
		fmt.Fprintf(w, "[%s] %s\n", m.Sender, m.Text)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
