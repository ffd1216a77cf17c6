package projects

import (
	"strings"

	"ccviewer/internal/transcript"
)

const maxTitleRunes = 100

// Title picks a human readable title for a session: the first line of the
// first real user prompt, skipping meta records and command wrappers like
// "<command-name>". Falls back to the session id.
func Title(sessionID string, records []transcript.Record) string {
	for _, rec := range records {
		if rec.Kind != transcript.KindUser || rec.IsMeta {
			continue
		}
		for _, item := range rec.Items() {
			text, ok := item.(transcript.Text)
			if !ok {
				continue
			}
			line := firstLine(text.Text)
			if line == "" || strings.HasPrefix(line, "<") {
				continue
			}
			return truncate(line, maxTitleRunes)
		}
	}
	return sessionID
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// MessageCount counts the user and assistant records of a session.
func MessageCount(records []transcript.Record) int {
	n := 0
	for _, rec := range records {
		if rec.Kind == transcript.KindUser || rec.Kind == transcript.KindAssistant {
			n++
		}
	}
	return n
}
