// Package transcript decodes Claude Code session files and extracts the
// per-record facts the statistics engine folds.
package transcript

import (
	"bytes"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	json "github.com/goccy/go-json"
)

// Kind is the record discriminator stored in the "type" field.
type Kind string

const (
	KindUser      Kind = "user"
	KindAssistant Kind = "assistant"
	KindSystem    Kind = "system"
)

// Record is one line of a session file.
type Record struct {
	Kind      Kind      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"sessionId,omitempty"`
	AgentID   string    `json:"agentId,omitempty"`
	IsMeta    bool      `json:"isMeta,omitempty"`
	Message   *Message  `json:"message,omitempty"`

	// ToolUseResult is only populated when the record's toolUseResult is an
	// object; string and array forms carry nothing we read.
	ToolUseResult *ToolUseResult `json:"-"`
}

// ToolUseResult is the metadata Claude Code attaches to tool outcome records.
type ToolUseResult struct {
	AgentID string `json:"agentId,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Message is the API message embedded in user and assistant records.
type Message struct {
	Role    string           `json:"role,omitempty"`
	Model   anthropic.Model  `json:"model,omitempty"`
	Usage   *anthropic.Usage `json:"usage,omitempty"`
	Content Content          `json:"content,omitempty"`
}

// wireRecord is the on-disk shape of a Record. The timestamp stays a string
// so one malformed value drops only its own record from the windows.
type wireRecord struct {
	Kind          Kind            `json:"type"`
	Timestamp     string          `json:"timestamp"`
	SessionID     string          `json:"sessionId"`
	AgentID       string          `json:"agentId"`
	IsMeta        bool            `json:"isMeta"`
	Message       *Message        `json:"message"`
	ToolUseResult json.RawMessage `json:"toolUseResult"`
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Record{
		Kind:      w.Kind,
		Timestamp: parseTimestamp(w.Timestamp),
		SessionID: w.SessionID,
		AgentID:   w.AgentID,
		IsMeta:    w.IsMeta,
		Message:   w.Message,
	}

	raw := bytes.TrimSpace(w.ToolUseResult)
	if len(raw) > 0 && raw[0] == '{' {
		var meta ToolUseResult
		if err := json.Unmarshal(raw, &meta); err == nil {
			r.ToolUseResult = &meta
		}
	}
	return nil
}

// parseTimestamp returns the zero time for empty or unparsable values.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Items returns the record's content items, or nil when it has no message.
func (r Record) Items() Content {
	if r.Message == nil {
		return nil
	}
	return r.Message.Content
}

// AgentIdentifier returns the agent id carried by the record, preferring the
// top-level field over the tool result metadata.
func (r Record) AgentIdentifier() string {
	if r.AgentID != "" {
		return r.AgentID
	}
	if r.ToolUseResult != nil {
		return r.ToolUseResult.AgentID
	}
	return ""
}

// ContentItem is one entry of a message's content list. The set of
// implementations is closed: Text, ToolUse, ToolResult and Other.
type ContentItem interface {
	contentType() string
}

// Text is a free text content item.
type Text struct {
	Text string `json:"text"`
}

// ToolUse is a tool invocation issued by the assistant.
type ToolUse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ToolResult answers the ToolUse whose id equals ToolUseID.
type ToolResult struct {
	ToolUseID string          `json:"tool_use_id"`
	IsError   bool            `json:"is_error,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
}

// Other is any content item whose type we do not interpret (thinking,
// images, ...).
type Other struct {
	Type string
}

func (Text) contentType() string       { return "text" }
func (ToolUse) contentType() string    { return "tool_use" }
func (ToolResult) contentType() string { return "tool_result" }
func (o Other) contentType() string    { return o.Type }

// Description returns the "description" field of the invocation input, if any.
func (u ToolUse) Description() string {
	if len(u.Input) == 0 {
		return ""
	}
	var in struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(u.Input, &in); err != nil {
		return ""
	}
	return in.Description
}

// Content is a message content list. A plain string decodes to a single Text.
type Content []ContentItem

func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = nil
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Content{Text{Text: s}}
		return nil
	case data[0] != '[':
		return fmt.Errorf("content: unexpected %q", data[0])
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	items := make(Content, 0, len(raws))
	for _, raw := range raws {
		item, err := decodeItem(raw)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	*c = items
	return nil
}

func decodeItem(raw json.RawMessage) (ContentItem, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("content item: %w", err)
	}

	switch head.Type {
	case "text":
		var t Text
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("text item: %w", err)
		}
		return t, nil
	case "tool_use":
		var u ToolUse
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, fmt.Errorf("tool_use item: %w", err)
		}
		return u, nil
	case "tool_result":
		var r ToolResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("tool_result item: %w", err)
		}
		return r, nil
	default:
		return Other{Type: head.Type}, nil
	}
}
