package transcript

import "strings"

// SubSessionPrefix marks agent (sub-session) files: agent-<agentId>.jsonl.
const SubSessionPrefix = "agent-"

const taskToolName = "Task"

// ShouldSkip reports whether a session is degenerate: a single assistant
// record with no user turn.
func ShouldSkip(records []Record) bool {
	return len(records) == 1 && records[0].Kind == KindAssistant
}

// IsSubSession reports whether a session id names an agent session.
func IsSubSession(sessionID string) bool {
	return strings.HasPrefix(sessionID, SubSessionPrefix)
}

// SubSessionID returns the session id of the agent file for agentID.
func SubSessionID(agentID string) string {
	return SubSessionPrefix + agentID
}

// CollectLinkDescriptions maps sub-session ids to the description of the Task
// invocation that spawned them. Invocations whose outcome never carried an
// agent id produce no link. When several invocations resolve to the same
// agent, the last one in source order wins.
func CollectLinkDescriptions(records []Record) map[string]string {
	var invocations []string                // Task invocation ids, source order
	descriptions := make(map[string]string) // invocation id -> description
	agents := make(map[string]string)       // outcome id -> agent id

	for _, rec := range records {
		if rec.Kind == KindAssistant {
			for _, item := range rec.Items() {
				use, ok := item.(ToolUse)
				if !ok || use.Name != taskToolName || use.ID == "" {
					continue
				}
				desc := use.Description()
				if desc == "" {
					continue
				}
				if _, seen := descriptions[use.ID]; !seen {
					invocations = append(invocations, use.ID)
				}
				descriptions[use.ID] = desc
			}
		}

		agentID := rec.AgentIdentifier()
		if agentID == "" {
			continue
		}
		for _, item := range rec.Items() {
			if res, ok := item.(ToolResult); ok && res.ToolUseID != "" {
				agents[res.ToolUseID] = agentID
			}
		}
	}

	links := make(map[string]string)
	for _, id := range invocations {
		agentID, ok := agents[id]
		if !ok {
			continue
		}
		links[SubSessionID(agentID)] = descriptions[id]
	}
	return links
}
