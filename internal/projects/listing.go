package projects

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"ccviewer/internal/transcript"
)

// ProjectSummary is one row of the project listing.
type ProjectSummary struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"displayName"`
	SessionCount int       `json:"sessionCount"`
	LastActivity time.Time `json:"lastActivity"`
}

// SessionSummary is one main session with its linked agent sessions.
type SessionSummary struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Timestamp     time.Time      `json:"timestamp"`
	Size          int64          `json:"size"`
	MessageCount  int            `json:"messageCount"`
	AgentSessions []AgentSession `json:"agentSessions"`
}

// AgentSession is a sub-session reached through its parent's Task link.
type AgentSession struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Timestamp    time.Time `json:"timestamp"`
	MessageCount int       `json:"messageCount"`
}

// ListProjects summarizes every project, most recently active first. Session
// counts come from file metadata only and exclude empty and agent files; no
// file is parsed, so degenerate and unparsable sessions that ListSessions
// leaves out are still counted here.
func (s *Store) ListProjects(ctx context.Context) ([]ProjectSummary, error) {
	projects, err := s.Projects(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		files, err := s.Sessions(ctx, p)
		if err != nil {
			log.Warn().Err(err).Str("project", p.ID).Msg("list sessions")
			continue
		}

		summary := ProjectSummary{ID: p.ID, DisplayName: DisplayName(p.ID)}
		for _, f := range files {
			if f.ModTime.After(summary.LastActivity) {
				summary.LastActivity = f.ModTime
			}
			if f.Empty() || f.IsSubSession() {
				continue
			}
			summary.SessionCount++
		}
		out = append(out, summary)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivity.After(out[j].LastActivity)
	})
	return out, nil
}

// ListSessions parses every main session of a project and attaches the agent
// sessions it links to, newest first. Files that fail to parse are logged and
// left out.
func (s *Store) ListSessions(ctx context.Context, projectID string) ([]SessionSummary, error) {
	p, err := s.Project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	files, err := s.Sessions(ctx, p)
	if err != nil {
		return nil, err
	}
	index := IndexByID(files)

	out := make([]SessionSummary, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.Empty() || f.IsSubSession() {
			continue
		}

		records, err := transcript.ParseFile(f.Path)
		if err != nil {
			log.Warn().Err(err).Str("project", p.ID).Str("session", f.ID).Msg("skip session")
			continue
		}
		if transcript.ShouldSkip(records) {
			continue
		}

		out = append(out, SessionSummary{
			ID:            f.ID,
			Title:         Title(f.ID, records),
			Timestamp:     f.ModTime,
			Size:          f.Size,
			MessageCount:  MessageCount(records),
			AgentSessions: agentSessions(records, index),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func agentSessions(records []transcript.Record, index map[string]SessionFile) []AgentSession {
	links := transcript.CollectLinkDescriptions(records)
	agents := make([]AgentSession, 0, len(links))
	for id, desc := range links {
		f, ok := index[id]
		if !ok {
			continue
		}
		agent := AgentSession{ID: id, Title: desc, Timestamp: f.ModTime}
		if !f.Empty() {
			sub, err := transcript.ParseFile(f.Path)
			if err != nil {
				log.Debug().Err(err).Str("session", id).Msg("agent session unreadable")
			} else {
				agent.MessageCount = MessageCount(sub)
			}
		}
		agents = append(agents, agent)
	}
	sort.Slice(agents, func(i, j int) bool {
		if !agents[i].Timestamp.Equal(agents[j].Timestamp) {
			return agents[i].Timestamp.After(agents[j].Timestamp)
		}
		return agents[i].ID < agents[j].ID
	})
	return agents
}

// ResolveLinks returns the sub-session files a main session links to, in a
// stable order. Links whose agent file does not exist are dropped.
func ResolveLinks(records []transcript.Record, index map[string]SessionFile) []SessionFile {
	links := transcript.CollectLinkDescriptions(records)
	ids := make([]string, 0, len(links))
	for id := range links {
		if _, ok := index[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	out := make([]SessionFile, 0, len(ids))
	for _, id := range ids {
		out = append(out, index[id])
	}
	return out
}

