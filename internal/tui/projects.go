package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"ccviewer/internal/projects"
)

// projectItem implements the list.Item interface for project entries.
type projectItem struct {
	summary projects.ProjectSummary
}

func (i projectItem) Title() string {
	return i.summary.DisplayName
}

func (i projectItem) Description() string {
	parts := []string{fmt.Sprintf("%d sessions", i.summary.SessionCount)}
	if !i.summary.LastActivity.IsZero() {
		parts = append(parts, "last active "+i.summary.LastActivity.Local().Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, "  ")
}

func (i projectItem) FilterValue() string {
	return i.summary.DisplayName + " " + i.summary.ID
}

type projectsLoadedMsg struct {
	items []list.Item
	err   error
}

// loadProjectsCmd lists the archive in the background.
func loadProjectsCmd(store *projects.Store) tea.Cmd {
	return func() tea.Msg {
		summaries, err := store.ListProjects(context.Background())
		if err != nil {
			return projectsLoadedMsg{err: err}
		}
		items := make([]list.Item, 0, len(summaries))
		for _, s := range summaries {
			items = append(items, projectItem{summary: s})
		}
		return projectsLoadedMsg{items: items}
	}
}
