package commands

import (
	"context"
	"io"
	"os"
	"strconv"
	"time"

	"ccviewer/internal/output"
	"ccviewer/internal/projects"
	"ccviewer/internal/ui"
)

// RunProjects lists every project, most recently active first.
func RunProjects(ctx context.Context, w io.Writer) error {
	a, err := loadApp(os.Stderr)
	if err != nil {
		return err
	}
	return runProjects(ctx, w, a.store)
}

func runProjects(ctx context.Context, w io.Writer, store *projects.Store) error {
	list, err := store.ListProjects(orBackground(ctx))
	if err != nil {
		return err
	}

	output.Print(list, func() {
		if len(list) == 0 {
			ui.ShowInfo("No projects found in %s", store.Root())
			return
		}
		rows := make([][]string, 0, len(list))
		for _, p := range list {
			rows = append(rows, []string{
				p.DisplayName,
				p.ID,
				strconv.Itoa(p.SessionCount),
				formatWhen(p.LastActivity),
			})
		}
		if err := output.Table(w, []string{"Project", "ID", "Sessions", "Last Active"}, 2, rows); err != nil {
			ui.ShowError("Failed to render projects", err)
		}
	})
	return nil
}

// RunSessions lists the sessions of one project.
func RunSessions(ctx context.Context, w io.Writer, projectID string) error {
	a, err := loadApp(os.Stderr)
	if err != nil {
		return err
	}
	return runSessions(ctx, w, a.store, projectID)
}

func runSessions(ctx context.Context, w io.Writer, store *projects.Store, projectID string) error {
	list, err := store.ListSessions(orBackground(ctx), projectID)
	if err != nil {
		return err
	}

	output.Print(list, func() {
		if len(list) == 0 {
			ui.ShowInfo("No sessions in %s", projectID)
			return
		}
		rows := make([][]string, 0, len(list))
		for _, s := range list {
			rows = append(rows, []string{
				s.ID,
				s.Title,
				formatWhen(s.Timestamp),
				strconv.Itoa(s.MessageCount),
				strconv.Itoa(len(s.AgentSessions)),
			})
			for _, agent := range s.AgentSessions {
				rows = append(rows, []string{
					"  ↳ " + agent.ID,
					agent.Title,
					formatWhen(agent.Timestamp),
					strconv.Itoa(agent.MessageCount),
					"",
				})
			}
		}
		if err := output.Table(w, []string{"Session", "Title", "Started", "Messages", "Agents"}, 3, rows); err != nil {
			ui.ShowError("Failed to render sessions", err)
		}
	})
	return nil
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
