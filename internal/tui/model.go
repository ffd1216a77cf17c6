// Package tui is the interactive terminal browser for projects and usage
// reports.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ccviewer/internal/projects"
	"ccviewer/internal/stats"
)

type viewState int

const (
	viewProjects viewState = iota
	viewStats
)

const overallScope = "All Projects"

// Model is the main TUI model.
type Model struct {
	store  *projects.Store
	engine *stats.Engine

	state       viewState
	projectList list.Model
	spinner     spinner.Model
	help        help.Model

	period     string
	scopeID    string // "" for the overall report
	scopeName  string
	report     *stats.Report
	loading    bool
	loadingSeq int

	width  int
	height int
	err    string
}

// NewModel creates the initial TUI model showing period reports.
func NewModel(store *projects.Store, engine *stats.Engine, period string) Model {
	if period == "" {
		period = stats.DefaultWindow
	}

	delegate := newStyledDelegate()
	delegate.ShowDescription = true
	pl := list.New(nil, delegate, 0, 0)
	pl.SetShowTitle(false)
	pl.SetShowHelp(false)
	pl.SetShowStatusBar(false)
	pl.SetFilteringEnabled(true)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		store:       store,
		engine:      engine,
		state:       viewProjects,
		projectList: pl,
		spinner:     sp,
		help:        help.New(),
		period:      period,
		scopeName:   overallScope,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(loadProjectsCmd(m.store), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// appStyle padding: 4 horizontal, 2 vertical; header, gap, help, status: 5
		m.projectList.SetSize(m.width-4, m.height-7)
		m.help.Width = m.width - 4
		return m, nil

	case projectsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		return m, m.projectList.SetItems(msg.items)

	case reportLoadedMsg:
		if msg.seq != m.loadingSeq {
			// superseded by a newer request
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.report = msg.report
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.state == viewProjects && m.projectList.FilterState() == list.Filtering {
			return m.updateList(msg)
		}
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if m.state == viewStats {
			return m.updateStats(msg)
		}
		return m.updateProjects(msg)
	}

	return m.updateList(msg)
}

func (m Model) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Tab):
		return m.openStats("", overallScope)

	case key.Matches(msg, keys.Enter):
		if item, ok := m.projectList.SelectedItem().(projectItem); ok {
			return m.openStats(item.summary.ID, item.summary.DisplayName)
		}
		return m, nil

	case key.Matches(msg, keys.Refresh):
		return m, loadProjectsCmd(m.store)
	}
	return m.updateList(msg)
}

// updateStats handles key events in the stats view.
func (m Model) updateStats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Escape):
		m.state = viewProjects
		return m, nil
	case key.Matches(msg, keys.Week):
		m.period = "7"
		return m.reload()
	case key.Matches(msg, keys.Month):
		m.period = "30"
		return m.reload()
	case key.Matches(msg, keys.All):
		m.period = "all"
		return m.reload()
	case key.Matches(msg, keys.Refresh):
		return m.reload()
	}
	return m, nil
}

func (m Model) openStats(projectID, name string) (tea.Model, tea.Cmd) {
	m.state = viewStats
	m.scopeID = projectID
	m.scopeName = name
	m.report = nil
	return m.reload()
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	m.loading = true
	m.loadingSeq++
	return m, tea.Batch(
		loadReportCmd(m.engine, m.loadingSeq, m.scopeID, m.period),
		m.spinner.Tick,
	)
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.projectList, cmd = m.projectList.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	innerWidth := m.width - 4

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch {
	case m.state == viewProjects:
		b.WriteString(m.projectList.View())
	case m.loading && m.report == nil:
		b.WriteString(lipgloss.NewStyle().
			Width(innerWidth).
			Height(m.height-7).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.spinner.View() + statsDimStyle.Render(" Building report...")))
	case m.report != nil:
		b.WriteString(renderStatsView(m.report, m.scopeName, innerWidth))
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(statusErrorStyle.Render("  Error: " + m.err))
	} else if m.loading && m.report != nil {
		b.WriteString("\n")
		b.WriteString(statusOkStyle.Render("  " + m.spinner.View() + " refreshing"))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.renderHelp()))

	return appStyle.Render(b.String())
}

func (m Model) renderHeader() string {
	innerWidth := m.width - 4

	title := titleStyle.Render(" ⬡ ccviewer ")

	projectTab := inactiveTabStyle.Render("Projects")
	statsTab := inactiveTabStyle.Render("Stats")
	if m.state == viewProjects {
		projectTab = activeTabStyle.Render("Projects")
	} else {
		statsTab = activeTabStyle.Render("Stats")
	}

	info := lipgloss.NewStyle().
		Foreground(mutedColor).
		Render(fmt.Sprintf("%d projects | %s", len(m.projectList.Items()), m.store.Root()))

	tabs := fmt.Sprintf("%s  %s", projectTab, statsTab)
	gap := strings.Repeat(" ", max(0, innerWidth-lipgloss.Width(title)-lipgloss.Width(tabs)-lipgloss.Width(info)-4))

	return fmt.Sprintf("%s  %s%s%s", title, tabs, gap, info)
}

func (m Model) renderHelp() string {
	if m.state == viewStats {
		return m.help.View(statsHelp{keys})
	}
	return strings.Join([]string{"jk/↑↓ select", "/ filter", m.help.View(keys)}, "  ")
}

// Run starts the TUI application.
func Run(store *projects.Store, engine *stats.Engine, period string) error {
	p := tea.NewProgram(NewModel(store, engine, period), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
