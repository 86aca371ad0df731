package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dusk-indust/userposts/internal/orchestrator"
	"github.com/dusk-indust/userposts/internal/resource"
)

type screen int

const (
	screenUsers screen = iota
	screenPosts
)

// Loader triggers the fetch operations; *orchestrator.Orchestrator satisfies it.
type Loader interface {
	LoadUsers(ctx context.Context)
	LoadPosts(ctx context.Context, userID int)
}

type (
	stateMsg     orchestrator.ViewState
	progressMsg  orchestrator.ProgressEvent
	fetchDoneMsg struct{}
)

// Model is the bubbletea model for the users and posts screens. It renders
// only what arrives on the store subscription.
type Model struct {
	ctx      context.Context
	loader   Loader
	states   <-chan orchestrator.ViewState
	progress <-chan orchestrator.ProgressEvent

	screen   screen
	state    orchestrator.ViewState
	cursor   int
	selected int
	status   string
	failed   bool
	quitting bool

	// postsFailed is set when the latest posts fetch for selected failed.
	postsFailed bool
}

// NewModel builds a model that reads view state from states and, when
// progress is non-nil, shows the latest fetch event in the footer.
func NewModel(ctx context.Context, loader Loader, states <-chan orchestrator.ViewState, progress <-chan orchestrator.ProgressEvent) Model {
	return Model{
		ctx:      ctx,
		loader:   loader,
		states:   states,
		progress: progress,
	}
}

// Init loads users, as entering the users screen always does.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForState(), m.waitForProgress(), m.loadUsers())
}

// Update handles view state, progress, and key messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = orchestrator.ViewState(msg)
		if m.cursor >= len(m.state.Users) {
			m.cursor = max(len(m.state.Users)-1, 0)
		}
		return m, m.waitForState()

	case progressMsg:
		ev := orchestrator.ProgressEvent(msg)
		m.status = orchestrator.FormatProgress(ev)
		m.failed = ev.Status == orchestrator.ProgressFailed
		if ev.Op == resource.OpListPostsByUser && ev.UserID == m.selected {
			m.postsFailed = m.failed
		}
		return m, m.waitForProgress()

	case fetchDoneMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		if m.screen == screenUsers {
			return m.updateUsers(msg)
		}
		return m.updatePosts(msg)
	}
	return m, nil
}

func (m Model) updateUsers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Users)-1 {
			m.cursor++
		}
	case "r":
		return m, m.loadUsers()
	case "enter":
		if len(m.state.Users) == 0 {
			return m, nil
		}
		m.selected = m.state.Users[m.cursor].ID
		m.postsFailed = false
		m.screen = screenPosts
		return m, m.loadPosts(m.selected)
	}
	return m, nil
}

func (m Model) updatePosts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "b", "backspace":
		// Re-entering the users screen reloads the list.
		m.screen = screenUsers
		return m, m.loadUsers()
	case "r":
		return m, m.loadPosts(m.selected)
	}
	return m, nil
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	switch m.screen {
	case screenUsers:
		m.viewUsers(&b)
	case screenPosts:
		m.viewPosts(&b)
	}

	if m.status != "" {
		style := StatusStyle
		if m.failed {
			style = ErrorTextStyle
		}
		b.WriteString("\n" + style.Render(m.status))
	}
	b.WriteString("\n" + FooterStyle.Render(m.help()))
	return b.String()
}

func (m Model) viewUsers(b *strings.Builder) {
	b.WriteString(HeaderStyle.Render("Users") + "\n")
	if len(m.state.Users) == 0 {
		b.WriteString(MutedStyle.Render("  no users loaded") + "\n")
		return
	}
	for i, u := range m.state.Users {
		line := fmt.Sprintf("%s (@%s)", u.Name, u.Username)
		if i == m.cursor {
			b.WriteString(SelectedStyle.Render("> "+line) + "\n")
			continue
		}
		b.WriteString(ItemStyle.Render(line) + "\n")
	}
}

func (m Model) viewPosts(b *strings.Builder) {
	title := fmt.Sprintf("Posts of user %d", m.selected)
	for _, u := range m.state.Users {
		if u.ID == m.selected {
			title = fmt.Sprintf("Posts by %s (user %d)", u.Name, u.ID)
			break
		}
	}
	b.WriteString(HeaderStyle.Render(title) + "\n")

	active := m.state.ActiveUserID
	if active == nil || *active != m.selected {
		if m.postsFailed {
			b.WriteString(ErrorTextStyle.Render("  could not load posts (r to retry)") + "\n")
			return
		}
		b.WriteString(MutedStyle.Render("  loading posts...") + "\n")
		return
	}
	if len(m.state.Posts) == 0 {
		b.WriteString(MutedStyle.Render("  no posts") + "\n")
		return
	}
	for _, p := range m.state.Posts {
		b.WriteString(PostTitleStyle.Render(p.Title) + "\n")
		b.WriteString(PostBodyStyle.Render(p.Body) + "\n")
	}
}

func (m Model) help() string {
	if m.screen == screenPosts {
		return "esc: back to users • r: reload • q: quit"
	}
	return "↑/↓: move • enter: show posts • r: reload • q: quit"
}

func (m Model) loadUsers() tea.Cmd {
	return func() tea.Msg {
		m.loader.LoadUsers(m.ctx)
		return fetchDoneMsg{}
	}
}

func (m Model) loadPosts(userID int) tea.Cmd {
	return func() tea.Msg {
		m.loader.LoadPosts(m.ctx, userID)
		return fetchDoneMsg{}
	}
}

func (m Model) waitForState() tea.Cmd {
	if m.states == nil {
		return nil
	}
	return func() tea.Msg {
		vs, ok := <-m.states
		if !ok {
			return nil
		}
		return stateMsg(vs)
	}
}

func (m Model) waitForProgress() tea.Cmd {
	if m.progress == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-m.progress
		if !ok {
			return nil
		}
		return progressMsg(ev)
	}
}
