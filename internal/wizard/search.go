package wizard

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/soundscape/internal/core"
	"github.com/tessro/soundscape/internal/tui/styles"
)

// SearchFunc searches the backend's track names.
type SearchFunc func(query string) (core.TrackList, error)

const searchDebounce = 300 * time.Millisecond

// SearchModel is a type-ahead track picker. Each keystroke schedules a search
// after a short pause; only the newest query's results are shown.
type SearchModel struct {
	input    textinput.Model
	search   SearchFunc
	debounce time.Duration

	query   string // last query sent to search
	pending bool
	hits    core.TrackList
	err     error

	cursor int
	chosen string

	width, height int
}

type debounceMsg struct{ query string }

type searchResultsMsg struct {
	query string
	hits  core.TrackList
	err   error
}

// NewSearchModel returns a focused search picker.
func NewSearchModel(search SearchFunc) SearchModel {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "Track name"
	in.CharLimit = 100
	in.Width = 50
	in.Focus()

	return SearchModel{
		input:    in,
		search:   search,
		debounce: searchDebounce,
		width:    80,
		height:   20,
	}
}

func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case debounceMsg:
		if msg.query != m.input.Value() || msg.query == m.query {
			return m, nil
		}
		m.query = msg.query
		m.pending = true
		return m, m.runSearch(msg.query)

	case searchResultsMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.pending = false
		m.hits, m.err = msg.hits, msg.err
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if typed := m.input.Value(); typed != m.query {
		return m, tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg {
			return debounceMsg{query: typed}
		}))
	}
	return m, cmd
}

func (m SearchModel) handleKey(msg tea.KeyMsg) (SearchModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit, true
	case "enter":
		if m.cursor >= len(m.hits) {
			return m, nil, true
		}
		m.chosen = m.hits[m.cursor].DisplayName(m.cursor)
		return m, tea.Quit, true
	case "up", "ctrl+p":
		m.cursor = max(m.cursor-1, 0)
		return m, nil, true
	case "down", "ctrl+n":
		m.cursor = max(min(m.cursor+1, len(m.hits)-1), 0)
		return m, nil, true
	}
	return m, nil, false
}

func (m SearchModel) runSearch(query string) tea.Cmd {
	search := m.search
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			return searchResultsMsg{query: query}
		}
		hits, err := search(query)
		return searchResultsMsg{query: query, hits: hits, err: err}
	}
}

func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Highlight.Render("Search tracks"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.ErrorText.Render(m.err.Error()))
		b.WriteString("\n")
	case m.pending:
		b.WriteString(styles.Muted.Render("searching…"))
		b.WriteString("\n")
	case len(m.hits) == 0 && m.query != "":
		b.WriteString(styles.Muted.Render("no matching tracks"))
		b.WriteString("\n")
	default:
		m.writeHits(&b)
	}

	b.WriteString("\n")
	b.WriteString(styles.Dim.Render("↑/↓ move · enter play · esc cancel"))
	return b.String()
}

func (m SearchModel) writeHits(b *strings.Builder) {
	rows := max(m.height-8, 5)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(m.hits))

	for i := start; i < end; i++ {
		name := styles.Truncate(m.hits[i].DisplayName(i), m.width-6)
		if i == m.cursor {
			b.WriteString(styles.Selected.Render("▸ " + name))
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
	}
	if rest := len(m.hits) - end; rest > 0 {
		b.WriteString(styles.Dim.Render("  +" + strconv.Itoa(rest) + " more"))
		b.WriteString("\n")
	}
}

// Selected returns the chosen track name, or "" if the picker was cancelled.
func (m SearchModel) Selected() string {
	return m.chosen
}

// RunSearch runs the picker full screen and returns the chosen track name.
func RunSearch(search SearchFunc) (string, error) {
	final, err := tea.NewProgram(NewSearchModel(search), tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	return final.(SearchModel).Selected(), nil
}
