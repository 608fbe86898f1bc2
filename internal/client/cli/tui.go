package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/comicreader/internal/client/debounce"
	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/client/profile"
)

const maxRows = 15

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// stabilizer is the debouncer surface the input boxes need.
type stabilizer interface {
	Push(v string)
	Value() string
}

// stableMsg carries a value the debouncer settled on.
type stableMsg string

type searchResultMsg struct {
	query  string
	comics []models.Comic
	err    error
}

// debouncedInput is a text box whose edits are fed to a stabilizer.
type debouncedInput struct {
	input  textinput.Model
	values stabilizer
}

func newDebouncedInput(placeholder string, values stabilizer) debouncedInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Focus()
	return debouncedInput{input: ti, values: values}
}

// handleKey closes the box on esc, enter or ctrl+c and otherwise edits the
// text, pushing every change.
func (d *debouncedInput) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC, tea.KeyEnter:
		return tea.Quit
	}
	before := d.input.Value()
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	if v := d.input.Value(); v != before {
		d.values.Push(v)
	}
	return cmd
}

// accept reports whether a stabilized value is still current. Emissions are
// delivered asynchronously and may arrive out of order, so the debouncer's
// own value is authoritative.
func (d *debouncedInput) accept(msg stableMsg) bool {
	return string(msg) == d.values.Value()
}

// searchModel is the interactive comic search box. A request is issued each
// time the stabilized query changes; a reply is shown only while its query
// is still the current one.
type searchModel struct {
	debouncedInput

	ctx     context.Context
	search  func(ctx context.Context, query string) ([]models.Comic, error)
	spinner spinner.Model

	query   string
	loading bool
	results []models.Comic
	err     error
}

func newSearchModel(ctx context.Context, search func(context.Context, string) ([]models.Comic, error), values stabilizer) searchModel {
	return searchModel{
		debouncedInput: newDebouncedInput("title, author...", values),
		ctx:            ctx,
		search:         search,
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		query:          values.Value(),
		loading:        true,
	}
}

func (m searchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.fetch(m.query))
}

func (m searchModel) fetch(query string) tea.Cmd {
	ctx, search := m.ctx, m.search
	return func() tea.Msg {
		list, err := search(ctx, query)
		return searchResultMsg{query: query, comics: list, err: err}
	}
}

func (m searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case stableMsg:
		if !m.accept(msg) || string(msg) == m.query {
			return m, nil
		}
		m.query = string(msg)
		m.loading = true
		return m, m.fetch(m.query)

	case searchResultMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.loading = false
		m.results, m.err = msg.comics, msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m searchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Search comics") + "\n\n")
	b.WriteString(m.input.View() + "\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " searching...\n")
	case m.err != nil:
		b.WriteString(errorStyle.Render(describeError(m.err)) + "\n")
	case len(m.results) == 0:
		b.WriteString(dimStyle.Render("No comics found.") + "\n")
	default:
		for i, c := range m.results {
			if i == maxRows {
				b.WriteString(dimStyle.Render(fmt.Sprintf("...and %d more", len(m.results)-maxRows)) + "\n")
				break
			}
			b.WriteString("  " + comicLine(c) + "\n")
		}
	}

	b.WriteString("\n" + dimStyle.Render("esc to close"))
	return b.String()
}

// bookmarkFilterModel narrows the bookmark list locally as the stabilized
// filter changes.
type bookmarkFilterModel struct {
	debouncedInput

	filterFn func(query string) []profile.Bookmark
	filter   string
	items    []profile.Bookmark
}

func newBookmarkFilterModel(filterFn func(string) []profile.Bookmark, values stabilizer) bookmarkFilterModel {
	q := values.Value()
	return bookmarkFilterModel{
		debouncedInput: newDebouncedInput("filter by name", values),
		filterFn:       filterFn,
		filter:         q,
		items:          filterFn(q),
	}
}

func (m bookmarkFilterModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m bookmarkFilterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case stableMsg:
		if !m.accept(msg) {
			return m, nil
		}
		m.filter = string(msg)
		m.items = m.filterFn(m.filter)
	}
	return m, nil
}

func (m bookmarkFilterModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Bookmarks") + "\n\n")
	b.WriteString(m.input.View() + "\n\n")
	if len(m.items) == 0 {
		b.WriteString(dimStyle.Render("No bookmarks.") + "\n")
	}
	for i, e := range m.items {
		if i == maxRows {
			b.WriteString(dimStyle.Render(fmt.Sprintf("...and %d more", len(m.items)-maxRows)) + "\n")
			break
		}
		b.WriteString("  " + bookmarkLine(e) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("esc to close"))
	return b.String()
}

// runBox runs the model built by build with a debouncer feeding it
// stabilized input.
func runBox(ctx context.Context, delay time.Duration, build func(values stabilizer) tea.Model) error {
	var p *tea.Program
	values := debounce.New("", delay, func(v string) {
		// Send blocks until the event loop reads, and the loop may be inside Push.
		go p.Send(stableMsg(v))
	})
	defer values.Stop()

	p = tea.NewProgram(build(values), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (a *App) searchInteractive(ctx context.Context) error {
	return runBox(ctx, a.config.SearchDebounce, func(values stabilizer) tea.Model {
		return newSearchModel(ctx, a.catalog.Search, values)
	})
}

func (a *App) filterBookmarksInteractive(ctx context.Context) error {
	return runBox(ctx, a.config.BookmarkFilterDebounce, func(values stabilizer) tea.Model {
		return newBookmarkFilterModel(a.bookmarks.Filter, values)
	})
}
