package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/list"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/epd-tools/epd2lcabyg/internal/apperr"
)

// SearchItem is one search hit shown by the selector.
type SearchItem struct {
	UUID           string
	Name           string
	Node           string
	Owner          string
	Geo            string
	Classification string
	SubType        string
	ReferenceYear  string
	ValidUntil     string
}

// SearchFunc runs a keyword search against a node.
type SearchFunc func(ctx context.Context, keyword string) ([]SearchItem, error)

// EPDSelectorConfig configures the EPD selector
type EPDSelectorConfig struct {
	Search SearchFunc
	// Query is the initial keyword.
	Query   string
	Node    string
	Timeout time.Duration
}

// epdItem represents a dataset in the list
type epdItem struct {
	item     SearchItem
	selected bool
}

func (i epdItem) Title() string {
	var checkbox string
	if i.selected {
		checkbox = Success.Render("[✓] ")
	} else {
		checkbox = Dim.Render("[ ] ")
	}
	return checkbox + i.item.Name
}

func (i epdItem) Description() string {
	parts := []string{i.item.UUID}
	if i.item.Owner != "" {
		parts = append(parts, "by "+i.item.Owner)
	}
	if i.item.Geo != "" {
		parts = append(parts, i.item.Geo)
	}
	if i.item.ValidUntil != "" {
		parts = append(parts, "valid until "+i.item.ValidUntil)
	}
	return Dim.Render(strings.Join(parts, " · "))
}

func (i epdItem) FilterValue() string { return i.item.Name }

// epdSelectorModel is the Bubble Tea model for the interactive selector
type epdSelectorModel struct {
	textInput textinput.Model
	list      list.Model
	search    SearchFunc
	timeout   time.Duration
	node      string

	items       []list.Item
	selected    map[string]SearchItem
	order       []string
	searching   bool
	searchQuery string
	err         error
	quitting    bool
	confirmed   bool
	width       int
	height      int
}

type searchResultMsg struct {
	query   string
	results []SearchItem
	err     error
}

type searchDebounceMsg struct{ query string }

// NewEPDSelector creates a new interactive EPD selector
func NewEPDSelector(config EPDSelectorConfig) *epdSelectorModel {
	ti := textinput.New()
	ti.Placeholder = "Search EPDs by name..."
	ti.SetValue(config.Query)
	ti.Focus()
	ti.CharLimit = 156
	ti.SetWidth(50)

	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(3)
	delegate.SetSpacing(0)

	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ColorHighlight).
		BorderForeground(ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ColorTextDim).
		BorderForeground(ColorPrimary)

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Select EPDs"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 0, 1, 0)

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &epdSelectorModel{
		textInput:   ti,
		list:        l,
		search:      config.Search,
		timeout:     timeout,
		node:        config.Node,
		selected:    make(map[string]SearchItem),
		searchQuery: config.Query,
		width:       80,
		height:      24,
	}
}

// Init runs the initial search
func (m *epdSelectorModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.performSearch(m.searchQuery),
	)
}

// Update handles messages
func (m *epdSelectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.textInput.Focused() {
			switch msg.String() {
			case "ctrl+c", "esc":
				m.quitting = true
				return m, tea.Quit
			case "enter":
				m.textInput.Blur()
				return m, nil
			case "down", "up":
				if len(m.items) > 0 {
					m.textInput.Blur()
					var cmd tea.Cmd
					m.list, cmd = m.list.Update(msg)
					return m, cmd
				}
			default:
				var cmd tea.Cmd
				m.textInput, cmd = m.textInput.Update(msg)

				query := m.textInput.Value()
				if query != m.searchQuery {
					m.searchQuery = query
					cmds = append(cmds, m.debounceSearch(query))
				}
				cmds = append(cmds, cmd)
				return m, tea.Batch(cmds...)
			}
		} else {
			switch msg.String() {
			case "ctrl+c", "esc":
				m.quitting = true
				return m, tea.Quit
			case "enter":
				// nothing toggled: take the highlighted row
				if len(m.selected) == 0 {
					if i, ok := m.list.SelectedItem().(epdItem); ok {
						m.toggle(i.item)
					}
				}
				m.confirmed = true
				m.quitting = true
				return m, tea.Quit
			case "s", "space":
				if i, ok := m.list.SelectedItem().(epdItem); ok {
					m.toggle(i.item)
				}
				return m, nil
			case "/", "i":
				m.textInput.Focus()
				return m, textinput.Blink
			default:
				var cmd tea.Cmd
				m.list, cmd = m.list.Update(msg)
				return m, cmd
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case searchDebounceMsg:
		// stale keystrokes are dropped
		if msg.query != m.searchQuery {
			return m, nil
		}
		return m, m.performSearch(msg.query)

	case searchResultMsg:
		if msg.query != m.searchQuery {
			return m, nil
		}
		m.searching = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.setResults(msg.results)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *epdSelectorModel) setResults(results []SearchItem) {
	items := make([]list.Item, len(results))
	for i, r := range results {
		_, sel := m.selected[r.UUID]
		items[i] = epdItem{item: r, selected: sel}
	}
	m.items = items
	m.list.SetItems(items)
}

func (m *epdSelectorModel) toggle(it SearchItem) {
	if _, ok := m.selected[it.UUID]; ok {
		delete(m.selected, it.UUID)
		for i, id := range m.order {
			if id == it.UUID {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	} else {
		m.selected[it.UUID] = it
		m.order = append(m.order, it.UUID)
	}
	for i, li := range m.items {
		if ei, ok := li.(epdItem); ok && ei.item.UUID == it.UUID {
			_, sel := m.selected[it.UUID]
			m.items[i] = epdItem{item: ei.item, selected: sel}
			break
		}
	}
	m.list.SetItems(m.items)
}

// View renders the model
func (m *epdSelectorModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Padding(1, 0)
	title := "EPD Selector"
	if m.node != "" {
		title += " · " + m.node
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(Dim.Render("Search: "))
	b.WriteString(m.textInput.View())
	if m.searching {
		b.WriteString(Dim.Render(" (searching...)"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.list.View())
	b.WriteString("\n\n")

	if len(m.selected) > 0 {
		b.WriteString(fmt.Sprintf("%s %s\n",
			Success.Render("Selected:"),
			Highlight.Render(fmt.Sprintf("%d EPD(s)", len(m.selected)))))
	}

	helpStyle := lipgloss.NewStyle().Foreground(ColorTextDim)
	if m.textInput.Focused() {
		b.WriteString(helpStyle.Render("↑/↓: move to list · enter: finish search · esc: cancel"))
	} else {
		b.WriteString(helpStyle.Render("s: select · ↑/↓: navigate · enter: confirm · /: search · esc: cancel"))
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(Error.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	return tea.NewView(b.String())
}

// debounceSearch returns a command that triggers search after a delay
func (m *epdSelectorModel) debounceSearch(query string) tea.Cmd {
	return func() tea.Msg {
		time.Sleep(300 * time.Millisecond)
		return searchDebounceMsg{query: query}
	}
}

// performSearch executes the search
func (m *epdSelectorModel) performSearch(query string) tea.Cmd {
	m.searching = true
	search, timeout := m.search, m.timeout
	return func() tea.Msg {
		if search == nil {
			return searchResultMsg{query: query}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		results, err := search(ctx, query)
		return searchResultMsg{query: query, results: results, err: err}
	}
}

// Selected returns the chosen datasets in selection order.
func (m *epdSelectorModel) Selected() []SearchItem {
	out := make([]SearchItem, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.selected[id])
	}
	return out
}

// WasConfirmed returns true if the user confirmed the selection
func (m *epdSelectorModel) WasConfirmed() bool {
	return m.confirmed
}

// RunEPDSelector runs the interactive selector and returns the chosen
// datasets.
func RunEPDSelector(config EPDSelectorConfig) ([]SearchItem, error) {
	p := tea.NewProgram(NewEPDSelector(config))
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	model := m.(*epdSelectorModel)
	if !model.WasConfirmed() {
		return nil, apperr.ErrCancelled
	}
	return model.Selected(), nil
}

// RenderSearchResults renders search hits as a table, for non-interactive
// output.
func RenderSearchResults(items []SearchItem) string {
	rows := make([][]string, 0, len(items))
	for i, it := range items {
		rows = append(rows, []string{fmt.Sprintf("%d", i+1), it.Name, it.UUID, it.Owner, it.Geo, it.ValidUntil})
	}
	return RenderTable([]string{"#", "Name", "UUID", "Owner", "Geo", "Valid until"}, rows)
}
