package panels

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zappabad/stocksuggester/tui/styles"
)

// SearchSubmitMsg is sent when the user submits a ticker.
type SearchSubmitMsg struct {
	Query string
}

// SearchPanel is the ticker search bar.
type SearchPanel struct {
	input   textinput.Model
	focused bool
	width   int
}

// NewSearchPanel creates a new search panel.
func NewSearchPanel() *SearchPanel {
	input := textinput.New()
	input.Placeholder = "Enter stock symbol (e.g. AAPL, RELIANCE.NS)"
	input.Prompt = "🔍 "
	input.CharLimit = 32
	input.Width = 40

	return &SearchPanel{input: input}
}

// Init initializes the panel.
func (p *SearchPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel. Enter submits the raw text as typed;
// the owner decides whether it is a valid query.
func (p *SearchPanel) Update(msg tea.Msg) (*SearchPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, key.NewBinding(key.WithKeys("enter"))) {
			query := p.input.Value()
			return p, func() tea.Msg { return SearchSubmitMsg{Query: query} }
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// View renders the panel.
func (p *SearchPanel) View() string {
	style := styles.InputStyle
	if p.focused {
		style = styles.FocusedInputStyle
	}
	p.input.PlaceholderStyle = styles.PlaceholderStyle
	p.input.TextStyle = styles.RowStyle

	w := p.width - 2
	if w < 10 {
		w = 10
	}
	return style.Width(w).Render(p.input.View())
}

// SetFocus sets the focus state of the panel.
func (p *SearchPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		p.input.Focus()
	} else {
		p.input.Blur()
	}
}

// Focused reports whether the search box has focus.
func (p *SearchPanel) Focused() bool {
	return p.focused
}

// SetSize sets the panel width.
func (p *SearchPanel) SetSize(width, _ int) {
	p.width = width
	inner := width - 8
	if inner < 10 {
		inner = 10
	}
	p.input.Width = inner
}

// Value returns the current text.
func (p *SearchPanel) Value() string {
	return p.input.Value()
}

// SetValue replaces the current text.
func (p *SearchPanel) SetValue(s string) {
	p.input.SetValue(s)
}
