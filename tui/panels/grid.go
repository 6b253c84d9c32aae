package panels

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/stocksuggester/internal/stock"
	"github.com/zappabad/stocksuggester/tui/styles"
)

const (
	gridCardWidth  = 40
	gridCardHeight = 8
)

// GridPanel lays out the hot stocks as a wrapping grid of cards.
type GridPanel struct {
	cards         []*CardView
	selectedIndex int
	loading       bool
	vp            viewport.Model
	focused       bool
	width         int
	height        int
}

// NewGridPanel creates an empty grid.
func NewGridPanel() *GridPanel {
	return &GridPanel{vp: viewport.New(0, 0)}
}

// Init initializes the panel.
func (p *GridPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *GridPanel) Update(msg tea.Msg) (*GridPanel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !p.focused || len(p.cards) == 0 {
		return p, nil
	}

	cols := p.columns()
	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left", "h"))):
		if p.selectedIndex > 0 {
			p.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right", "l"))):
		if p.selectedIndex < len(p.cards)-1 {
			p.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if p.selectedIndex-cols >= 0 {
			p.selectedIndex -= cols
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if p.selectedIndex+cols < len(p.cards) {
			p.selectedIndex += cols
		}
	case key.Matches(keyMsg, expandKey):
		return p, p.cards[p.selectedIndex].Expand()
	}
	return p, nil
}

// View renders the panel.
func (p *GridPanel) View() string {
	var content string
	switch {
	case len(p.cards) == 0 && p.loading:
		content = styles.MutedStyle.Render("Loading hot stocks...")
	case len(p.cards) == 0:
		content = styles.MutedStyle.Render("No hot stocks available")
	default:
		p.vp.Width = p.width - 4
		p.vp.Height = max(p.height-3, gridCardHeight)
		p.vp.SetContent(p.renderCards())
		p.scrollToSelection()
		content = p.vp.View()
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("🔥 Hot Stocks", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content)

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *GridPanel) renderCards() string {
	cols := p.columns()
	var rows []string
	for start := 0; start < len(p.cards); start += cols {
		end := min(start+cols, len(p.cards))
		row := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			card := p.cards[i]
			card.SetFocus(p.focused && i == p.selectedIndex)
			card.SetSize(gridCardWidth, gridCardHeight)
			row = append(row, card.View())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (p *GridPanel) scrollToSelection() {
	top := (p.selectedIndex / p.columns()) * gridCardHeight
	switch {
	case top < p.vp.YOffset:
		p.vp.SetYOffset(top)
	case top+gridCardHeight > p.vp.YOffset+p.vp.Height:
		p.vp.SetYOffset(top + gridCardHeight - p.vp.Height)
	}
}

func (p *GridPanel) columns() int {
	return max((p.width-4)/gridCardWidth, 1)
}

// SetFocus sets the focus state of the panel.
func (p *GridPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *GridPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetLoading shows the loading placeholder while the grid is empty.
func (p *GridPanel) SetLoading(loading bool) {
	p.loading = loading
}

// SetStocks replaces the cards.
func (p *GridPanel) SetStocks(stocks []stock.Snapshot) {
	p.cards = make([]*CardView, 0, len(stocks))
	for i := range stocks {
		card := NewCardView()
		snap := stocks[i]
		card.SetSnapshot(&snap)
		p.cards = append(p.cards, card)
	}
	if p.selectedIndex >= len(p.cards) {
		p.selectedIndex = 0
	}
}

// Len returns the number of cards.
func (p *GridPanel) Len() int {
	return len(p.cards)
}

// Selected returns the stock under the cursor.
func (p *GridPanel) Selected() (stock.Snapshot, bool) {
	if p.selectedIndex < 0 || p.selectedIndex >= len(p.cards) {
		return stock.Snapshot{}, false
	}
	return *p.cards[p.selectedIndex].Snapshot(), true
}
