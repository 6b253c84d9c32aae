package panels

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/zappabad/stocksuggester/internal/format"
	"github.com/zappabad/stocksuggester/internal/stock"
	"github.com/zappabad/stocksuggester/tui/styles"
)

// ExpandChartMsg asks the owner to open the full-screen chart for a stock.
type ExpandChartMsg struct {
	Snapshot stock.Snapshot
}

var expandKey = key.NewBinding(key.WithKeys("c", "enter"))

// CardView shows one stock's details and, optionally, its latest news.
type CardView struct {
	snap    *stock.Snapshot
	news    []stock.NewsItem
	title   string
	focused bool
	width   int
	height  int
}

// NewCardView creates an empty card.
func NewCardView() *CardView {
	return &CardView{}
}

// Init initializes the panel.
func (p *CardView) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *CardView) Update(msg tea.Msg) (*CardView, tea.Cmd) {
	if !p.focused {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, expandKey) {
		return p, p.Expand()
	}
	return p, nil
}

// Expand returns a command emitting ExpandChartMsg for the card's stock, or
// nil if there is nothing to chart.
func (p *CardView) Expand() tea.Cmd {
	if p.snap == nil || !p.snap.Renderable() {
		return nil
	}
	snap := *p.snap
	return func() tea.Msg { return ExpandChartMsg{Snapshot: snap} }
}

// View renders the panel.
func (p *CardView) View() string {
	body := p.Body()
	if body == "" {
		return ""
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}
	content := body
	if p.title != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, styles.RenderTitle(p.title, p.focused), body)
	}

	style := panelStyle.Width(p.width - 2)
	if p.height > 0 {
		style = style.Height(p.height - 2).MaxHeight(p.height)
	}
	return style.Render(content)
}

// Body renders the card content without a border.
func (p *CardView) Body() string {
	var sections []string
	if p.snap != nil && p.snap.Renderable() {
		sections = append(sections, renderDetails(*p.snap, p.contentWidth()))
	}
	if len(p.news) > 0 {
		sections = append(sections, renderNews(p.news))
	}
	return strings.Join(sections, "\n\n")
}

// contentWidth is the text width inside the border and padding, or 0 when
// the card is unsized.
func (p *CardView) contentWidth() int {
	return max(p.width-4, 0)
}

// renderDetails keeps the name and sector lines to one row each so a card
// of fixed height never loses its last rows. width 0 disables truncation.
func renderDetails(snap stock.Snapshot, width int) string {
	info := snap.Info
	loc := snap.Locale()

	var b strings.Builder

	name := format.OrNA(snap.Name())
	symbol := "(" + snap.Symbol() + ")"
	if width > 0 {
		name = ansi.Truncate(name, max(width-lipgloss.Width(symbol)-1, 1), "…")
	}
	b.WriteString(styles.NameStyle.Render(name))
	b.WriteString(" ")
	b.WriteString(styles.SymbolStyle.Render(symbol))
	b.WriteString("\n")

	sector := format.OrNA(info.Sector) + " • " + format.OrNA(info.Industry)
	if width > 0 {
		sector = ansi.Truncate(sector, width, "…")
	}
	b.WriteString(styles.LabelStyle.Render(sector))
	b.WriteString("\n")

	change := snap.ChangePercent()
	b.WriteString(styles.PriceStyle.Render(format.Price(snap.Price(), loc)))
	b.WriteString("  ")
	b.WriteString(styles.ChangeStyle(format.IsPositive(change)).Render(format.Percent(change)))
	b.WriteString("\n")

	b.WriteString(detailRow("Market Cap", format.MarketCap(info.MarketCap, loc)))
	b.WriteString("\n")
	b.WriteString(detailRow("Employees", format.Employees(info.FullTimeEmployees)))
	b.WriteString("\n")

	website := format.NA
	if info.Website != "" {
		website = styles.Hyperlink(info.Website, "Visit Site")
	}
	b.WriteString(detailRow("Website", website))

	return b.String()
}

func detailRow(label, value string) string {
	return styles.LabelStyle.Render(padRight(label, 12)) + value
}

func renderNews(news []stock.NewsItem) string {
	var b strings.Builder
	b.WriteString(styles.HeaderStyle.Render("Latest News"))
	for _, item := range news {
		b.WriteString("\n• ")
		b.WriteString(styles.Hyperlink(item.Link, item.Title))

		meta := item.Source
		if date := format.NewsDate(item.PublishedAt); date != "" {
			if meta != "" {
				meta += " · "
			}
			meta += date
		}
		if meta != "" {
			b.WriteString("\n  ")
			b.WriteString(styles.TimeStyle.Render(meta))
		}
	}
	return b.String()
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

// SetFocus sets the focus state of the panel.
func (p *CardView) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions. A zero height lets the card size to its
// content.
func (p *CardView) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetTitle sets the border title. An empty title renders none.
func (p *CardView) SetTitle(title string) {
	p.title = title
}

// SetSnapshot sets the stock to show; nil clears it.
func (p *CardView) SetSnapshot(snap *stock.Snapshot) {
	p.snap = snap
}

// Snapshot returns the stock shown, if any.
func (p *CardView) Snapshot() *stock.Snapshot {
	return p.snap
}

// SetNews sets the news list shown under the details.
func (p *CardView) SetNews(news []stock.NewsItem) {
	p.news = news
}
