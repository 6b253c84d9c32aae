package panels

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/stocksuggester/internal/chart"
	"github.com/zappabad/stocksuggester/internal/format"
	"github.com/zappabad/stocksuggester/internal/stock"
	"github.com/zappabad/stocksuggester/tui/styles"
)

// LoadingText is shown while a history fetch is in flight.
const LoadingText = "Loading chart data..."

// SeriesMsg delivers a finished history fetch to the chart panel.
type SeriesMsg struct {
	Result chart.Result
}

// CloseChartMsg asks the owner to leave the full-screen chart.
type CloseChartMsg struct{}

var (
	periodKeys      = []string{"1", "2", "3", "4", "5"}
	prevPeriodKey   = key.NewBinding(key.WithKeys("["))
	nextPeriodKey   = key.NewBinding(key.WithKeys("]"))
	expandedPrevKey = key.NewBinding(key.WithKeys("left", "["))
	expandedNextKey = key.NewBinding(key.WithKeys("right", "]"))
	cursorLeftKey   = key.NewBinding(key.WithKeys("h", "shift+left"))
	cursorRightKey  = key.NewBinding(key.WithKeys("l", "shift+right"))
	retryKey        = key.NewBinding(key.WithKeys("r"))
	closeKey        = key.NewBinding(key.WithKeys("esc"))
)

// ChartPanel draws the price history of one stock. The same panel serves the
// inline chart under the selected card and the full-screen chart, so
// expanding for the ticker already shown reuses the loaded series.
type ChartPanel struct {
	adapter *chart.Adapter
	snap    *stock.Snapshot
	period  stock.Period

	expanded bool
	cursor   int // index into the series; -1 tracks the last point

	focused bool
	width   int
	height  int
}

// NewChartPanel creates a chart panel over adapter. An invalid period falls
// back to the default.
func NewChartPanel(adapter *chart.Adapter, period stock.Period) *ChartPanel {
	if !period.Valid() {
		period = stock.DefaultPeriod
	}
	return &ChartPanel{
		adapter: adapter,
		period:  period,
		cursor:  -1,
	}
}

// Init initializes the panel.
func (p *ChartPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel. Series results are applied whatever
// the focus; keys only when focused or expanded.
func (p *ChartPanel) Update(msg tea.Msg) (*ChartPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case SeriesMsg:
		if p.adapter.Apply(msg.Result) {
			p.cursor = -1
		}
		return p, nil

	case tea.KeyMsg:
		if !p.focused && !p.expanded {
			return p, nil
		}
		return p, p.handleKey(msg)
	}
	return p, nil
}

func (p *ChartPanel) handleKey(msg tea.KeyMsg) tea.Cmd {
	for i, k := range periodKeys {
		if msg.String() == k {
			return p.SelectPeriod(stock.Periods()[i])
		}
	}

	if p.expanded {
		switch {
		case key.Matches(msg, closeKey):
			return func() tea.Msg { return CloseChartMsg{} }
		case key.Matches(msg, expandedPrevKey):
			return p.shiftPeriod(-1)
		case key.Matches(msg, expandedNextKey):
			return p.shiftPeriod(1)
		case key.Matches(msg, cursorLeftKey):
			p.moveCursor(-1)
		case key.Matches(msg, cursorRightKey):
			p.moveCursor(1)
		case key.Matches(msg, retryKey):
			return p.Retry()
		}
		return nil
	}

	switch {
	case key.Matches(msg, prevPeriodKey):
		return p.shiftPeriod(-1)
	case key.Matches(msg, nextPeriodKey):
		return p.shiftPeriod(1)
	case key.Matches(msg, retryKey):
		return p.Retry()
	case key.Matches(msg, expandKey):
		if p.snap == nil {
			return nil
		}
		snap := *p.snap
		return func() tea.Msg { return ExpandChartMsg{Snapshot: snap} }
	}
	return nil
}

// Show binds the panel to snap and returns the fetch command, if one is
// needed. A snapshot without a symbol clears the chart.
func (p *ChartPanel) Show(snap stock.Snapshot) tea.Cmd {
	if !snap.Renderable() {
		p.snap = nil
		p.adapter.Reset()
		return nil
	}
	p.snap = &snap
	req, ok := p.adapter.Bind(snap.Symbol(), p.period)
	if !ok {
		return nil
	}
	p.cursor = -1
	return p.fetch(req)
}

// Expand switches to the full-screen mode for snap.
func (p *ChartPanel) Expand(snap stock.Snapshot) tea.Cmd {
	p.expanded = true
	return p.Show(snap)
}

// Collapse leaves the full-screen mode.
func (p *ChartPanel) Collapse() {
	p.expanded = false
}

// Expanded reports whether the panel is in full-screen mode.
func (p *ChartPanel) Expanded() bool {
	return p.expanded
}

// Snapshot returns the stock the panel is bound to.
func (p *ChartPanel) Snapshot() *stock.Snapshot {
	return p.snap
}

// Period returns the selected period.
func (p *ChartPanel) Period() stock.Period {
	return p.period
}

// SelectPeriod changes the period and re-fetches.
func (p *ChartPanel) SelectPeriod(period stock.Period) tea.Cmd {
	if !period.Valid() {
		return nil
	}
	p.period = period
	req, ok := p.adapter.SetPeriod(period)
	if !ok {
		return nil
	}
	p.cursor = -1
	return p.fetch(req)
}

func (p *ChartPanel) shiftPeriod(delta int) tea.Cmd {
	periods := stock.Periods()
	i := p.period.Index() + delta
	if i < 0 || i >= len(periods) {
		return nil
	}
	return p.SelectPeriod(periods[i])
}

// Retry re-fetches after a failure.
func (p *ChartPanel) Retry() tea.Cmd {
	if p.adapter.State() != chart.StateFailed {
		return nil
	}
	req, ok := p.adapter.Reload()
	if !ok {
		return nil
	}
	return p.fetch(req)
}

func (p *ChartPanel) fetch(req chart.Request) tea.Cmd {
	adapter := p.adapter
	return func() tea.Msg {
		return SeriesMsg{Result: adapter.Fetch(context.Background(), req)}
	}
}

func (p *ChartPanel) moveCursor(delta int) {
	series, ok := p.adapter.Series()
	if !ok || series.Len() == 0 {
		return
	}
	if p.cursor < 0 || p.cursor >= series.Len() {
		p.cursor = series.Len() - 1
	}
	p.cursor = min(max(p.cursor+delta, 0), series.Len()-1)
}

// Cursor returns the index of the point under the cursor.
func (p *ChartPanel) Cursor() int {
	series, ok := p.adapter.Series()
	if !ok || series.Len() == 0 {
		return -1
	}
	if p.cursor < 0 || p.cursor >= series.Len() {
		return series.Len() - 1
	}
	return p.cursor
}

// View renders the panel.
func (p *ChartPanel) View() string {
	if p.expanded {
		return p.viewExpanded()
	}
	return p.viewInline()
}

func (p *ChartPanel) viewInline() string {
	name := "No ticker"
	if p.snap != nil {
		name = p.snap.Symbol()
	}

	chartW := max(p.width-4, 20)
	chartH := max(p.height-5, 5)

	content := lipgloss.JoinVertical(lipgloss.Left,
		p.renderPeriodButtons(),
		p.renderBody(chartW, chartH, -1),
	)

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(fmt.Sprintf("📉 Chart - %s", name), p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content)

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ChartPanel) viewExpanded() string {
	var header, footer string
	if p.snap != nil {
		snap := *p.snap
		loc := snap.Locale()
		change := snap.ChangePercent()

		header = lipgloss.JoinHorizontal(lipgloss.Top,
			styles.NameStyle.Render(format.OrNA(snap.Name())),
			" ",
			styles.SymbolStyle.Render("("+snap.Symbol()+")"),
			"  ",
			styles.PriceStyle.Render(format.Price(snap.Price(), loc)),
			" ",
			styles.ChangeStyle(format.IsPositive(change)).Render(format.Percent(change)),
		)

		var marketCap *float64
		sector := ""
		if snap.Info != nil {
			marketCap = snap.Info.MarketCap
			sector = snap.Info.Sector
		}
		footer = strings.Join([]string{
			styles.LabelStyle.Render("Market Cap: ") + format.MarketCap(marketCap, loc),
			styles.LabelStyle.Render("Change: ") + styles.ChangeStyle(format.IsPositive(change)).Render(format.Percent(change)),
			styles.LabelStyle.Render("Sector: ") + format.OrNA(sector),
		}, " │ ")
	}

	chartW := max(p.width-4, 20)
	chartH := max(p.height-8, 5)

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		p.renderPeriodButtons(),
		p.renderBody(chartW, chartH, p.Cursor()),
		p.renderTooltip(),
		footer,
	)

	return styles.FocusedPanelStyle.Width(p.width - 2).Height(p.height - 2).Render(content)
}

func (p *ChartPanel) renderPeriodButtons() string {
	buttons := make([]string, 0, len(stock.Periods()))
	for _, period := range stock.Periods() {
		style := styles.PeriodButtonStyle
		if period == p.period {
			style = styles.PeriodSelectedStyle
		}
		buttons = append(buttons, style.Render(period.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (p *ChartPanel) renderBody(width, height, cursor int) string {
	switch p.adapter.State() {
	case chart.StateLoading:
		return styles.MutedStyle.Render(LoadingText)
	case chart.StateFailed:
		return styles.ErrorStyle.Render(chart.FailureMessage) + "\n" +
			styles.MutedStyle.Render("press r to retry")
	case chart.StateLoaded:
		series, _ := p.adapter.Series()
		if series.Len() == 0 {
			return styles.MutedStyle.Render("No data for this period")
		}
		loc := stock.LocaleUS
		if p.snap != nil {
			loc = p.snap.Locale()
		}
		return renderLineChart(series, width, height, loc, cursor)
	}
	return styles.MutedStyle.Render("No chart data")
}

func (p *ChartPanel) renderTooltip() string {
	series, ok := p.adapter.Series()
	if !ok || series.Len() == 0 {
		return ""
	}
	i := p.Cursor()
	loc := stock.LocaleUS
	if p.snap != nil {
		loc = p.snap.Locale()
	}
	return styles.ChartTooltipStyle.Render(fmt.Sprintf("▸ %s  %s",
		format.ChartTooltipDate(series.Dates[i], series.IsIntraday),
		format.TooltipValue(series.Prices[i], loc),
	))
}

// renderLineChart draws series as a braille line chart. A cursor >= 0 draws
// a vertical marker at that point.
func renderLineChart(series stock.ChartSeries, width, height int, loc stock.Locale, cursor int) string {
	n := series.Len()

	minY, maxY := series.Prices[0], series.Prices[0]
	for _, v := range series.Prices {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}
	if minY == maxY {
		pad := math.Abs(minY) * 0.01
		if pad == 0 {
			pad = 1
		}
		minY -= pad
		maxY += pad
	}
	margin := (maxY - minY) * 0.05
	minY -= margin
	maxY += margin

	maxX := float64(n - 1)
	if maxX == 0 {
		maxX = 1
	}

	xSteps := 4
	if series.IsIntraday {
		xSteps = 8
	}

	xLabel := func(_ int, v float64) string {
		i := int(math.Round(v))
		if i < 0 || i >= n {
			return ""
		}
		return format.ChartDate(series.Dates[i], series.IsIntraday)
	}
	yLabel := func(_ int, v float64) string {
		return format.AxisValue(v, loc)
	}

	lineStyle := styles.ChangeStyle(series.Prices[n-1] >= series.Prices[0])

	lc := linechart.New(width, height,
		0, maxX,
		minY, maxY,
		linechart.WithXYSteps(xSteps, 4),
		linechart.WithXLabelFormatter(xLabel),
		linechart.WithYLabelFormatter(yLabel),
		linechart.WithStyles(styles.ChartAxisStyle, styles.ChartLabelStyle, lineStyle),
	)

	if cursor >= 0 && cursor < n {
		x := float64(cursor)
		lc.DrawBrailleLineWithStyle(
			canvas.Float64Point{X: x, Y: minY},
			canvas.Float64Point{X: x, Y: maxY},
			styles.ChartCursorStyle,
		)
	}

	if n == 1 {
		pt := canvas.Float64Point{X: 0, Y: series.Prices[0]}
		lc.DrawBrailleLineWithStyle(pt, pt, lineStyle)
	}
	for i := 0; i < n-1; i++ {
		p1 := canvas.Float64Point{X: float64(i), Y: series.Prices[i]}
		p2 := canvas.Float64Point{X: float64(i + 1), Y: series.Prices[i+1]}
		lc.DrawBrailleLineWithStyle(p1, p2, lineStyle)
	}

	lc.DrawXYAxisAndLabel()
	return lc.View()
}

// SetFocus sets the focus state of the panel.
func (p *ChartPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}
