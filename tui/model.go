package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/stocksuggester/internal/chart"
	"github.com/zappabad/stocksuggester/internal/dashboard"
	"github.com/zappabad/stocksuggester/internal/search"
	"github.com/zappabad/stocksuggester/internal/stock"
	"github.com/zappabad/stocksuggester/tui/panels"
	"github.com/zappabad/stocksuggester/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusSearch PanelFocus = iota
	FocusGrid
	FocusCard
	FocusChart
	focusCount
)

// Model is the main TUI application model. It owns the dashboard state;
// panels only emit messages.
type Model struct {
	dash *dashboard.Controller
	log  *slog.Logger

	// Panels
	header      *panels.HeaderPanel
	searchPanel *panels.SearchPanel
	gridPanel   *panels.GridPanel
	cardPanel   *panels.CardView
	chartPanel  *panels.ChartPanel

	// Focus management
	focusedPanel PanelFocus

	// Window dimensions
	width  int
	height int

	ready bool
}

// NewModel creates a new TUI model. period is the chart period selected on
// start.
func NewModel(dash *dashboard.Controller, adapter *chart.Adapter, period stock.Period, log *slog.Logger) *Model {
	if log == nil {
		log = slog.Default()
	}

	m := &Model{
		dash:         dash,
		log:          log.With("component", "tui"),
		header:       panels.NewHeaderPanel(),
		searchPanel:  panels.NewSearchPanel(),
		gridPanel:    panels.NewGridPanel(),
		cardPanel:    panels.NewCardView(),
		chartPanel:   panels.NewChartPanel(adapter, period),
		focusedPanel: FocusSearch,
	}
	m.cardPanel.SetTitle("📋 Details")
	m.applyTheme()
	m.searchPanel.SetFocus(true)
	return m
}

// Init initializes the model and starts the hot-stocks fetch.
func (m *Model) Init() tea.Cmd {
	load := m.loadHotStocks()
	return tea.Batch(
		m.searchPanel.Init(),
		m.header.SetLoading(m.dash.State().Loading),
		load,
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case hotStocksMsg:
		m.dash.ApplyHotStocks(msg.result)
		m.sync()

	case searchResultMsg:
		if !m.dash.ApplySearch(msg.seq, msg.result) {
			return m, nil
		}
		m.sync()
		state := m.dash.State()
		if !m.chartPanel.Expanded() {
			if state.Selected != nil {
				cmds = append(cmds, m.chartPanel.Show(*state.Selected))
			} else {
				m.chartPanel.Show(stock.Snapshot{})
			}
		}
		if !m.focusAvailable(m.focusedPanel) {
			m.setFocus(FocusGrid)
		}

	case panels.SearchSubmitMsg:
		cmds = append(cmds, m.submitSearch(msg.Query))
		cmds = append(cmds, m.header.SetLoading(m.dash.State().Loading))

	case panels.ExpandChartMsg:
		if m.dash.ExpandChart(msg.Snapshot) {
			cmds = append(cmds, m.chartPanel.Expand(msg.Snapshot))
		}

	case panels.CloseChartMsg:
		cmds = append(cmds, m.closeChart())

	case panels.SeriesMsg:
		m.chartPanel, _ = m.chartPanel.Update(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.header, cmd = m.header.Update(msg)
		cmds = append(cmds, cmd)

	default:
		// Cursor blink and other input-owned messages.
		var cmd tea.Cmd
		m.searchPanel, cmd = m.searchPanel.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmds []tea.Cmd

	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	// Full-screen chart takes every key but quit and theme.
	if m.chartPanel.Expanded() {
		switch msg.String() {
		case "q":
			return tea.Quit
		case "d":
			m.toggleDarkMode()
			return nil
		}
		var cmd tea.Cmd
		m.chartPanel, cmd = m.chartPanel.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "tab":
		m.cycleFocus(1)
		return nil
	case "shift+tab":
		m.cycleFocus(-1)
		return nil
	}

	// The search box receives every other key while focused.
	if m.focusedPanel == FocusSearch {
		if msg.String() == "esc" {
			m.setFocus(FocusGrid)
			return nil
		}
		var cmd tea.Cmd
		m.searchPanel, cmd = m.searchPanel.Update(msg)
		m.dash.SetSearch(m.searchPanel.Value())
		return cmd
	}

	switch msg.String() {
	case "q":
		return tea.Quit
	case "/":
		m.setFocus(FocusSearch)
		return nil
	case "d":
		m.toggleDarkMode()
		return nil
	}

	m.updateFocusedPanel(msg, &cmds)
	return tea.Batch(cmds...)
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusSearch:
		m.searchPanel, cmd = m.searchPanel.Update(msg)
	case FocusGrid:
		m.gridPanel, cmd = m.gridPanel.Update(msg)
	case FocusCard:
		m.cardPanel, cmd = m.cardPanel.Update(msg)
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.header.SetSize(m.width, 1)
	header := m.header.View()
	statusBar := m.renderStatusBar()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)

	// Expanded chart replaces the main content.
	if m.chartPanel.Expanded() {
		m.chartPanel.SetFocus(true)
		m.chartPanel.SetSize(m.width, bodyHeight)
		return lipgloss.JoinVertical(lipgloss.Left, header, m.chartPanel.View(), statusBar)
	}

	m.searchPanel.SetFocus(m.focusedPanel == FocusSearch)
	m.gridPanel.SetFocus(m.focusedPanel == FocusGrid)
	m.cardPanel.SetFocus(m.focusedPanel == FocusCard)
	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)

	// Layout:
	// ┌──────────────── Search ─────────────────┐
	// ├────── Details ──────┬────── Chart ──────┤  (after a search)
	// ├─────────────── Hot Stocks ──────────────┤
	// └─────────────────────────────────────────┘

	m.searchPanel.SetSize(m.width, 3)
	searchBar := m.searchPanel.View()
	remaining := bodyHeight - lipgloss.Height(searchBar)

	rows := []string{searchBar}

	state := m.dash.State()
	if hasSelection(state) || len(state.News) > 0 {
		detailHeight := remaining * 3 / 5
		leftWidth := m.width * 2 / 5

		m.cardPanel.SetSize(leftWidth, detailHeight)
		detail := m.cardPanel.View()
		if hasSelection(state) {
			m.chartPanel.SetSize(m.width-leftWidth, detailHeight)
			detail = lipgloss.JoinHorizontal(lipgloss.Top, detail, m.chartPanel.View())
		}
		rows = append(rows, detail)
		remaining -= detailHeight
	}

	m.gridPanel.SetSize(m.width, remaining)
	rows = append(rows, m.gridPanel.View(), statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, rows...)...)
}

func (m *Model) renderStatusBar() string {
	var help []string
	if m.chartPanel.Expanded() {
		help = []string{
			helpItem("1-5 ←→", " period"),
			helpItem("h/l", " cursor"),
			helpItem("esc", " close"),
			helpItem("q", " quit"),
		}
	} else {
		help = []string{
			helpItem("/", " search"),
			helpItem("Tab", " focus"),
			helpItem("←↑↓→", " select"),
			helpItem("c", " chart"),
			helpItem("d", " theme"),
			helpItem("q", " quit"),
		}
	}

	items := make([]string, 0, len(help)*2)
	for i, h := range help {
		if i > 0 {
			items = append(items, " │ ")
		}
		items = append(items, h)
	}
	helpStr := lipgloss.JoinHorizontal(lipgloss.Center, items...)

	// Status message
	status := ""
	if q := m.dash.State().Search; q != "" {
		status = " │ Search: " + q
	}

	return styles.StatusBarStyle.Width(m.width).Render(helpStr + status)
}

func helpItem(keys, desc string) string {
	return styles.StatusBarKeyStyle.Render(keys) + styles.StatusBarDescStyle.Render(desc)
}

func (m *Model) setFocus(panel PanelFocus) {
	m.focusedPanel = panel
	m.searchPanel.SetFocus(panel == FocusSearch)
}

// cycleFocus moves focus by dir, skipping panels that are not on screen.
func (m *Model) cycleFocus(dir int) {
	next := m.focusedPanel
	for i := 0; i < int(focusCount); i++ {
		next = PanelFocus((int(next) + dir + int(focusCount)) % int(focusCount))
		if m.focusAvailable(next) {
			m.setFocus(next)
			return
		}
	}
}

func (m *Model) focusAvailable(panel PanelFocus) bool {
	state := m.dash.State()
	switch panel {
	case FocusCard:
		return hasSelection(state) || len(state.News) > 0
	case FocusChart:
		return hasSelection(state)
	}
	return true
}

// hasSelection reports whether a searched stock is on screen.
func hasSelection(state dashboard.ViewState) bool {
	return state.Selected != nil && state.Selected.Renderable()
}

// sync pushes the dashboard state into the panels.
func (m *Model) sync() {
	state := m.dash.State()
	m.gridPanel.SetStocks(state.Stocks)
	m.gridPanel.SetLoading(state.HotLoading)
	m.cardPanel.SetSnapshot(state.Selected)
	m.cardPanel.SetNews(state.News)
	m.header.SetLoading(state.Loading)
}

func (m *Model) toggleDarkMode() {
	m.dash.ToggleDarkMode()
	m.applyTheme()
}

func (m *Model) applyTheme() {
	dark := m.dash.State().DarkMode
	styles.SetDarkMode(dark)
	m.header.SetDarkMode(dark)
}

func (m *Model) closeChart() tea.Cmd {
	m.dash.CloseChart()
	m.chartPanel.Collapse()
	if state := m.dash.State(); hasSelection(state) {
		return m.chartPanel.Show(*state.Selected)
	}
	m.chartPanel.Show(stock.Snapshot{})
	return nil
}

// hotStocksMsg carries the startup grid.
type hotStocksMsg struct {
	result dashboard.HotStocksResult
}

func (m *Model) loadHotStocks() tea.Cmd {
	if !m.dash.BeginHotStocks() {
		return nil
	}
	m.gridPanel.SetLoading(true)
	dash := m.dash
	return func() tea.Msg {
		return hotStocksMsg{result: dash.LoadHotStocks(context.Background())}
	}
}

// searchResultMsg carries a finished search tagged with its sequence.
type searchResultMsg struct {
	seq    uint64
	result search.Result
}

func (m *Model) submitSearch(query string) tea.Cmd {
	seq, ok := m.dash.BeginSearch(query)
	if !ok {
		return nil
	}
	m.log.Debug("search submitted", "query", query, "seq", seq)
	dash := m.dash
	return func() tea.Msg {
		return searchResultMsg{seq: seq, result: dash.RunSearch(context.Background(), query)}
	}
}
