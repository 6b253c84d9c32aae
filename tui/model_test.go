package tui

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zappabad/stocksuggester/internal/backend"
	"github.com/zappabad/stocksuggester/internal/chart"
	"github.com/zappabad/stocksuggester/internal/dashboard"
	"github.com/zappabad/stocksuggester/internal/format"
	"github.com/zappabad/stocksuggester/internal/search"
	"github.com/zappabad/stocksuggester/internal/stock"
	"github.com/zappabad/stocksuggester/tui/panels"
	"github.com/zappabad/stocksuggester/tui/styles"
)

type fakeServer struct {
	*httptest.Server
	mu      sync.Mutex
	history []string
}

func (s *fakeServer) historyCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /hot-stocks", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"info":{"symbol":"AAPL","shortName":"Apple Inc.","currentPrice":189.5,"changePercent":0.8}}]`)
	})
	mux.HandleFunc("GET /search-stock/{ticker}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("ticker") {
		case "tsla":
			io.WriteString(w, `{"info":{"symbol":"TSLA","shortName":"Tesla, Inc.","currentPrice":250.5,"changePercent":-1.2}}`)
		case "quoteonly":
			io.WriteString(w, `{"quote":{"price":10.0}}`)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("GET /stock-news/{ticker}", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"detail":"no news"}`)
	})
	mux.HandleFunc("GET /stock-history/{ticker}", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.history = append(fs.history, r.PathValue("ticker")+"/"+r.URL.Query().Get("period"))
		fs.mu.Unlock()
		io.WriteString(w, `{"dates":["2024-03-13","2024-03-14","2024-03-15"],"prices":[245.1,null,250.5],"isIntraday":false}`)
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

type harness struct {
	m       *Model
	dash    *dashboard.Controller
	adapter *chart.Adapter
}

func newHarness(t *testing.T, baseURL string) *harness {
	t.Helper()
	t.Cleanup(func() { styles.SetDarkMode(false) })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := backend.NewClient(backend.Config{BaseURL: baseURL, Timeout: 2 * time.Second}, log)
	dash := dashboard.NewController(client, search.NewController(client, log), log)
	adapter := chart.NewAdapter(client, log)

	m := NewModel(dash, adapter, stock.Period1M, log)
	m.Update(tea.WindowSizeMsg{Width: 200, Height: 60})
	return &harness{m: m, dash: dash, adapter: adapter}
}

// drain runs cmd and every command it produces, feeding application
// messages back into the model. Timer-driven messages are dropped.
func (h *harness) drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var seen []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
			continue
		case hotStocksMsg, searchResultMsg, panels.SeriesMsg, panels.ExpandChartMsg,
			panels.CloseChartMsg, panels.SearchSubmitMsg:
			seen = append(seen, msg)
			_, next := h.m.Update(msg)
			queue = append(queue, next)
		default:
			seen = append(seen, msg)
		}
	}
	return seen
}

func (h *harness) key(t *testing.T, k tea.KeyMsg) []tea.Msg {
	t.Helper()
	_, cmd := h.m.Update(k)
	return h.drain(t, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func (h *harness) search(t *testing.T, query string) {
	t.Helper()
	_, cmd := h.m.Update(panels.SearchSubmitMsg{Query: query})
	h.drain(t, cmd)
}

func (h *harness) loadHotStocks(t *testing.T) {
	t.Helper()
	h.drain(t, h.m.loadHotStocks())
}

func hasQuit(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

func TestHotStocksGrid(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)

	h.loadHotStocks(t)

	state := h.dash.State()
	if len(state.Stocks) != 1 || state.Stocks[0].Symbol() != "AAPL" {
		t.Fatalf("expected one AAPL card, got %+v", state.Stocks)
	}
	if state.Loading {
		t.Error("expected loading cleared")
	}
	view := h.m.View()
	if !strings.Contains(view, "(AAPL)") {
		t.Errorf("expected AAPL card in view:\n%s", view)
	}
	if h.m.loadHotStocks() != nil {
		t.Error("expected hot stocks to load only once")
	}
}

func TestHotStocksUnavailable(t *testing.T) {
	srv := newFakeServer(t)
	srv.Close()
	h := newHarness(t, srv.URL)

	h.loadHotStocks(t)
	if n := len(h.dash.State().Stocks); n != 0 {
		t.Errorf("expected empty grid, got %d", n)
	}
	if !strings.Contains(h.m.View(), "No hot stocks available") {
		t.Error("expected empty grid placeholder")
	}
}

func TestSearchShowsSelectedStock(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)
	h.loadHotStocks(t)

	h.search(t, "tsla")

	state := h.dash.State()
	if state.Selected == nil || state.Selected.Symbol() != "TSLA" {
		t.Fatalf("expected TSLA selected, got %+v", state.Selected)
	}
	if len(state.News) != 0 {
		t.Errorf("expected no news, got %d", len(state.News))
	}
	if format.IsPositive(state.Selected.ChangePercent()) {
		t.Error("expected negative change styling")
	}

	view := h.m.View()
	for _, want := range []string{"$250.50", "-1.20%", "Search: tsla"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Latest News") {
		t.Error("expected no news section")
	}

	// The inline chart was fetched for the selected ticker.
	if calls := srv.historyCalls(); len(calls) != 1 || calls[0] != "TSLA/1mo" {
		t.Errorf("expected one TSLA/1mo history fetch, got %v", calls)
	}
	if h.adapter.State() != chart.StateLoaded {
		t.Errorf("expected chart loaded, got %s", h.adapter.State())
	}
	series, _ := h.adapter.Series()
	if series.Len() != 2 {
		t.Errorf("expected null price dropped, got %d points", series.Len())
	}
}

func TestBlankSearchIsIgnored(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)

	before := h.dash.State()
	for _, q := range []string{"", "   "} {
		_, cmd := h.m.Update(panels.SearchSubmitMsg{Query: q})
		h.drain(t, cmd)
	}
	after := h.dash.State()
	if after.Loading || after.Search != before.Search || after.Selected != nil {
		t.Errorf("expected unchanged state, got %+v", after)
	}
}

func TestUnknownTickerClearsSelection(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)

	h.search(t, "tsla")
	h.search(t, "ZZZZ")

	if h.dash.State().Selected != nil {
		t.Error("expected selection cleared for unknown ticker")
	}
	if strings.Contains(h.m.View(), "Tesla") {
		t.Error("expected previous card removed")
	}
}

func TestExpandAndCloseChart(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)
	h.loadHotStocks(t)
	h.search(t, "tsla")
	before := h.dash.State()

	// Expanding the selected stock reuses its loaded series.
	_, cmd := h.m.Update(panels.ExpandChartMsg{Snapshot: *before.Selected})
	h.drain(t, cmd)
	if got := h.dash.State().ExpandedChart; got == nil || got.Symbol() != "TSLA" {
		t.Fatalf("expected TSLA expanded, got %+v", got)
	}
	if n := len(srv.historyCalls()); n != 1 {
		t.Errorf("expected no re-fetch on expand, got %d fetches", n)
	}
	view := h.m.View()
	if !strings.Contains(view, "Market Cap:") || strings.Contains(view, "Hot Stocks") {
		t.Errorf("expected full-screen chart replacing the dashboard:\n%s", view)
	}

	// Period keys work in full-screen mode.
	h.key(t, runes("4"))
	if h.m.chartPanel.Period() != stock.Period1Y {
		t.Errorf("expected 1y, got %s", h.m.chartPanel.Period())
	}

	h.key(t, tea.KeyMsg{Type: tea.KeyEsc})

	after := h.dash.State()
	if after.ExpandedChart != nil {
		t.Error("expected chart closed")
	}
	if after.Search != before.Search || after.Selected != before.Selected || len(after.Stocks) != len(before.Stocks) {
		t.Errorf("closing the chart changed the view: before %+v after %+v", before, after)
	}
	if !strings.Contains(h.m.View(), "Hot Stocks") {
		t.Error("expected dashboard restored")
	}
}

func TestExpandFromGrid(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)
	h.loadHotStocks(t)

	h.key(t, tea.KeyMsg{Type: tea.KeyTab}) // search -> grid
	if h.m.focusedPanel != FocusGrid {
		t.Fatalf("expected grid focus, got %d", h.m.focusedPanel)
	}
	h.key(t, runes("c"))

	if got := h.dash.State().ExpandedChart; got == nil || got.Symbol() != "AAPL" {
		t.Fatalf("expected AAPL expanded, got %+v", got)
	}
	if calls := srv.historyCalls(); len(calls) != 1 || calls[0] != "AAPL/1mo" {
		t.Errorf("expected AAPL history fetch, got %v", calls)
	}
}

func TestFocusCycleSkipsHiddenPanels(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)

	h.key(t, tea.KeyMsg{Type: tea.KeyTab})
	h.key(t, tea.KeyMsg{Type: tea.KeyTab})
	if h.m.focusedPanel != FocusSearch {
		t.Errorf("expected focus back on search without a selection, got %d", h.m.focusedPanel)
	}

	h.search(t, "tsla")
	h.m.setFocus(FocusSearch)
	h.key(t, tea.KeyMsg{Type: tea.KeyTab})
	h.key(t, tea.KeyMsg{Type: tea.KeyTab})
	if h.m.focusedPanel != FocusCard {
		t.Errorf("expected card focus with a selection, got %d", h.m.focusedPanel)
	}
	h.key(t, tea.KeyMsg{Type: tea.KeyShiftTab})
	if h.m.focusedPanel != FocusGrid {
		t.Errorf("expected grid focus, got %d", h.m.focusedPanel)
	}
}

func TestQuitOnlyOutsideSearch(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)

	// q is typed into the focused search box.
	h.m.Update(runes("q"))
	if h.m.searchPanel.Value() != "q" {
		t.Errorf("expected q typed into search, got %q", h.m.searchPanel.Value())
	}

	h.key(t, tea.KeyMsg{Type: tea.KeyEsc})
	if !hasQuit(h.key(t, runes("q"))) {
		t.Error("expected q to quit outside the search box")
	}
	if !hasQuit(h.key(t, tea.KeyMsg{Type: tea.KeyCtrlC})) {
		t.Error("expected ctrl+c to quit")
	}
}

func TestDarkModeToggle(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)

	h.key(t, tea.KeyMsg{Type: tea.KeyEsc})
	h.key(t, runes("d"))
	if !h.dash.State().DarkMode || !styles.DarkMode() {
		t.Error("expected dark mode on")
	}
	if !strings.Contains(h.m.View(), "Dark") {
		t.Error("expected dark indicator")
	}
	h.key(t, runes("d"))
	if h.dash.State().DarkMode || styles.DarkMode() {
		t.Error("expected dark mode off")
	}
}

func TestSymbolLessResultClearsChart(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)

	h.search(t, "tsla")
	if !strings.Contains(h.m.View(), "Chart - TSLA") {
		t.Fatalf("expected TSLA chart after first search:\n%s", h.m.View())
	}

	h.search(t, "quoteonly")
	if got := h.dash.State().Selected; got != nil {
		t.Errorf("expected no selection for a result without symbol, got %+v", got)
	}
	if h.adapter.State() != chart.StateIdle || h.adapter.Ticker() != "" {
		t.Errorf("expected chart unbound, got state %s ticker %q", h.adapter.State(), h.adapter.Ticker())
	}
	view := h.m.View()
	if strings.Contains(view, "Chart -") || strings.Contains(view, "$250.50") {
		t.Errorf("expected previous chart removed:\n%s", view)
	}
	if h.m.focusAvailable(FocusChart) {
		t.Error("expected chart not focusable without a selection")
	}
}

func TestTypingUpdatesSearchText(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)

	h.key(t, runes("t"))
	h.key(t, runes("s"))
	if got := h.dash.State().Search; got != "ts" {
		t.Errorf("expected search text ts, got %q", got)
	}
	if !strings.Contains(h.m.View(), "Search: ts") {
		t.Errorf("expected typed text in status bar:\n%s", h.m.View())
	}
	if h.dash.State().Loading {
		t.Error("expected typing not to start a search")
	}
}

func TestSearchKeepsHotStocksLoading(t *testing.T) {
	srv := newFakeServer(t)
	h := newHarness(t, srv.URL)

	load := h.m.loadHotStocks()
	h.search(t, "tsla")

	if !h.dash.State().Loading {
		t.Error("expected loading while hot stocks are in flight")
	}
	view := h.m.View()
	if !strings.Contains(view, "Loading hot stocks...") {
		t.Errorf("expected grid still loading:\n%s", view)
	}
	if strings.Contains(view, "No hot stocks available") {
		t.Error("expected no empty placeholder before hot stocks land")
	}

	h.drain(t, load)
	if h.dash.State().Loading {
		t.Error("expected loading cleared")
	}
	if !strings.Contains(h.m.View(), "(AAPL)") {
		t.Error("expected AAPL card once hot stocks land")
	}
}
