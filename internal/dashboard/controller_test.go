package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/zappabad/stocksuggester/internal/search"
	"github.com/zappabad/stocksuggester/internal/stock"
)

type fakeBackend struct {
	hot      []stock.Snapshot
	hotErr   error
	snap     stock.Snapshot
	stockErr error
	news     []stock.NewsItem
	newsErr  error
}

func (f *fakeBackend) HotStocks(context.Context) ([]stock.Snapshot, error) {
	return f.hot, f.hotErr
}

func (f *fakeBackend) SearchStock(context.Context, string) (stock.Snapshot, error) {
	return f.snap, f.stockErr
}

func (f *fakeBackend) StockNews(context.Context, string) ([]stock.NewsItem, error) {
	return f.news, f.newsErr
}

func newController(f *fakeBackend) *Controller {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewController(f, search.NewController(f, log), log)
}

func TestInitialState(t *testing.T) {
	c := newController(&fakeBackend{})
	s := c.State()
	if len(s.Stocks) != 0 || s.Selected != nil || len(s.News) != 0 || s.Loading || s.DarkMode || s.ExpandedChart != nil {
		t.Errorf("expected empty initial state, got %+v", s)
	}
}

func TestHotStocksLoadOnce(t *testing.T) {
	f := &fakeBackend{hot: []stock.Snapshot{
		{Info: &stock.Info{Symbol: "AAPL"}},
		{Quote: &stock.Quote{Symbol: "NOINFO"}},
	}}
	c := newController(f)

	if !c.BeginHotStocks() {
		t.Fatal("expected first load to begin")
	}
	if !c.State().Loading {
		t.Error("expected loading during startup fetch")
	}
	c.ApplyHotStocks(c.LoadHotStocks(context.Background()))

	s := c.State()
	if s.Loading {
		t.Error("expected loading cleared")
	}
	if len(s.Stocks) != 1 || s.Stocks[0].Symbol() != "AAPL" {
		t.Errorf("expected one renderable AAPL card, got %+v", s.Stocks)
	}
	if c.BeginHotStocks() {
		t.Error("hot stocks must load only once")
	}
}

func TestHotStocksFailureLeavesEmpty(t *testing.T) {
	c := newController(&fakeBackend{hotErr: errors.New("connection refused")})
	c.BeginHotStocks()
	c.ApplyHotStocks(c.LoadHotStocks(context.Background()))

	s := c.State()
	if len(s.Stocks) != 0 {
		t.Errorf("expected empty grid, got %d", len(s.Stocks))
	}
	if s.Loading {
		t.Error("expected loading cleared after failure")
	}
}

func TestBlankSearchLeavesStateUnchanged(t *testing.T) {
	c := newController(&fakeBackend{})
	before := c.State()
	for _, q := range []string{"", "   "} {
		if _, ok := c.BeginSearch(q); ok {
			t.Errorf("expected no search for %q", q)
		}
	}
	after := c.State()
	if before.Loading != after.Loading || before.Search != after.Search || after.Selected != nil {
		t.Errorf("state changed: before %+v after %+v", before, after)
	}
}

func TestSearchAppliesAtomically(t *testing.T) {
	price, change := 250.5, -1.2
	f := &fakeBackend{
		snap: stock.Snapshot{Info: &stock.Info{Symbol: "TSLA", CurrentPrice: &price, ChangePercent: &change}},
		news: []stock.NewsItem{},
	}
	c := newController(f)

	seq, ok := c.BeginSearch("tsla")
	if !ok {
		t.Fatal("expected search to begin")
	}
	if !c.State().Loading {
		t.Error("expected loading during search")
	}
	if !c.ApplySearch(seq, c.RunSearch(context.Background(), "tsla")) {
		t.Fatal("expected result to apply")
	}

	s := c.State()
	if s.Loading {
		t.Error("expected loading cleared")
	}
	if s.Selected == nil || s.Selected.Symbol() != "TSLA" {
		t.Errorf("expected TSLA selected, got %+v", s.Selected)
	}
	if s.Search != "tsla" {
		t.Errorf("expected search text kept as typed, got %q", s.Search)
	}
}

func TestSearchFailureClearsSelection(t *testing.T) {
	f := &fakeBackend{snap: stock.Snapshot{Info: &stock.Info{Symbol: "AAPL"}}}
	c := newController(f)
	seq, _ := c.BeginSearch("AAPL")
	c.ApplySearch(seq, c.RunSearch(context.Background(), "AAPL"))

	f.stockErr = errors.New("boom")
	f.news = []stock.NewsItem{{Title: "still here"}}
	seq, _ = c.BeginSearch("ZZZ")
	c.ApplySearch(seq, c.RunSearch(context.Background(), "ZZZ"))

	s := c.State()
	if s.Selected != nil {
		t.Errorf("expected selection cleared, got %+v", s.Selected)
	}
	if len(s.News) != 1 {
		t.Errorf("expected news shown, got %d", len(s.News))
	}
}

func TestStaleSearchDropped(t *testing.T) {
	c := newController(&fakeBackend{})
	first, _ := c.BeginSearch("AAPL")
	second, _ := c.BeginSearch("MSFT")

	msft := stock.Snapshot{Info: &stock.Info{Symbol: "MSFT"}}
	if !c.ApplySearch(second, search.Result{Query: "MSFT", Selected: &msft}) {
		t.Fatal("expected latest search to apply")
	}
	aapl := stock.Snapshot{Info: &stock.Info{Symbol: "AAPL"}}
	if c.ApplySearch(first, search.Result{Query: "AAPL", Selected: &aapl}) {
		t.Fatal("expected superseded search to be dropped")
	}
	if got := c.State().Selected.Symbol(); got != "MSFT" {
		t.Errorf("expected MSFT to stay selected, got %s", got)
	}
}

func TestExpandAndCloseChartRestoresView(t *testing.T) {
	f := &fakeBackend{
		hot:  []stock.Snapshot{{Info: &stock.Info{Symbol: "AAPL"}}},
		snap: stock.Snapshot{Info: &stock.Info{Symbol: "TSLA"}},
	}
	c := newController(f)
	c.BeginHotStocks()
	c.ApplyHotStocks(c.LoadHotStocks(context.Background()))
	seq, _ := c.BeginSearch("tsla")
	c.ApplySearch(seq, c.RunSearch(context.Background(), "tsla"))
	before := c.State()

	if !c.ExpandChart(before.Stocks[0]) {
		t.Fatal("expected chart to expand")
	}
	if got := c.State().ExpandedChart.Symbol(); got != "AAPL" {
		t.Errorf("expected AAPL expanded, got %s", got)
	}

	// Single slot: expanding again replaces.
	c.ExpandChart(*before.Selected)
	if got := c.State().ExpandedChart.Symbol(); got != "TSLA" {
		t.Errorf("expected TSLA expanded, got %s", got)
	}

	c.CloseChart()
	after := c.State()
	if after.ExpandedChart != nil {
		t.Error("expected chart slot cleared")
	}
	if after.Search != before.Search || after.Selected != before.Selected || len(after.Stocks) != len(before.Stocks) {
		t.Errorf("closing chart changed the view: before %+v after %+v", before, after)
	}
}

func TestExpandRejectsUnrenderable(t *testing.T) {
	c := newController(&fakeBackend{})
	if c.ExpandChart(stock.Snapshot{}) {
		t.Error("expected snapshot without symbol to be rejected")
	}
}

func TestToggleDarkMode(t *testing.T) {
	c := newController(&fakeBackend{})
	c.ToggleDarkMode()
	if !c.State().DarkMode {
		t.Error("expected dark mode on")
	}
	c.ToggleDarkMode()
	if c.State().DarkMode {
		t.Error("expected dark mode off")
	}
}

func TestStateIsACopy(t *testing.T) {
	c := newController(&fakeBackend{hot: []stock.Snapshot{{Info: &stock.Info{Symbol: "AAPL"}}}})
	c.BeginHotStocks()
	c.ApplyHotStocks(c.LoadHotStocks(context.Background()))

	s := c.State()
	s.Stocks[0] = stock.Snapshot{}
	if c.State().Stocks[0].Symbol() != "AAPL" {
		t.Error("mutating a returned state must not affect the controller")
	}
}

func TestQuoteOnlySearchIsNotFound(t *testing.T) {
	price := 10.0
	f := &fakeBackend{snap: stock.Snapshot{Info: &stock.Info{Symbol: "TSLA"}}}
	c := newController(f)
	seq, _ := c.BeginSearch("tsla")
	c.ApplySearch(seq, c.RunSearch(context.Background(), "tsla"))

	f.snap = stock.Snapshot{Quote: &stock.Quote{Price: &price}}
	seq, _ = c.BeginSearch("odd")
	if !c.ApplySearch(seq, c.RunSearch(context.Background(), "odd")) {
		t.Fatal("expected result to apply")
	}
	if s := c.State(); s.Selected != nil {
		t.Errorf("expected no selection without a symbol, got %+v", s.Selected)
	}
}

func TestSearchDoesNotClearHotStocksLoading(t *testing.T) {
	f := &fakeBackend{
		hot:  []stock.Snapshot{{Info: &stock.Info{Symbol: "AAPL"}}},
		snap: stock.Snapshot{Info: &stock.Info{Symbol: "TSLA"}},
	}
	c := newController(f)
	c.BeginHotStocks()
	seq, _ := c.BeginSearch("tsla")

	c.ApplySearch(seq, c.RunSearch(context.Background(), "tsla"))
	s := c.State()
	if !s.HotLoading || !s.Loading {
		t.Errorf("expected hot stocks still loading after search, got hot=%v loading=%v", s.HotLoading, s.Loading)
	}

	c.ApplyHotStocks(c.LoadHotStocks(context.Background()))
	s = c.State()
	if s.HotLoading || s.Loading {
		t.Errorf("expected loading cleared, got hot=%v loading=%v", s.HotLoading, s.Loading)
	}
}

func TestHotStocksDoNotClearSearchLoading(t *testing.T) {
	f := &fakeBackend{
		hot:  []stock.Snapshot{{Info: &stock.Info{Symbol: "AAPL"}}},
		snap: stock.Snapshot{Info: &stock.Info{Symbol: "TSLA"}},
	}
	c := newController(f)
	c.BeginHotStocks()
	seq, _ := c.BeginSearch("tsla")

	c.ApplyHotStocks(c.LoadHotStocks(context.Background()))
	if s := c.State(); !s.Loading || s.HotLoading {
		t.Errorf("expected search still loading, got hot=%v loading=%v", s.HotLoading, s.Loading)
	}

	c.ApplySearch(seq, c.RunSearch(context.Background(), "tsla"))
	if c.State().Loading {
		t.Error("expected loading cleared once the search lands")
	}
}

func TestSetSearchRecordsTypedText(t *testing.T) {
	c := newController(&fakeBackend{})
	c.SetSearch("ts")
	if got := c.State().Search; got != "ts" {
		t.Errorf("expected ts, got %q", got)
	}
	if c.State().Loading {
		t.Error("expected typing not to start a search")
	}
}
