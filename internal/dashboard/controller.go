// Package dashboard owns the top-level view state. Children never mutate it:
// they emit intents which the owner applies here.
package dashboard

import (
	"context"
	"log/slog"

	"github.com/zappabad/stocksuggester/internal/search"
	"github.com/zappabad/stocksuggester/internal/stock"
)

// ViewState is everything the screen renders from.
type ViewState struct {
	Stocks        []stock.Snapshot
	Search        string
	Selected      *stock.Snapshot
	News          []stock.NewsItem
	// Loading is set while either the hot-stocks fetch or the latest
	// search is in flight. HotLoading tracks the hot-stocks fetch alone.
	Loading       bool
	HotLoading    bool
	DarkMode      bool
	ExpandedChart *stock.Snapshot
}

// HotStocksFetcher loads the startup grid.
type HotStocksFetcher interface {
	HotStocks(ctx context.Context) ([]stock.Snapshot, error)
}

// HotStocksResult is the outcome of the startup fetch.
type HotStocksResult struct {
	Stocks []stock.Snapshot
	Err    error
}

// Controller holds the ViewState and applies fetch results and user intents.
// Fetch methods do I/O only; Apply and intent methods must be called from the
// goroutine that owns the controller.
type Controller struct {
	hot    HotStocksFetcher
	search *search.Controller
	log    *slog.Logger

	state         ViewState
	searchSeq     uint64
	searchPending bool
	hotLoaded     bool
}

// NewController creates a controller with an empty state.
func NewController(hot HotStocksFetcher, searcher *search.Controller, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		hot:    hot,
		search: searcher,
		log:    log.With("component", "dashboard"),
		state:  ViewState{Stocks: []stock.Snapshot{}, News: []stock.NewsItem{}},
	}
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState {
	s := c.state
	s.Stocks = append([]stock.Snapshot(nil), c.state.Stocks...)
	s.News = append([]stock.NewsItem(nil), c.state.News...)
	return s
}

// BeginHotStocks marks the startup load in flight. It returns false once the
// grid has been loaded; the list is fetched only once.
func (c *Controller) BeginHotStocks() bool {
	if c.hotLoaded {
		return false
	}
	c.state.HotLoading = true
	c.updateLoading()
	return true
}

// LoadHotStocks fetches the startup grid.
func (c *Controller) LoadHotStocks(ctx context.Context) HotStocksResult {
	stocks, err := c.hot.HotStocks(ctx)
	return HotStocksResult{Stocks: stocks, Err: err}
}

// ApplyHotStocks replaces the grid on success. On failure the grid stays
// empty; there is no retry.
func (c *Controller) ApplyHotStocks(res HotStocksResult) {
	c.hotLoaded = true
	c.state.HotLoading = false
	c.updateLoading()
	if res.Err != nil {
		c.log.Warn("hot stocks unavailable", "err", res.Err)
		return
	}
	stocks := make([]stock.Snapshot, 0, len(res.Stocks))
	for _, s := range res.Stocks {
		if !s.Renderable() {
			c.log.Debug("skipping hot stock without symbol")
			continue
		}
		stocks = append(stocks, s)
	}
	c.state.Stocks = stocks
	c.log.Info("hot stocks loaded", "count", len(stocks))
}

// SetSearch records the search text as typed.
func (c *Controller) SetSearch(text string) {
	c.state.Search = text
}

// BeginSearch starts a search for query. It returns false for blank queries
// and leaves the state untouched.
func (c *Controller) BeginSearch(query string) (uint64, bool) {
	if !search.Valid(query) {
		return 0, false
	}
	c.searchSeq++
	c.state.Search = query
	c.searchPending = true
	c.updateLoading()
	return c.searchSeq, true
}

// RunSearch performs the combined lookup.
func (c *Controller) RunSearch(ctx context.Context, query string) search.Result {
	res, _ := c.search.Submit(ctx, query)
	return res
}

// ApplySearch replaces the selection and news together. Results of searches
// superseded by a later BeginSearch are dropped. A stock without a symbol is
// treated as not found.
func (c *Controller) ApplySearch(seq uint64, res search.Result) bool {
	if seq != c.searchSeq {
		c.log.Debug("dropping stale search result", "query", res.Query)
		return false
	}
	selected := res.Selected
	if selected != nil && !selected.Renderable() {
		c.log.Debug("search result has no symbol", "query", res.Query)
		selected = nil
	}
	news := res.News
	if news == nil {
		news = []stock.NewsItem{}
	}
	c.state.Selected = selected
	c.state.News = news
	c.searchPending = false
	c.updateLoading()
	return true
}

func (c *Controller) updateLoading() {
	c.state.Loading = c.state.HotLoading || c.searchPending
}

// ToggleDarkMode flips the theme flag.
func (c *Controller) ToggleDarkMode() {
	c.state.DarkMode = !c.state.DarkMode
}

// SetDarkMode sets the theme flag.
func (c *Controller) SetDarkMode(dark bool) {
	c.state.DarkMode = dark
}

// ExpandChart puts snap in the single expanded-chart slot.
func (c *Controller) ExpandChart(snap stock.Snapshot) bool {
	if !snap.Renderable() {
		return false
	}
	c.state.ExpandedChart = &snap
	return true
}

// CloseChart clears the expanded-chart slot.
func (c *Controller) CloseChart() {
	c.state.ExpandedChart = nil
}
