// Package search runs the combined stock and news lookup for a query.
package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/zappabad/stocksuggester/internal/stock"
	"golang.org/x/sync/errgroup"
)

// Fetcher looks up a stock and its news.
type Fetcher interface {
	SearchStock(ctx context.Context, ticker string) (stock.Snapshot, error)
	StockNews(ctx context.Context, ticker string) ([]stock.NewsItem, error)
}

// Result is the reconciled outcome of one search. Selected is nil and News is
// empty for whichever side failed; the errors are kept for logging.
type Result struct {
	Query    string
	Selected *stock.Snapshot
	News     []stock.NewsItem
	StockErr error
	NewsErr  error
}

// Controller issues searches.
type Controller struct {
	fetcher Fetcher
	log     *slog.Logger
}

// NewController creates a new search controller.
func NewController(fetcher Fetcher, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{fetcher: fetcher, log: log.With("component", "search")}
}

// Valid reports whether query would trigger a search.
func Valid(query string) bool {
	return strings.TrimSpace(query) != ""
}

// Submit looks up query and its news concurrently and waits for both. It
// returns false without fetching when the query is blank. The query is sent
// as typed.
func (c *Controller) Submit(ctx context.Context, query string) (Result, bool) {
	if !Valid(query) {
		return Result{}, false
	}

	res := Result{Query: query, News: []stock.NewsItem{}}

	// Neither goroutine returns an error, so one failure never cancels the other.
	var g errgroup.Group
	g.Go(func() error {
		snap, err := c.fetcher.SearchStock(ctx, query)
		if err != nil {
			res.StockErr = err
			return nil
		}
		if snap.Info == nil && snap.Quote == nil {
			return nil
		}
		res.Selected = &snap
		return nil
	})
	g.Go(func() error {
		items, err := c.fetcher.StockNews(ctx, query)
		if err != nil {
			res.NewsErr = err
			return nil
		}
		if items != nil {
			res.News = items
		}
		return nil
	})
	_ = g.Wait()

	if res.StockErr != nil {
		c.log.Warn("stock lookup failed", "query", query, "err", res.StockErr)
	}
	if res.NewsErr != nil {
		c.log.Warn("news lookup failed", "query", query, "err", res.NewsErr)
	}
	c.log.Info("search done",
		"query", query,
		"found", res.Selected != nil,
		"news", len(res.News),
	)
	return res, true
}
