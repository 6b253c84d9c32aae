// Package chart fetches and normalizes price history for a ticker and period,
// and tracks the load state of the currently bound request.
package chart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/zappabad/stocksuggester/internal/stock"
)

// ErrLoadFailed replaces every fetch error once applied. FailureMessage is
// what the user sees.
var ErrLoadFailed = errors.New("failed to load chart data")

const FailureMessage = "Failed to load chart data"

// Fetcher returns the raw history for a ticker and period.
type Fetcher interface {
	StockHistory(ctx context.Context, ticker string, period stock.Period) (stock.History, error)
}

// State is the load state of an Adapter.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Request tags one fetch with the bound values at issue time.
type Request struct {
	Ticker string
	Period stock.Period
	ID     uuid.UUID
}

// Result is the outcome of fetching a Request.
type Result struct {
	Request Request
	Series  stock.ChartSeries
	Err     error
}

// Adapter owns the series for one (ticker, period) binding. Fetch is safe to
// call off the owning goroutine; all other methods must be called from it.
type Adapter struct {
	fetcher Fetcher
	log     *slog.Logger

	ticker string
	period stock.Period

	current Request
	state   State
	series  *stock.ChartSeries
	err     error
}

// NewAdapter creates an adapter bound to nothing.
func NewAdapter(fetcher Fetcher, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		fetcher: fetcher,
		log:     log.With("component", "chart"),
		period:  stock.DefaultPeriod,
	}
}

// Bind sets the ticker and period. It returns a new Request and true when a
// fetch is needed; an unchanged binding that is loading or loaded does not
// re-fetch.
func (a *Adapter) Bind(ticker string, period stock.Period) (Request, bool) {
	if ticker == "" {
		return Request{}, false
	}
	if !period.Valid() {
		period = stock.DefaultPeriod
	}
	unchanged := ticker == a.ticker && period == a.period
	if unchanged && (a.state == StateLoading || a.state == StateLoaded) {
		return a.current, false
	}
	a.ticker = ticker
	a.period = period
	return a.issue(), true
}

// SetPeriod re-binds the current ticker with a new period.
func (a *Adapter) SetPeriod(period stock.Period) (Request, bool) {
	return a.Bind(a.ticker, period)
}

// Reload re-issues the current binding regardless of state.
func (a *Adapter) Reload() (Request, bool) {
	if a.ticker == "" {
		return Request{}, false
	}
	return a.issue(), true
}

// Reset drops the binding and any loaded series. Results still in flight are
// discarded when they arrive.
func (a *Adapter) Reset() {
	a.ticker = ""
	a.current = Request{}
	a.state = StateIdle
	a.err = nil
	a.series = nil
}

func (a *Adapter) issue() Request {
	a.current = Request{Ticker: a.ticker, Period: a.period, ID: uuid.New()}
	a.state = StateLoading
	a.err = nil
	a.series = nil
	return a.current
}

// Fetch performs the I/O for req and normalizes the result. It does not touch
// adapter state.
func (a *Adapter) Fetch(ctx context.Context, req Request) Result {
	h, err := a.fetcher.StockHistory(ctx, req.Ticker, req.Period)
	if err != nil {
		return Result{Request: req, Err: err}
	}
	series := Normalize(h)
	series.Period = req.Period
	return Result{Request: req, Series: series}
}

// Apply stores res if it answers the current request. Results for superseded
// requests are dropped and Apply returns false.
func (a *Adapter) Apply(res Result) bool {
	if res.Request != a.current {
		a.log.Debug("dropping stale chart result",
			"ticker", res.Request.Ticker,
			"period", res.Request.Period,
			"request_id", res.Request.ID,
			"current_ticker", a.current.Ticker,
			"current_period", a.current.Period,
		)
		return false
	}
	if res.Err != nil {
		a.log.Warn("chart fetch failed",
			"ticker", res.Request.Ticker,
			"period", res.Request.Period,
			"request_id", res.Request.ID,
			"err", res.Err,
		)
		a.state = StateFailed
		a.err = ErrLoadFailed
		a.series = nil
		return true
	}
	series := res.Series
	a.state = StateLoaded
	a.err = nil
	a.series = &series
	return true
}

// State returns the current load state.
func (a *Adapter) State() State { return a.state }

// Err returns ErrLoadFailed after a failed fetch, nil otherwise.
func (a *Adapter) Err() error { return a.err }

// Series returns the loaded series, if any.
func (a *Adapter) Series() (stock.ChartSeries, bool) {
	if a.series == nil {
		return stock.ChartSeries{}, false
	}
	return *a.series, true
}

// Ticker returns the bound ticker.
func (a *Adapter) Ticker() string { return a.ticker }

// Period returns the bound period.
func (a *Adapter) Period() stock.Period { return a.period }

// Current returns the tag of the latest issued request.
func (a *Adapter) Current() Request { return a.current }

// Normalize pairs dates with prices, dropping points whose price is null and
// truncating to the shorter of the two sequences.
func Normalize(h stock.History) stock.ChartSeries {
	n := len(h.Dates)
	if len(h.Prices) < n {
		n = len(h.Prices)
	}
	series := stock.ChartSeries{
		Dates:      make([]string, 0, n),
		Prices:     make([]float64, 0, n),
		Period:     stock.Period(h.Period),
		IsIntraday: h.IsIntraday,
	}
	for i := 0; i < n; i++ {
		if h.Prices[i] == nil {
			continue
		}
		series.Dates = append(series.Dates, h.Dates[i])
		series.Prices = append(series.Prices, *h.Prices[i])
	}
	return series
}
