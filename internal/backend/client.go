// Package backend talks to the stock backend over its four GET endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/zappabad/stocksuggester/internal/stock"
)

var (
	// ErrStatus is returned for any non-2xx response.
	ErrStatus = errors.New("unexpected status")
	// ErrMalformed is returned when a body parses but lacks the expected shape.
	ErrMalformed = errors.New("malformed response")
)

const requestIDHeader = "X-Request-ID"

// Client fetches stock data from the backend.
type Client struct {
	cfg  Config
	http *resty.Client
	log  *slog.Logger
}

// NewClient creates a new backend client.
func NewClient(cfg Config, log *slog.Logger) *Client {
	cfg = cfg.withDefaults()
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "backend")

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent).
		SetLogger(restyLogger{log: log})

	http.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		log.Debug("request done",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"request_id", resp.Request.Header.Get(requestIDHeader),
			"elapsed", resp.Time(),
		)
		return nil
	})

	return &Client{cfg: cfg, http: http, log: log}
}

// HotStocks fetches the curated list of hot stocks.
func (c *Client) HotStocks(ctx context.Context) ([]stock.Snapshot, error) {
	body, err := c.get(ctx, "/hot-stocks", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("hot stocks: %w", err)
	}
	if !isArray(body) {
		return nil, fmt.Errorf("hot stocks: %w: expected array", ErrMalformed)
	}
	var snaps []stock.Snapshot
	if err := json.Unmarshal(body, &snaps); err != nil {
		return nil, fmt.Errorf("hot stocks: %w: %v", ErrMalformed, err)
	}
	return snaps, nil
}

// SearchStock looks up a single ticker. The payload is valid only when it has
// an info or quote field.
func (c *Client) SearchStock(ctx context.Context, ticker string) (stock.Snapshot, error) {
	body, err := c.get(ctx, "/search-stock/{ticker}", map[string]string{"ticker": ticker}, nil)
	if err != nil {
		return stock.Snapshot{}, fmt.Errorf("search %s: %w", ticker, err)
	}
	var snap stock.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return stock.Snapshot{}, fmt.Errorf("search %s: %w: %v", ticker, ErrMalformed, err)
	}
	if snap.Info == nil && snap.Quote == nil {
		return stock.Snapshot{}, fmt.Errorf("search %s: %w: no info or quote", ticker, ErrMalformed)
	}
	return snap, nil
}

// StockNews fetches recent articles for a ticker. The payload must be an array.
func (c *Client) StockNews(ctx context.Context, ticker string) ([]stock.NewsItem, error) {
	body, err := c.get(ctx, "/stock-news/{ticker}", map[string]string{"ticker": ticker}, nil)
	if err != nil {
		return nil, fmt.Errorf("news %s: %w", ticker, err)
	}
	if !isArray(body) {
		return nil, fmt.Errorf("news %s: %w: expected array", ticker, ErrMalformed)
	}
	items := []stock.NewsItem{}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("news %s: %w: %v", ticker, ErrMalformed, err)
	}
	return items, nil
}

// StockHistory fetches the raw price history for a ticker and period.
func (c *Client) StockHistory(ctx context.Context, ticker string, period stock.Period) (stock.History, error) {
	body, err := c.get(ctx, "/stock-history/{ticker}",
		map[string]string{"ticker": ticker},
		map[string]string{"period": string(period)},
	)
	if err != nil {
		return stock.History{}, fmt.Errorf("history %s/%s: %w", ticker, period, err)
	}
	var raw struct {
		stock.History
		Dates  *[]string   `json:"dates"`
		Prices *[]*float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return stock.History{}, fmt.Errorf("history %s/%s: %w: %v", ticker, period, ErrMalformed, err)
	}
	if raw.Dates == nil || raw.Prices == nil {
		return stock.History{}, fmt.Errorf("history %s/%s: %w: missing dates or prices", ticker, period, ErrMalformed)
	}
	h := raw.History
	h.Dates = *raw.Dates
	h.Prices = *raw.Prices
	return h, nil
}

func (c *Client) get(ctx context.Context, path string, pathParams, query map[string]string) ([]byte, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString())
	if pathParams != nil {
		req.SetPathParams(pathParams)
	}
	if query != nil {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode(), truncate(resp.String(), 200))
	}
	return resp.Body(), nil
}

func isArray(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// restyLogger routes resty's internal logging to slog.
type restyLogger struct {
	log *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...))
}
