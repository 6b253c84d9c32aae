package stock

import "strings"

// Info holds identity and fundamentals for a stock as sent by the backend.
// Nullable numbers are pointers so that an absent value differs from zero.
type Info struct {
	Symbol              string   `json:"symbol"`
	ShortName           string   `json:"shortName,omitempty"`
	Sector              string   `json:"sector,omitempty"`
	Industry            string   `json:"industry,omitempty"`
	Currency            string   `json:"currency,omitempty"`
	Website             string   `json:"website,omitempty"`
	LongBusinessSummary string   `json:"longBusinessSummary,omitempty"`
	MarketCap           *float64 `json:"marketCap,omitempty"`
	CurrentPrice        *float64 `json:"currentPrice,omitempty"`
	RegularMarketPrice  *float64 `json:"regularMarketPrice,omitempty"`
	ChangePercent       *float64 `json:"changePercent,omitempty"`
	FullTimeEmployees   *int64   `json:"fullTimeEmployees,omitempty"`
	// IsIndianStock is decoded for completeness only. Display locale is
	// always derived from the symbol, see Snapshot.Locale.
	IsIndianStock *bool `json:"isIndianStock,omitempty"`
}

// Quote holds optional live values that override Info.
type Quote struct {
	Symbol        string   `json:"symbol,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
}

// Snapshot is a point-in-time bundle of a stock's info plus optional quote.
type Snapshot struct {
	Info  *Info  `json:"info,omitempty"`
	Quote *Quote `json:"quote,omitempty"`
}

// Renderable reports whether the snapshot carries a symbol.
func (s Snapshot) Renderable() bool {
	return s.Info != nil && s.Info.Symbol != ""
}

// Symbol returns the info symbol, falling back to the quote symbol.
func (s Snapshot) Symbol() string {
	if s.Info != nil && s.Info.Symbol != "" {
		return s.Info.Symbol
	}
	if s.Quote != nil {
		return s.Quote.Symbol
	}
	return ""
}

// Name returns the short name, the symbol, or "" when neither is known.
func (s Snapshot) Name() string {
	if s.Info != nil && s.Info.ShortName != "" {
		return s.Info.ShortName
	}
	return s.Symbol()
}

// Price prefers the live quote price over info.currentPrice.
func (s Snapshot) Price() *float64 {
	if s.Quote != nil && s.Quote.Price != nil {
		return s.Quote.Price
	}
	if s.Info != nil {
		return s.Info.CurrentPrice
	}
	return nil
}

// ChangePercent prefers the live quote change over info.changePercent.
func (s Snapshot) ChangePercent() *float64 {
	if s.Quote != nil && s.Quote.ChangePercent != nil {
		return s.Quote.ChangePercent
	}
	if s.Info != nil {
		return s.Info.ChangePercent
	}
	return nil
}

// Locale derives the display locale from the symbol suffix.
func (s Snapshot) Locale() Locale {
	return LocaleForSymbol(s.Symbol())
}

// Locale selects currency and market-cap conventions.
type Locale int

const (
	// LocaleUS renders dollars and billions.
	LocaleUS Locale = iota
	// LocaleIN renders rupees and crores.
	LocaleIN
)

// indianSuffixes are the NSE and BSE exchange suffixes.
var indianSuffixes = []string{".NS", ".BO"}

// LocaleForSymbol returns LocaleIN for NSE/BSE listed symbols.
func LocaleForSymbol(symbol string) Locale {
	upper := strings.ToUpper(symbol)
	for _, suffix := range indianSuffixes {
		if strings.HasSuffix(upper, suffix) {
			return LocaleIN
		}
	}
	return LocaleUS
}

// CurrencySymbol returns the currency prefix for the locale.
func (l Locale) CurrencySymbol() string {
	if l == LocaleIN {
		return "₹"
	}
	return "$"
}

// NewsItem is one article about a stock. Order is kept as returned.
type NewsItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// History is the stock-history payload as decoded from the wire. Prices may
// contain nulls and its slices may disagree in length.
type History struct {
	Dates      []string   `json:"dates"`
	Prices     []*float64 `json:"prices"`
	Period     string     `json:"period,omitempty"`
	IsIntraday bool       `json:"isIntraday"`
}

// ChartSeries is a price history ready for any charting surface.
// Dates and Prices always have the same length once normalized.
type ChartSeries struct {
	Dates      []string
	Prices     []float64
	Period     Period
	IsIntraday bool
}

// Len returns the number of points.
func (c ChartSeries) Len() int {
	return len(c.Prices)
}
