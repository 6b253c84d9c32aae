// Package format converts raw quote and info fields into display strings.
// Every function here is pure.
package format

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/zappabad/stocksuggester/internal/stock"
)

// NA is shown for any missing value.
const NA = "N/A"

var (
	crore   = decimal.NewFromInt(10_000_000)
	billion = decimal.NewFromInt(1_000_000_000)
)

// Price returns the price rounded to 2 decimals with the locale's currency
// symbol, or NA when price is nil.
func Price(price *float64, loc stock.Locale) string {
	if price == nil {
		return NA
	}
	return TooltipValue(*price, loc)
}

// MarketCap renders crores (or grouped rupees below one crore) for LocaleIN
// and billions of dollars otherwise.
func MarketCap(marketCap *float64, loc stock.Locale) string {
	if marketCap == nil {
		return NA
	}
	v := decimal.NewFromFloat(*marketCap)
	if loc == stock.LocaleIN {
		if v.GreaterThanOrEqual(crore) {
			return loc.CurrencySymbol() + v.Div(crore).StringFixed(2) + " Cr"
		}
		return loc.CurrencySymbol() + humanize.Comma(v.Round(0).IntPart())
	}
	return loc.CurrencySymbol() + v.Div(billion).StringFixed(2) + "B"
}

// TooltipValue always renders a currency value with 2 decimals.
func TooltipValue(value float64, loc stock.Locale) string {
	return loc.CurrencySymbol() + decimal.NewFromFloat(value).StringFixed(2)
}

// AxisValue is the y-axis label for a chart value.
func AxisValue(value float64, loc stock.Locale) string {
	return TooltipValue(value, loc)
}

// Percent renders a change percentage such as "-1.20%".
func Percent(change *float64) string {
	if change == nil {
		return NA
	}
	return decimal.NewFromFloat(*change).StringFixed(2) + "%"
}

// IsPositive reports whether a change should be styled as a gain. Zero and
// missing values count as positive.
func IsPositive(change *float64) bool {
	return change == nil || *change >= 0
}

// Employees renders a grouped head count.
func Employees(n *int64) string {
	if n == nil {
		return NA
	}
	return humanize.Comma(*n)
}

// OrNA returns s, or NA for blank strings.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return s
}

const newsDateLayout = "Jan 2, 2006"

// NewsDate renders an article timestamp as a local date. It returns "" when
// the timestamp is absent or cannot be parsed.
func NewsDate(publishedAt string) string {
	if publishedAt == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, publishedAt); err == nil {
		return t.Local().Format(newsDateLayout)
	}
	// Timestamps without a zone, and bare dates, are already local.
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, publishedAt, time.Local); err == nil {
			return t.Format(newsDateLayout)
		}
	}
	return ""
}

var chartDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ChartDate shortens a history date for axis labels and the chart tooltip:
// clock time for intraday series, month and day otherwise. Unparseable input
// is returned unchanged.
func ChartDate(date string, intraday bool) string {
	t, ok := parseChartDate(date)
	if !ok {
		return date
	}
	if intraday {
		return t.Format("15:04")
	}
	return t.Format("Jan 02")
}

// ChartTooltipDate is the longer form shown under the chart cursor.
func ChartTooltipDate(date string, intraday bool) string {
	t, ok := parseChartDate(date)
	if !ok {
		return date
	}
	if intraday {
		return t.Format("Jan 2, 15:04")
	}
	return t.Format(newsDateLayout)
}

func parseChartDate(date string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t, true
	}
	for _, layout := range chartDateLayouts {
		if t, err := time.ParseInLocation(layout, date, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
