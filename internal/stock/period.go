package stock

import (
	"fmt"
	"strings"
)

// Period is a history range accepted by the backend.
type Period string

const (
	Period1D  Period = "1d"
	Period1W  Period = "1wk"
	Period1M  Period = "1mo"
	Period1Y  Period = "1y"
	PeriodMax Period = "max"
)

// DefaultPeriod is selected when a chart is first shown.
const DefaultPeriod = Period1M

var periods = []Period{Period1D, Period1W, Period1M, Period1Y, PeriodMax}

var periodLabels = map[Period]string{
	Period1D:  "1D",
	Period1W:  "1W",
	Period1M:  "1M",
	Period1Y:  "1Y",
	PeriodMax: "Max",
}

// Periods returns the selectable periods in display order.
func Periods() []Period {
	out := make([]Period, len(periods))
	copy(out, periods)
	return out
}

// Label returns the button label for p.
func (p Period) Label() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}
	return string(p)
}

// Valid reports whether p is one of the known periods.
func (p Period) Valid() bool {
	_, ok := periodLabels[p]
	return ok
}

// Index returns the position of p in Periods, or -1.
func (p Period) Index() int {
	for i, candidate := range periods {
		if candidate == p {
			return i
		}
	}
	return -1
}

// ParsePeriod accepts a period value ("1wk") or label ("1W").
func ParsePeriod(s string) (Period, error) {
	for _, p := range periods {
		if strings.EqualFold(s, string(p)) || strings.EqualFold(s, p.Label()) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown period %q", s)
}
