package contentlog

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// TimeLayout is how log timestamps are displayed.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders epoch seconds in loc (local time when nil).
func FormatTimestamp(sec int64, loc *time.Location) string {
	t := time.Unix(sec, 0)
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(TimeLayout)
}

// QuotaFormat controls how quota amounts are displayed.
type QuotaFormat struct {
	// PerUnit is the number of quota points in one currency unit.
	PerUnit float64
	// InCurrency shows "$amount" instead of raw quota points.
	InCurrency bool
	// Digits is the number of decimals for currency display.
	Digits int
}

// DefaultQuotaFormat matches the gateway defaults: 500000 points per dollar,
// six decimals.
var DefaultQuotaFormat = QuotaFormat{PerUnit: 500000, InCurrency: true, Digits: 6}

// FormatQuota renders a quota amount.
func FormatQuota(quota int64, f QuotaFormat) string {
	if !f.InCurrency || f.PerUnit <= 0 {
		return humanize.Comma(quota)
	}
	return "$" + strconv.FormatFloat(float64(quota)/f.PerUnit, 'f', f.Digits, 64)
}

// FormatTokens renders a token count with thousands separators.
func FormatTokens(n int) string {
	return humanize.Comma(int64(n))
}

// PageCount is the number of pages needed for total rows, at least 1.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
