package tui

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer adds English thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// Compact number thresholds.
const (
	thousand = 1e3
	million  = 1e6
	billion  = 1e9
	trillion = 1e12
)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats f rounded to precision decimals with thousand
// separators on the integer part. Example: FormatFloat(-1234.567, 2)
// returns "-1,234.57".
func FormatFloat(f float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	formatted := strconv.FormatFloat(math.Abs(f), 'f', precision, 64)
	intPart, frac, hasFrac := strings.Cut(formatted, ".")

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return strconv.FormatFloat(f, 'f', precision, 64)
	}

	var b strings.Builder
	if f < 0 && strings.Trim(formatted, "0.") != "" {
		b.WriteByte('-')
	}
	b.WriteString(FormatNumber(n))
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatMoney formats a dollar amount: "$1,234.57", "-$12.00".
func FormatMoney(f float64) string {
	s := FormatFloat(f, 2)
	if rest, ok := strings.CutPrefix(s, "-"); ok {
		return "-$" + rest
	}
	return "$" + s
}

// FormatPercent formats a signed percentage: "+1.50%", "-0.25%", "0.00%".
func FormatPercent(f float64) string {
	s := FormatFloat(f, 2)
	if s != "0.00" && !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s + "%"
}

// FormatCompact abbreviates large magnitudes: 1.2K, 3.4M, 5.6B, 7.8T.
// Values below one thousand keep up to two decimals.
func FormatCompact(f float64) string {
	abs := math.Abs(f)
	var (
		scaled float64
		suffix string
	)
	switch {
	case abs >= trillion:
		scaled, suffix = f/trillion, "T"
	case abs >= billion:
		scaled, suffix = f/billion, "B"
	case abs >= million:
		scaled, suffix = f/million, "M"
	case abs >= thousand:
		scaled, suffix = f/thousand, "K"
	default:
		return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
	}
	return strconv.FormatFloat(scaled, 'f', 1, 64) + suffix
}

// FormatScore renders a score with one decimal.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}
