package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/finboard/internal/cache"
	"github.com/rshade/finboard/internal/dashboard"
	"github.com/rshade/finboard/internal/upstream"
)

// Layout constants.
const (
	maxNameDisplayLen = 24
	truncateSuffix    = "..."
	maxKeysListed     = 20
)

// truncate shortens s to maxNameDisplayLen runes.
func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxNameDisplayLen {
		return s
	}
	return string(r[:maxNameDisplayLen-len(truncateSuffix)]) + truncateSuffix
}

// renderChange renders a signed percent change with a direction icon,
// colored as a gain or loss for a position on side.
func renderChange(mode Mode, pct float64, side string) string {
	icon := IconArrowRight
	switch {
	case pct > 0:
		icon = IconArrowUp
	case pct < 0:
		icon = IconArrowDown
	}
	text := FormatPercent(pct) + " " + icon
	if upstream.IsGain(pct, side) {
		return mode.style(GainStyle, text)
	}
	return mode.style(LossStyle, text)
}

// renderPnL renders a money amount colored by whether it favours side.
func renderPnL(mode Mode, pnl float64, side string) string {
	if upstream.IsGain(pnl, side) {
		return mode.style(GainStyle, FormatMoney(pnl))
	}
	return mode.style(LossStyle, FormatMoney(pnl))
}

// renderSignal renders the score label for score.
func renderSignal(mode Mode, score float64) string {
	label := upstream.ScoreLabel(score)
	return mode.style(signalStyle(label), label)
}

//nolint:gochecknoglobals // Shared column set for quote tables.
var quoteHeaders = []string{"SYMBOL", "NAME", "PRICE", "CHANGE", "SCORE", "SIGNAL", "VOLUME", "MKT CAP"}

// RenderStocks renders a stock quote table.
func RenderStocks(stocks []upstream.Stock, mode Mode) string {
	if len(stocks) == 0 {
		return emptyMessage(mode, "stocks")
	}
	rows := make([][]string, 0, len(stocks))
	for _, s := range stocks {
		rows = append(rows, quoteRow(mode, s.Symbol, s.Name, s.CurrentPrice, s.ChangePercent, s.Score, s.Volume, s.MarketCap))
	}
	return Table{Title: "STOCKS", Headers: quoteHeaders, Rows: rows}.Render(mode)
}

// RenderCryptos renders a crypto quote table.
func RenderCryptos(cryptos []upstream.Crypto, mode Mode) string {
	if len(cryptos) == 0 {
		return emptyMessage(mode, "cryptos")
	}
	rows := make([][]string, 0, len(cryptos))
	for _, c := range cryptos {
		rows = append(rows, quoteRow(mode, c.Symbol, c.Name, c.CurrentPrice, c.ChangePercent, c.Score, c.Volume, c.MarketCap))
	}
	return Table{Title: "CRYPTOS", Headers: quoteHeaders, Rows: rows}.Render(mode)
}

func quoteRow(mode Mode, symbol, name string, price, changePct, score, volume, marketCap float64) []string {
	mcap := "-"
	if marketCap > 0 {
		mcap = "$" + FormatCompact(marketCap)
	}
	return []string{
		symbol,
		truncate(name),
		FormatMoney(price),
		renderChange(mode, changePct, ""),
		FormatScore(score),
		renderSignal(mode, score),
		FormatCompact(volume),
		mcap,
	}
}

// RenderPositions renders a positions table under title.
func RenderPositions(title string, positions []upstream.Position, mode Mode) string {
	if len(positions) == 0 {
		return mode.style(HeaderStyle, title) + "\n" + emptyMessage(mode, "positions")
	}

	rows := make([][]string, 0, len(positions))
	var totalValue, totalPnL float64
	for _, p := range positions {
		side := upstream.SideLabel(p.PositionSide)
		rows = append(rows, []string{
			p.Symbol,
			p.Type,
			side,
			FormatFloat(p.Quantity, 4),
			FormatMoney(p.EntryPrice),
			FormatMoney(p.CurrentPrice),
			FormatMoney(p.Value),
			renderPnL(mode, p.PnL, p.PositionSide),
			renderChange(mode, p.PnLPercent, p.PositionSide),
			p.Source,
		})
		totalValue += p.Value
		totalPnL += p.PnL
	}

	out := Table{
		Title:   title,
		Headers: []string{"SYMBOL", "TYPE", "SIDE", "QTY", "ENTRY", "PRICE", "VALUE", "P&L", "P&L %", "SOURCE"},
		Rows:    rows,
	}.Render(mode)

	totals := fmt.Sprintf("%d positions  value %s  P&L %s",
		len(positions), FormatMoney(totalValue), renderPnL(mode, totalPnL, ""))
	return out + mode.style(SubtleStyle, totals) + "\n"
}

// RenderAutotraderSummary renders the last autotrader cycle.
func RenderAutotraderSummary(s upstream.AutotraderSummary, mode Mode) string {
	cycle := s.CycleStart
	if cycle == "" {
		cycle = "never"
	}
	return renderPanel(mode, "AUTOTRADER", []field{
		{label: "Last cycle", value: cycle},
		{label: "Actions taken", value: FormatNumber(int64(s.ActionsTaken))},
		{label: "Buy signals", value: FormatNumber(int64(s.BuySignals))},
		{label: "Sell signals", value: FormatNumber(int64(s.SellSignals))},
		{label: "Total value", value: FormatMoney(s.TotalValue)},
		{label: "Total P&L", value: renderPnL(mode, s.TotalPnL, "")},
		{label: "Success rate", value: FormatFloat(s.SuccessRate, 1) + "%"},
	})
}

// RenderRunResult renders the outcome of a manual autotrader run.
func RenderRunResult(r upstream.AutotraderRunResult, mode Mode) string {
	var b strings.Builder
	if r.Success {
		b.WriteString(mode.style(GainStyle, "Autotrader run succeeded"))
	} else {
		b.WriteString(mode.style(CriticalStyle, "Autotrader run failed"))
	}
	if r.Message != "" {
		b.WriteString(": ")
		b.WriteString(r.Message)
	}
	b.WriteByte('\n')
	b.WriteString(RenderAutotraderSummary(r.Summary, mode))
	return b.String()
}

// RenderOverview renders the combined portfolio overview.
func RenderOverview(o upstream.PortfolioOverview, mode Mode) string {
	stocks, crypto := o.Portfolios.Stocks, o.Portfolios.Crypto
	return renderPanel(mode, "PORTFOLIO", []field{
		{label: "Initial capital", value: FormatMoney(o.Summary.TotalInitialCapital)},
		{label: "Current capital", value: FormatMoney(o.Summary.TotalCurrentCapital)},
		{label: "Total P&L", value: renderPnL(mode, o.Summary.TotalPnL, "")},
		{label: "ROI", value: renderChange(mode, o.Summary.TotalROIPercent, "")},
		{label: "Stocks", value: portfolioLine(stocks)},
		{label: "Crypto", value: portfolioLine(crypto)},
	})
}

func portfolioLine(p upstream.PortfolioData) string {
	return fmt.Sprintf("%s capital, %s cash, %s trades",
		FormatMoney(p.CurrentCapital), FormatMoney(p.AvailableCash), FormatNumber(int64(p.TotalTrades)))
}

// RenderHealth renders an upstream health probe.
func RenderHealth(baseURL string, h upstream.Health, mode Mode) string {
	status := mode.style(GainStyle, h.Status)
	if h.Status != "healthy" && h.Status != "ok" {
		status = mode.style(WarningStyle, h.Status)
	}
	fields := []field{
		{label: "API", value: baseURL},
		{label: "Status", value: status},
	}
	if h.Service != "" {
		fields = append(fields, field{label: "Service", value: h.Service})
	}
	if h.Version != "" {
		fields = append(fields, field{label: "Version", value: h.Version})
	}
	fields = append(fields, field{label: "Latency", value: h.Latency.Round(time.Millisecond).String()})
	return renderPanel(mode, "UPSTREAM", fields)
}

// RenderCacheStats renders store and gate counters. Only the first keys are
// listed.
func RenderCacheStats(stats cache.Stats, gate cache.GateStats, mode Mode) string {
	lookups := gate.Hits + gate.Misses
	hitRate := "-"
	if lookups > 0 {
		hitRate = FormatFloat(float64(gate.Hits)*100/float64(lookups), 1) + "%"
	}

	out := renderPanel(mode, "CACHE", []field{
		{label: "Entries", value: strconv.Itoa(stats.Size)},
		{label: "Hits", value: FormatNumber(gate.Hits)},
		{label: "Misses", value: FormatNumber(gate.Misses)},
		{label: "Hit rate", value: hitRate},
		{label: "Stale served", value: FormatNumber(gate.StaleServed)},
		{label: "Failures", value: FormatNumber(gate.Failures)},
		{label: "Shared", value: FormatNumber(gate.Shared)},
	})
	if len(stats.Keys) == 0 {
		return out
	}

	keys := append([]string(nil), stats.Keys...)
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(out)
	for i, k := range keys {
		if i == maxKeysListed {
			b.WriteString(mode.style(SubtleStyle, fmt.Sprintf("  ... and %d more", len(keys)-maxKeysListed)))
			b.WriteByte('\n')
			break
		}
		b.WriteString("  " + k + "\n")
	}
	return b.String()
}

// RenderCacheInfo renders the age and expiry of one key.
func RenderCacheInfo(v cache.InfoView, mode Mode) string {
	if !v.Exists {
		return mode.style(InfoStyle, fmt.Sprintf("%s is not cached.", v.Key)) + "\n"
	}
	ms := func(p *int64) string {
		if p == nil {
			return "-"
		}
		return cache.FormatDuration(time.Duration(*p) * time.Millisecond)
	}
	fields := []field{
		{label: "Age", value: ms(v.AgeMS)},
		{label: "TTL", value: ms(v.TTLMS)},
		{label: "Expires in", value: ms(v.ExpiresInMS)},
	}
	if v.ExpiresAt != nil {
		fields = append(fields, field{label: "Expires at", value: v.ExpiresAt.Local().Format(time.DateTime)})
	}
	return renderPanel(mode, v.Key, fields)
}

// RenderSnapshot renders every dashboard panel followed by section errors
// and the cache size.
func RenderSnapshot(s *dashboard.Snapshot, mode Mode) string {
	var b strings.Builder
	b.WriteString(mode.style(HeaderStyle, "FINBOARD  "+s.TakenAt.Format(time.DateTime)))
	b.WriteString("\n\n")

	if s.Overview != nil {
		b.WriteString(RenderOverview(*s.Overview, mode))
		b.WriteByte('\n')
	}
	if s.Summary != nil {
		b.WriteString(RenderAutotraderSummary(*s.Summary, mode))
		b.WriteByte('\n')
	}
	if _, failed := s.Errors[dashboard.SectionStocks]; !failed {
		b.WriteString(RenderStocks(s.Stocks, mode))
		b.WriteByte('\n')
	}
	if _, failed := s.Errors[dashboard.SectionCryptos]; !failed {
		b.WriteString(RenderCryptos(s.Cryptos, mode))
		b.WriteByte('\n')
	}
	if _, failed := s.Errors[dashboard.SectionAutotrader]; !failed {
		b.WriteString(RenderPositions("AUTOTRADER POSITIONS", s.AutotraderPositions, mode))
		b.WriteByte('\n')
	}
	if _, failed := s.Errors[dashboard.SectionManual]; !failed {
		b.WriteString(RenderPositions("MANUAL POSITIONS", s.ManualPositions, mode))
		b.WriteByte('\n')
	}

	if len(s.Errors) > 0 {
		sections := make([]string, 0, len(s.Errors))
		for name := range s.Errors {
			sections = append(sections, name)
		}
		sort.Strings(sections)
		for _, name := range sections {
			b.WriteString(mode.style(WarningStyle, fmt.Sprintf("%s unavailable: %s", name, s.Errors[name])))
			b.WriteByte('\n')
		}
	}

	b.WriteString(mode.style(SubtleStyle, fmt.Sprintf("cache: %d entries", s.Cache.Size)))
	b.WriteByte('\n')
	return b.String()
}
