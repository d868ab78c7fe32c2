package cache

// Invalidation rules for the upstream mutation flows.
//
//nolint:gochecknoglobals // Read-only rule table.
var (
	RuleRefreshStocks = Rule{
		Name:     "refresh-stocks",
		Patterns: []string{"stocks:"},
	}

	RuleRefreshCryptos = Rule{
		Name:     "refresh-cryptos",
		Patterns: []string{"cryptos:"},
	}

	// RuleManualPositionChanged covers create, update and delete of a manual position.
	RuleManualPositionChanged = Rule{
		Name: "manual-position-changed",
		Keys: []string{KeyPositionsManual},
	}

	RuleRefreshPositions = Rule{
		Name:     "refresh-positions",
		Patterns: []string{"positions:"},
	}

	RuleAutotraderRun = Rule{
		Name:     "autotrader-run",
		Keys:     []string{KeyAutotraderSummary},
		Patterns: []string{"positions:"},
	}

	RuleRefreshPortfolio = Rule{
		Name:     "refresh-portfolio",
		Patterns: []string{"portfolio:"},
	}

	// RuleAlertsChanged covers create, update, delete and dismiss of an alert.
	RuleAlertsChanged = Rule{
		Name:     "alerts-changed",
		Patterns: []string{"alerts:"},
	}
)
