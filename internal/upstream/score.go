package upstream

// Score thresholds on the 0-10 scale.
const (
	scoreStrongBuy = 8
	scoreBuy       = 6
	scoreHold      = 4
)

// Score labels.
const (
	LabelStrongBuy = "Strong Buy"
	LabelBuy       = "Buy"
	LabelHold      = "Hold"
	LabelSell      = "Sell"
)

// ScoreLabel classifies a score: Strong Buy (>= 8), Buy (>= 6), Hold (>= 4)
// or Sell.
func ScoreLabel(score float64) string {
	switch {
	case score >= scoreStrongBuy:
		return LabelStrongBuy
	case score >= scoreBuy:
		return LabelBuy
	case score >= scoreHold:
		return LabelHold
	default:
		return LabelSell
	}
}

// SideLabel returns LONG, SHORT or N/A.
func SideLabel(side string) string {
	switch side {
	case SideLong, SideShort:
		return side
	default:
		return "N/A"
	}
}

// IsGain reports whether pnl is favourable for a position on side. For a
// SHORT a non-positive P&L is a gain; otherwise a non-negative one is.
func IsGain(pnl float64, side string) bool {
	if side == SideShort {
		return pnl <= 0
	}
	return pnl >= 0
}
