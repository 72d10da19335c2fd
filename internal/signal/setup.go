package signal

// StructureBreak is the only structure value that scores; anything else,
// including an empty string, does not.
const StructureBreak = "quebra de estrutura"

// MaxScore is the number of independent confluence rules.
const MaxScore = 5

// Setup is a snapshot of market-structure indicators evaluated for
// signal-worthiness. It is immutable once scored.
type Setup struct {
	Structure     string
	OrderBlock    bool
	FairValueGap  bool
	RSI           float64
	Volume        float64
	AverageVolume float64
}

// Score counts the satisfied confluence rules, one point each. It is a pure
// function of the setup fields and never fails.
func Score(s Setup) int {
	score := 0
	if s.Structure == StructureBreak {
		score++
	}
	if s.OrderBlock {
		score++
	}
	if s.FairValueGap {
		score++
	}
	if s.RSI < 30 || s.RSI > 70 {
		score++
	}
	if s.Volume > s.AverageVolume {
		score++
	}
	return score
}
