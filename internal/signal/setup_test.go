package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		setup Setup
		want  int
	}{
		{
			name: "full confluence scores five",
			setup: Setup{
				Structure:     StructureBreak,
				OrderBlock:    true,
				FairValueGap:  true,
				RSI:           25,
				Volume:        1500,
				AverageVolume: 1000,
			},
			want: 5,
		},
		{
			name: "nothing satisfied scores zero",
			setup: Setup{
				Structure:     "none",
				OrderBlock:    false,
				FairValueGap:  false,
				RSI:           50,
				Volume:        900,
				AverageVolume: 1000,
			},
			want: 0,
		},
		{
			name: "unrecognized structure value does not score",
			setup: Setup{
				Structure:     "rompimento",
				OrderBlock:    true,
				FairValueGap:  true,
				RSI:           25,
				Volume:        1500,
				AverageVolume: 1000,
			},
			want: 4,
		},
		{
			name: "rsi band edges are inclusive and score zero",
			setup: Setup{
				RSI:           30,
				Volume:        0,
				AverageVolume: 0,
			},
			want: 0,
		},
		{
			name: "overbought rsi scores",
			setup: Setup{
				RSI: 71,
			},
			want: 1,
		},
		{
			name: "equal volumes do not score",
			setup: Setup{
				RSI:           50,
				Volume:        1000,
				AverageVolume: 1000,
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.setup))
		})
	}
}

func TestScoreBoundsAndMonotonicity(t *testing.T) {
	// Start from nothing satisfied and flip conditions on one at a time;
	// the score must never decrease and must stay within [0, MaxScore].
	setup := Setup{Structure: "none", RSI: 50, Volume: 900, AverageVolume: 1000}
	prev := Score(setup)
	assert.Equal(t, 0, prev)

	steps := []func(*Setup){
		func(s *Setup) { s.Structure = StructureBreak },
		func(s *Setup) { s.OrderBlock = true },
		func(s *Setup) { s.FairValueGap = true },
		func(s *Setup) { s.RSI = 25 },
		func(s *Setup) { s.Volume = 1500 },
	}
	for _, step := range steps {
		step(&setup)
		got := Score(setup)
		assert.GreaterOrEqual(t, got, prev)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, MaxScore)
		prev = got
	}
	assert.Equal(t, MaxScore, prev)
}
