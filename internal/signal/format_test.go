package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	at := time.Date(2025, time.June, 15, 14, 30, 45, 0, time.UTC)

	sig := Signal{
		Asset:       "BTCUSDT",
		Entry:       "67.100",
		TakeProfits: []string{"68.200", "69.000"},
		StopLoss:    "66.400",
		Score:       4,
		At:          at,
	}

	rendered, err := Format(sig)
	require.NoError(t, err)

	assert.Contains(t, rendered.Message, "NOVO SINAL: BTCUSDT")
	assert.Contains(t, rendered.Message, "Entrada: <b>67.100</b>")
	assert.Contains(t, rendered.Message, "TP1: 68.200")
	assert.Contains(t, rendered.Message, "TP2: 69.000")
	assert.Contains(t, rendered.Message, "SL: 66.400")
	assert.Contains(t, rendered.Message, "4/5")
	// Minute granularity, seconds dropped.
	assert.Contains(t, rendered.Message, "15/06/2025 14:30")
	assert.NotContains(t, rendered.Message, "14:30:45")

	// Chart series ordered stop loss → entry → take profits.
	assert.Equal(t, []float64{66.400, 67.100, 68.200, 69.000}, rendered.Points)
	assert.Equal(t, []float64{68.200, 69.000}, rendered.TakeProfits)
	assert.Equal(t, 66.400, rendered.StopLoss)
}

func TestFormatInvalidData(t *testing.T) {
	base := Signal{
		Asset:       "BTCUSDT",
		Entry:       "67.100",
		TakeProfits: []string{"68.200"},
		StopLoss:    "66.400",
		Score:       5,
		At:          time.Now(),
	}

	tests := []struct {
		name   string
		mutate func(*Signal)
	}{
		{"malformed entry", func(s *Signal) { s.Entry = "not-a-number" }},
		{"malformed stop loss", func(s *Signal) { s.StopLoss = "" }},
		{"malformed take profit", func(s *Signal) { s.TakeProfits = []string{"68.200", "abc"} }},
		{"no take profits", func(s *Signal) { s.TakeProfits = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := base
			tt.mutate(&sig)
			_, err := Format(sig)
			assert.ErrorIs(t, err, ErrInvalidSignalData)
		})
	}
}
