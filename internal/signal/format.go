package signal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSignalData marks malformed numeric price levels. A signal that
// fails with it was never a valid evaluation: no delivery, no red outcome.
var ErrInvalidSignalData = errors.New("invalid signal data")

// Signal is a scored setup paired with concrete price levels, eligible for
// delivery once formatted. Price levels are caller-supplied strings;
// directional sanity (stop loss below entry below take profit for a long)
// is the caller's responsibility and is not validated here.
type Signal struct {
	Asset       string
	Entry       string
	TakeProfits []string
	StopLoss    string
	Score       int
	At          time.Time
}

// Rendered is the deliverable form of a signal: the channel message plus
// the numeric series and threshold lines handed to the chart renderer.
type Rendered struct {
	Message     string
	Points      []float64
	TakeProfits []float64
	StopLoss    float64
}

// Format produces the channel message and the chart series
// (stop loss → entry → take profit levels, in that order).
func Format(sig Signal) (Rendered, error) {
	entry, err := parseLevel("entry", sig.Entry)
	if err != nil {
		return Rendered{}, err
	}
	stopLoss, err := parseLevel("stop loss", sig.StopLoss)
	if err != nil {
		return Rendered{}, err
	}
	if len(sig.TakeProfits) == 0 {
		return Rendered{}, fmt.Errorf("%w: signal has no take profit levels", ErrInvalidSignalData)
	}
	takeProfits := make([]float64, 0, len(sig.TakeProfits))
	for i, tp := range sig.TakeProfits {
		v, err := parseLevel(fmt.Sprintf("tp%d", i+1), tp)
		if err != nil {
			return Rendered{}, err
		}
		takeProfits = append(takeProfits, v)
	}

	sb := &strings.Builder{}
	sb.WriteString(fmt.Sprintf("🚨 <b>NOVO SINAL: %s</b>\n", sig.Asset))
	sb.WriteString(fmt.Sprintf("📥 Entrada: <b>%s</b>\n", sig.Entry))
	for i, tp := range sig.TakeProfits {
		sb.WriteString(fmt.Sprintf("🟢 TP%d: %s\n", i+1, tp))
	}
	sb.WriteString(fmt.Sprintf("🔴 SL: %s\n", sig.StopLoss))
	sb.WriteString(fmt.Sprintf("\n🧠 Score de Confluência: <b>%d/%d</b>\n", sig.Score, MaxScore))
	sb.WriteString(fmt.Sprintf("🕒 %s", sig.At.Format("02/01/2006 15:04")))

	points := make([]float64, 0, len(takeProfits)+2)
	points = append(points, stopLoss, entry)
	points = append(points, takeProfits...)

	return Rendered{
		Message:     sb.String(),
		Points:      points,
		TakeProfits: takeProfits,
		StopLoss:    stopLoss,
	}, nil
}

func parseLevel(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s level %q is not numeric", ErrInvalidSignalData, name, raw)
	}
	return v, nil
}
