package service

import (
	"context"
	"sync"
	"testing"

	"github.com/bernardocerejo/sentinel-criptobot/internal/model"
	"github.com/bernardocerejo/sentinel-criptobot/internal/signal"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/chart"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/logger"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/telegram"

	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

type fakeGateway struct {
	mu       sync.Mutex
	messages []string
	photos   int
	failSend bool
}

func (f *fakeGateway) SendMessage(ctx context.Context, text string, opts ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return telegram.ErrDeliveryFailure
	}
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeGateway) SendPhoto(ctx context.Context, png []byte, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSend {
		return telegram.ErrDeliveryFailure
	}
	f.photos++
	return nil
}

func (f *fakeGateway) sentMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

type fakeOutcomeRepo struct {
	mu       sync.Mutex
	green    int64
	red      int64
	failLoad bool
	failIncr bool
	resets   int
}

func (f *fakeOutcomeRepo) Load(ctx context.Context) (model.OutcomeCounter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLoad {
		return model.OutcomeCounter{}, context.DeadlineExceeded
	}
	return model.OutcomeCounter{ID: 1, Green: f.green, Red: f.red}, nil
}

func (f *fakeOutcomeRepo) Increment(ctx context.Context, kind model.OutcomeKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIncr {
		return context.DeadlineExceeded
	}
	if kind == model.OutcomeGreen {
		f.green++
	} else {
		f.red++
	}
	return nil
}

func (f *fakeOutcomeRepo) Reset(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.green = 0
	f.red = 0
	f.resets++
	return nil
}

type fakeSignalRepo struct {
	mu    sync.Mutex
	saved []model.SignalRecord
}

func (f *fakeSignalRepo) Save(ctx context.Context, record *model.SignalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, *record)
	return nil
}

func (f *fakeSignalRepo) Latest(ctx context.Context, limit int) ([]model.SignalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.saved) {
		limit = len(f.saved)
	}
	return append([]model.SignalRecord(nil), f.saved[:limit]...), nil
}

func fakeRenderChart(title string, series []float64, thresholds []chart.Threshold) ([]byte, error) {
	return []byte("png"), nil
}

type fakeEvaluation struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeEvaluation) Evaluate(ctx context.Context, setup signal.Setup) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return true, nil
}

func (f *fakeEvaluation) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
