package service

import (
	"context"
	"testing"
	"time"

	"github.com/bernardocerejo/sentinel-criptobot/config"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchedulerForTest(t *testing.T, appCtx context.Context, evaluation *fakeEvaluation, now func() time.Time) *schedulerService {
	cfg := testConfig()
	cfg.Scheduler = config.Scheduler{
		StartupDelay:   10 * time.Millisecond,
		ArmDelay:       10 * time.Millisecond,
		SummaryWeekday: int(time.Sunday),
		SummaryHour:    22,
		SummaryMinute:  0,
	}
	return &schedulerService{
		appCtx:     appCtx,
		cfg:        cfg,
		log:        testLogger(t),
		evaluation: evaluation,
		summary:    nil,
		armed:      cache.NewCache(time.Minute, time.Minute),
		loc:        time.UTC,
		now:        now,
	}
}

func TestArmFiresEvaluationAfterDelay(t *testing.T) {
	evaluation := &fakeEvaluation{}
	sched := newSchedulerForTest(t, context.Background(), evaluation, time.Now)

	assert.True(t, sched.Arm(context.Background(), 42))

	require.Eventually(t, func() bool {
		return evaluation.callCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestArmDedupesWhileArmed(t *testing.T) {
	evaluation := &fakeEvaluation{}
	sched := newSchedulerForTest(t, context.Background(), evaluation, time.Now)

	assert.True(t, sched.Arm(context.Background(), 42))
	assert.False(t, sched.Arm(context.Background(), 42), "second arm for the same chat while armed")
	assert.True(t, sched.Arm(context.Background(), 43), "a different chat arms independently")

	require.Eventually(t, func() bool {
		return evaluation.callCount() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestArmedTimerAbandonedOnCancel(t *testing.T) {
	evaluation := &fakeEvaluation{}
	ctx, cancel := context.WithCancel(context.Background())
	sched := newSchedulerForTest(t, ctx, evaluation, time.Now)
	sched.cfg.Scheduler.ArmDelay = 200 * time.Millisecond

	assert.True(t, sched.Arm(context.Background(), 42))
	cancel()

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 0, evaluation.callCount(), "cancelled timer must not fire")
}

func TestNextSummaryAt(t *testing.T) {
	// Tuesday 10:00 UTC → upcoming Sunday 22:00, five days later.
	now := func() time.Time { return time.Date(2025, time.June, 10, 10, 0, 0, 0, time.UTC) }
	sched := newSchedulerForTest(t, context.Background(), &fakeEvaluation{}, now)

	next := sched.NextSummaryAt()
	assert.Equal(t, time.Date(2025, time.June, 15, 22, 0, 0, 0, time.UTC), next)
}

func TestRunWeeklyStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sched := newSchedulerForTest(t, ctx, &fakeEvaluation{}, time.Now)
	done := make(chan error, 1)
	go func() {
		done <- sched.RunWeekly(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("RunWeekly did not stop after context cancellation")
	}
}
