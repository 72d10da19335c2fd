package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bernardocerejo/sentinel-criptobot/config"
	"github.com/bernardocerejo/sentinel-criptobot/internal/signal"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/cache"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/logger"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/utils"
)

const keyArmedTimer = "armed_signal_timer:%d"

// SchedulerService owns the two timing behaviors: the one-shot delayed
// evaluation (armed at startup and per /start command) and the recurring
// weekly summary. Timers are in-memory only; a restart drops any armed
// one-shot and recomputes the next weekly target from the wall clock.
type SchedulerService interface {
	ArmStartup()
	Arm(ctx context.Context, chatID int64) bool
	RunWeekly(ctx context.Context) error
	NextSummaryAt() time.Time
}

type schedulerService struct {
	// appCtx spans the process lifetime. Armed timers wait on it, not on
	// the per-command context that dies when a handler returns.
	appCtx     context.Context
	cfg        *config.Config
	log        *logger.Logger
	evaluation EvaluationService
	summary    SummaryService
	armed      cache.Cache
	loc        *time.Location
	now        func() time.Time
}

func NewSchedulerService(
	appCtx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	evaluation EvaluationService,
	summary SummaryService,
	armed cache.Cache,
	loc *time.Location,
	now func() time.Time,
) SchedulerService {
	return &schedulerService{
		appCtx:     appCtx,
		cfg:        cfg,
		log:        log,
		evaluation: evaluation,
		summary:    summary,
		armed:      armed,
		loc:        loc,
		now:        now,
	}
}

// ArmStartup arms the demo evaluation fired shortly after process start.
func (s *schedulerService) ArmStartup() {
	s.log.Info("Arming startup signal timer",
		logger.StringField("delay", s.cfg.Scheduler.StartupDelay.String()),
	)
	s.fireAfter(s.cfg.Scheduler.StartupDelay)
}

// Arm arms a one-shot evaluation for the requesting chat. A chat with a
// timer already armed is not armed twice; the call reports whether a new
// timer was created.
func (s *schedulerService) Arm(ctx context.Context, chatID int64) bool {
	key := fmt.Sprintf(keyArmedTimer, chatID)
	if _, alreadyArmed := s.armed.Get(key); alreadyArmed {
		s.log.DebugContext(ctx, "Signal timer already armed for chat", logger.Int64Field("chat_id", chatID))
		return false
	}
	s.armed.Set(key, true, s.cfg.Scheduler.ArmDelay)

	s.log.InfoContext(ctx, "Arming signal timer",
		logger.Int64Field("chat_id", chatID),
		logger.StringField("delay", s.cfg.Scheduler.ArmDelay.String()),
	)
	s.fireAfter(s.cfg.Scheduler.ArmDelay)
	return true
}

// fireAfter waits out the delay and runs one evaluation. The timer is
// abandoned on shutdown; there is no persistence and no resumption.
func (s *schedulerService) fireAfter(delay time.Duration) {
	utils.GoSafe(func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-s.appCtx.Done():
			return
		case <-timer.C:
		}

		if _, err := s.evaluation.Evaluate(s.appCtx, s.demoSetup()); err != nil {
			s.log.ErrorContext(s.appCtx, "Evaluation failed", logger.ErrorField(err))
		}
	})
}

// demoSetup builds the fixed illustrative setup the timers evaluate. The
// bot carries no market data feed; attributes come from config.
func (s *schedulerService) demoSetup() signal.Setup {
	return signal.Setup{
		Structure:     signal.StructureBreak,
		OrderBlock:    true,
		FairValueGap:  true,
		RSI:           s.cfg.Signal.DemoRSI,
		Volume:        s.cfg.Signal.DemoVolume,
		AverageVolume: s.cfg.Signal.DemoAvgVolume,
	}
}

// RunWeekly blocks for the process lifetime, emitting the summary at every
// weekly target. The target is recomputed after each firing rather than
// derived from a fixed interval. A failed emission is logged and retried
// at the next target; it never terminates the loop.
func (s *schedulerService) RunWeekly(ctx context.Context) error {
	for {
		now := s.now().In(s.loc)
		next := NextWeeklyTarget(now, time.Weekday(s.cfg.Scheduler.SummaryWeekday), s.cfg.Scheduler.SummaryHour, s.cfg.Scheduler.SummaryMinute)

		s.log.Info("Next weekly summary scheduled",
			logger.StringField("at", next.Format(time.RFC3339)),
		)

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("Weekly summary loop stopped")
			return nil
		case <-timer.C:
		}

		if err := s.summary.Emit(ctx); err != nil {
			s.log.ErrorContextWithAlert(ctx, "Weekly summary emission failed, counters retained", logger.ErrorField(err))
		}
	}
}

// NextSummaryAt reports the upcoming weekly target for the /status surface.
func (s *schedulerService) NextSummaryAt() time.Time {
	return NextWeeklyTarget(s.now().In(s.loc), time.Weekday(s.cfg.Scheduler.SummaryWeekday), s.cfg.Scheduler.SummaryHour, s.cfg.Scheduler.SummaryMinute)
}
