package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bernardocerejo/sentinel-criptobot/config"
	"github.com/bernardocerejo/sentinel-criptobot/internal/model"
	"github.com/bernardocerejo/sentinel-criptobot/internal/repository"
	"github.com/bernardocerejo/sentinel-criptobot/internal/signal"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/chart"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/logger"

	"gopkg.in/telebot.v3"
)

// EvaluationService runs one full signal evaluation: score the setup,
// branch on the threshold, deliver or reject, record the outcome.
type EvaluationService interface {
	Evaluate(ctx context.Context, setup signal.Setup) (delivered bool, err error)
}

type evaluationService struct {
	cfg         *config.Config
	log         *logger.Logger
	gateway     Gateway
	renderChart ChartRenderFunc
	outcomeRepo repository.OutcomeRepository
	signalRepo  repository.SignalRepository
	now         func() time.Time
}

func NewEvaluationService(
	cfg *config.Config,
	log *logger.Logger,
	gateway Gateway,
	renderChart ChartRenderFunc,
	outcomeRepo repository.OutcomeRepository,
	signalRepo repository.SignalRepository,
) EvaluationService {
	return &evaluationService{
		cfg:         cfg,
		log:         log,
		gateway:     gateway,
		renderChart: renderChart,
		outcomeRepo: outcomeRepo,
		signalRepo:  signalRepo,
		now:         time.Now,
	}
}

// Evaluate scores the setup and, if it clears the configured minimum,
// delivers the formatted signal and records green. A rejected setup
// records red with no delivery. Malformed levels record nothing.
//
// Green is recorded only after the message send succeeds, so a crash in
// the gap between send and increment under-counts at most one delivered
// signal.
func (s *evaluationService) Evaluate(ctx context.Context, setup signal.Setup) (bool, error) {
	score := signal.Score(setup)

	if score < s.cfg.Signal.MinScore {
		s.log.InfoContext(ctx, "Setup rejeitado",
			logger.IntField("score", score),
			logger.IntField("min_score", s.cfg.Signal.MinScore),
		)
		if err := s.outcomeRepo.Increment(ctx, model.OutcomeRed); err != nil {
			s.log.ErrorContextWithAlert(ctx, "Failed to record red outcome", logger.ErrorField(err))
			return false, err
		}
		return false, nil
	}

	sig := signal.Signal{
		Asset:       s.cfg.Signal.Asset,
		Entry:       s.cfg.Signal.Entry,
		TakeProfits: s.cfg.Signal.TakeProfits,
		StopLoss:    s.cfg.Signal.StopLoss,
		Score:       score,
		At:          s.now(),
	}
	rendered, err := signal.Format(sig)
	if err != nil {
		// Bad price levels are not a low-scoring setup: skip the
		// evaluation entirely, counters untouched.
		s.log.ErrorContext(ctx, "Invalid signal data, evaluation skipped", logger.ErrorField(err))
		return false, err
	}

	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("📈 Ver análise", "view_analysis", sig.Asset)))
	sendOpts := &telebot.SendOptions{ParseMode: telebot.ModeHTML, ReplyMarkup: markup}

	if err := s.gateway.SendMessage(ctx, rendered.Message, sendOpts); err != nil {
		s.log.ErrorContextWithAlert(ctx, "Failed to deliver signal message",
			logger.ErrorField(err),
			logger.StringField("asset", sig.Asset),
		)
		return false, err
	}

	s.sendChart(ctx, sig, rendered)

	if err := s.outcomeRepo.Increment(ctx, model.OutcomeGreen); err != nil {
		s.log.ErrorContextWithAlert(ctx, "Signal delivered but green outcome not recorded", logger.ErrorField(err))
		return true, err
	}

	if err := s.saveRecord(ctx, sig); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist signal record", logger.ErrorField(err))
	}

	s.log.InfoContext(ctx, "Signal delivered",
		logger.StringField("asset", sig.Asset),
		logger.IntField("score", score),
	)
	return true, nil
}

// sendChart renders and ships the chart photo. The message is already out,
// so chart problems are logged and do not fail the evaluation.
func (s *evaluationService) sendChart(ctx context.Context, sig signal.Signal, rendered signal.Rendered) {
	thresholds := make([]chart.Threshold, 0, len(rendered.TakeProfits)+1)
	for i, tp := range rendered.TakeProfits {
		thresholds = append(thresholds, chart.Threshold{
			Label:  fmt.Sprintf("TP%d", i+1),
			Value:  tp,
			Profit: true,
		})
	}
	thresholds = append(thresholds, chart.Threshold{Label: "SL", Value: rendered.StopLoss})

	png, err := s.renderChart(fmt.Sprintf("%s Setup", sig.Asset), rendered.Points, thresholds)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to render chart", logger.ErrorField(err))
		return
	}

	if err := s.gateway.SendPhoto(ctx, png, sig.Asset); err != nil {
		s.log.ErrorContextWithAlert(ctx, "Failed to deliver chart photo", logger.ErrorField(err))
	}
}

func (s *evaluationService) saveRecord(ctx context.Context, sig signal.Signal) error {
	tps, err := json.Marshal(sig.TakeProfits)
	if err != nil {
		return err
	}
	return s.signalRepo.Save(ctx, &model.SignalRecord{
		Asset:       sig.Asset,
		Entry:       sig.Entry,
		TakeProfits: tps,
		StopLoss:    sig.StopLoss,
		Score:       sig.Score,
		SentAt:      sig.At,
	})
}
