package service

import (
	"context"
	"time"

	"github.com/bernardocerejo/sentinel-criptobot/config"
	"github.com/bernardocerejo/sentinel-criptobot/internal/repository"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/cache"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/chart"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/logger"
)

// Gateway is the delivery side of the bot as the services consume it.
type Gateway interface {
	SendMessage(ctx context.Context, text string, opts ...interface{}) error
	SendPhoto(ctx context.Context, png []byte, caption string) error
}

// ChartRenderFunc turns the formatted signal series into PNG bytes.
type ChartRenderFunc func(title string, series []float64, thresholds []chart.Threshold) ([]byte, error)

type Service struct {
	EvaluationService EvaluationService
	SummaryService    SummaryService
	SchedulerService  SchedulerService
}

func NewService(
	ctx context.Context,
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
	gateway Gateway,
	loc *time.Location,
) *Service {
	evaluationService := NewEvaluationService(cfg, log, gateway, chart.Render, repo.OutcomeRepo, repo.SignalRepo)
	summaryService := NewSummaryService(cfg, log, gateway, repo.OutcomeRepo, time.Now)
	schedulerService := NewSchedulerService(ctx, cfg, log, evaluationService, summaryService, inmemoryCache, loc, time.Now)

	return &Service{
		EvaluationService: evaluationService,
		SummaryService:    summaryService,
		SchedulerService:  schedulerService,
	}
}
