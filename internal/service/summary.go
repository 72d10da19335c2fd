package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bernardocerejo/sentinel-criptobot/config"
	"github.com/bernardocerejo/sentinel-criptobot/internal/repository"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/logger"

	"gopkg.in/telebot.v3"
)

// SummaryService emits the weekly green/red report and closes the period.
type SummaryService interface {
	Emit(ctx context.Context) error
}

type summaryService struct {
	cfg         *config.Config
	log         *logger.Logger
	gateway     Gateway
	outcomeRepo repository.OutcomeRepository
	now         func() time.Time
}

func NewSummaryService(
	cfg *config.Config,
	log *logger.Logger,
	gateway Gateway,
	outcomeRepo repository.OutcomeRepository,
	now func() time.Time,
) SummaryService {
	return &summaryService{
		cfg:         cfg,
		log:         log,
		gateway:     gateway,
		outcomeRepo: outcomeRepo,
		now:         now,
	}
}

// Emit loads the counters, sends the summary and only then resets. On a
// failed send the counters are retained, so the next attempt reports the
// carried-over period instead of silently dropping it.
func (s *summaryService) Emit(ctx context.Context) error {
	counters, err := s.outcomeRepo.Load(ctx)
	if err != nil {
		return err
	}

	sb := &strings.Builder{}
	sb.WriteString("📊 <b>Resumo Semanal</b>\n\n")
	sb.WriteString(fmt.Sprintf("🟢 Greens: <b>%d</b>\n", counters.Green))
	sb.WriteString(fmt.Sprintf("🔴 Reds: <b>%d</b>\n", counters.Red))
	total := counters.Green + counters.Red
	if total > 0 {
		sb.WriteString(fmt.Sprintf("🏆 Taxa de acerto: <b>%.1f%%</b>\n", float64(counters.Green)/float64(total)*100))
	}
	sb.WriteString(fmt.Sprintf("\n🏁 Período encerrado em %s", s.now().Format("02/01/2006 15:04")))

	if err := s.gateway.SendMessage(ctx, sb.String(), &telebot.SendOptions{ParseMode: telebot.ModeHTML}); err != nil {
		return fmt.Errorf("send weekly summary: %w", err)
	}

	if err := s.outcomeRepo.Reset(ctx); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Weekly summary emitted",
		logger.Int64Field("green", counters.Green),
		logger.Int64Field("red", counters.Red),
	)
	return nil
}
