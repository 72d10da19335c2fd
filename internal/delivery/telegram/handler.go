package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bernardocerejo/sentinel-criptobot/internal/dto"
	"github.com/bernardocerejo/sentinel-criptobot/internal/model"
	"github.com/bernardocerejo/sentinel-criptobot/pkg/logger"

	"github.com/labstack/echo/v4"
	"gopkg.in/telebot.v3"
)

const usageSinal = `⚠️ Uso: /sinal <green|red>

Registra manualmente o resultado de um sinal.
Exemplo: /sinal green`

func (t *TelegramBotHandler) WithContext(handler func(ctx context.Context, c telebot.Context) error) func(c telebot.Context) error {
	return func(c telebot.Context) error {
		ctx, cancel := context.WithTimeout(t.ctx, 5*time.Minute)
		defer cancel()

		return handler(ctx, c)
	}
}

func (t *TelegramBotHandler) RegisterHandlers() {
	t.echo.POST("/api/v1/telegram/webhook", func(c echo.Context) error {
		var update telebot.Update
		if err := c.Bind(&update); err != nil {
			t.log.ErrorContext(t.ctx, "Cannot bind JSON", logger.ErrorField(err))
			badRequest := dto.NewBadRequestResponse(err.Error())
			return c.JSON(http.StatusBadRequest, badRequest)
		}
		t.bot.ProcessUpdate(update)
		return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
	})

	t.bot.Handle("/start", t.WithContext(t.handleStart))
	t.bot.Handle("/sinal", t.WithContext(t.handleSinal))
	t.bot.Handle("/help", t.WithContext(t.handleHelp))
	t.bot.Handle("/status", t.WithContext(t.handleStatus))
	t.bot.Handle(telebot.OnText, t.WithContext(t.handleTextMessage))
}

func (t *TelegramBotHandler) handleStart(ctx context.Context, c telebot.Context) error {
	armed := t.service.SchedulerService.Arm(ctx, c.Chat().ID)

	message := "🤖 SentinelCriptoBot está ativo e pronto!"
	if armed {
		message += fmt.Sprintf("\n⏱ Próxima avaliação de setup em %s.", t.cfg.Scheduler.ArmDelay)
	}
	return t.sender.Reply(ctx, c, message)
}

// handleSinal registers a manual outcome. Anything other than exactly one
// green/red argument is rejected before the store is touched.
func (t *TelegramBotHandler) handleSinal(ctx context.Context, c telebot.Context) error {
	kind, err := ParseOutcomeKind(c.Args())
	if err != nil {
		return t.sender.Reply(ctx, c, usageSinal)
	}

	if err := t.repo.OutcomeRepo.Increment(ctx, kind); err != nil {
		t.log.ErrorContextWithAlert(ctx, "Failed to register manual outcome", logger.ErrorField(err))
		return t.sender.Reply(ctx, c, "❌ Não foi possível registrar o resultado, tente novamente.")
	}

	icon := "🟢"
	if kind == model.OutcomeRed {
		icon = "🔴"
	}
	return t.sender.Reply(ctx, c, fmt.Sprintf("%s Resultado registrado: %s", icon, kind))
}

func (t *TelegramBotHandler) handleHelp(ctx context.Context, c telebot.Context) error {
	message := `❓ *SentinelCriptoBot — Comandos*

/start - Ativa o bot e agenda uma avaliação de setup
/sinal <green|red> - Registra manualmente o resultado de um sinal
/status - Mostra os contadores atuais e o próximo resumo semanal
/help - Mostra esta mensagem

📌 O resumo semanal é enviado automaticamente para o canal.`
	return t.sender.Reply(ctx, c, message, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
}

func (t *TelegramBotHandler) handleStatus(ctx context.Context, c telebot.Context) error {
	counters, err := t.repo.OutcomeRepo.Load(ctx)
	if err != nil {
		t.log.ErrorContextWithAlert(ctx, "Failed to load counters for status", logger.ErrorField(err))
		return t.sender.Reply(ctx, c, "❌ Não foi possível carregar os contadores.")
	}

	recent, err := t.repo.SignalRepo.Latest(ctx, t.cfg.Signal.HistoryLimit)
	if err != nil {
		t.log.ErrorContext(ctx, "Failed to load signal history", logger.ErrorField(err))
	}

	sb := &strings.Builder{}
	sb.WriteString("📊 <b>Status</b>\n\n")
	sb.WriteString(fmt.Sprintf("🟢 Greens: <b>%d</b>\n", counters.Green))
	sb.WriteString(fmt.Sprintf("🔴 Reds: <b>%d</b>\n", counters.Red))
	sb.WriteString(fmt.Sprintf("🗓 Próximo resumo: %s\n", t.service.SchedulerService.NextSummaryAt().Format("02/01/2006 15:04")))

	if len(recent) > 0 {
		sb.WriteString("\n🔎 Últimos sinais enviados:\n")
		for _, rec := range recent {
			sb.WriteString(fmt.Sprintf("• %s — score %d/5 — %s\n", rec.Asset, rec.Score, rec.SentAt.Format("02/01 15:04")))
		}
	}

	return t.sender.Reply(ctx, c, sb.String(), &telebot.SendOptions{ParseMode: telebot.ModeHTML})
}

func (t *TelegramBotHandler) handleTextMessage(ctx context.Context, c telebot.Context) error {
	if !strings.HasPrefix(c.Text(), "/") {
		return t.sender.Reply(ctx, c, "Não reconheci o comando. Use /help para ver a lista de comandos.")
	}
	return nil
}
