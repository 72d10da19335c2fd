package http

import (
	"context"
	"net/http"

	"github.com/bernardocerejo/sentinel-criptobot/internal/dto"
	"github.com/bernardocerejo/sentinel-criptobot/internal/repository"
	"github.com/bernardocerejo/sentinel-criptobot/internal/service"

	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	ctx     context.Context
	echo    *echo.Echo
	service *service.Service
	repo    *repository.Repository
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, service *service.Service, repo *repository.Repository) *HttpAPIHandler {
	return &HttpAPIHandler{
		ctx:     ctx,
		echo:    echo,
		service: service,
		repo:    repo,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.GET("/healthz", h.handleHealth)

	base := h.echo.Group("/api/v1")
	base.GET("/outcomes", h.handleOutcomes)
}

func (h *HttpAPIHandler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", nil))
}

func (h *HttpAPIHandler) handleOutcomes(c echo.Context) error {
	counters, err := h.repo.OutcomeRepo.Load(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, dto.NewBaseResponse(http.StatusServiceUnavailable, err.Error(), nil))
	}
	data := map[string]interface{}{
		"green":           counters.Green,
		"red":             counters.Red,
		"next_summary_at": h.service.SchedulerService.NextSummaryAt(),
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("ok", data))
}
