package http

import (
	"net/http"

	"tradein-estimator/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupHealth(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
}

func (h *HttpAPIHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.HealthResponse{
		Status:            "ok",
		HistoricalRecords: len(h.historicalRepo.Records()),
	})
}
