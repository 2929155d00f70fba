package http

import (
	"fmt"
	"net/http"

	"tradein-estimator/internal/dto"
	"tradein-estimator/internal/service"
	"tradein-estimator/pkg/middleware"

	"github.com/labstack/echo/v4"
)

const csvContentType = "text/csv;charset=utf-8;"

func (h *HttpAPIHandler) SetupEstimateLog(base *echo.Group) {
	base.GET("/estimate-log", h.DownloadEstimateLog)
}

// DownloadEstimateLog returns the session's log as a CSV attachment.
func (h *HttpAPIHandler) DownloadEstimateLog(c echo.Context) error {
	audience := audienceParam(c)
	log := h.service.EstimateLogService.Get(middleware.SessionID(c), audience)
	if log == "" {
		return c.JSON(http.StatusNotFound, dto.NewErrorResponse("No estimates have been generated yet."))
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", service.EstimateLogFilename(audience)))
	return c.Blob(http.StatusOK, csvContentType, []byte(log))
}
