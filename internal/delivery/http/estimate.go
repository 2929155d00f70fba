package http

import (
	"net/http"
	"strings"

	"tradein-estimator/internal/dto"
	"tradein-estimator/internal/model"
	"tradein-estimator/pkg/middleware"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupEstimate(base *echo.Group) {
	postOnly(base, "/estimate", h.Estimate)
}

// Estimate values the posted boat. ?audience=internal files the row in the
// staff log instead of the customer log.
func (h *HttpAPIHandler) Estimate(c echo.Context) error {
	var req dto.EstimateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body"))
	}

	estimate, err := h.service.EstimateService.Estimate(
		c.Request().Context(),
		middleware.SessionID(c),
		audienceParam(c),
		req,
	)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, estimate)
}

func audienceParam(c echo.Context) model.Audience {
	if strings.EqualFold(c.QueryParam("audience"), string(model.AudienceInternal)) {
		return model.AudienceInternal
	}
	return model.AudienceCustomer
}
