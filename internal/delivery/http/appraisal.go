package http

import (
	"net/http"

	"tradein-estimator/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupAppraisal(base *echo.Group) {
	postOnly(base, "/appraisal", h.RequestAppraisal)
}

func (h *HttpAPIHandler) RequestAppraisal(c echo.Context) error {
	var req dto.AppraisalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body"))
	}

	if err := h.service.AppraisalService.RequestAppraisal(c.Request().Context(), req); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusAccepted, dto.StatusResponse{
		Status:  "accepted",
		Message: "A Legend Boats representative will contact you to book your appraisal.",
	})
}
