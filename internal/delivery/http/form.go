package http

import (
	"net/http"

	"tradein-estimator/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupForm(base *echo.Group) {
	form := base.Group("/form")
	{
		form.POST("/validate", h.ValidateForm)
	}
}

// ValidateForm checks one wizard step so the UI can gate the Next button.
func (h *HttpAPIHandler) ValidateForm(c echo.Context) error {
	var req dto.ValidateFormRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body"))
	}

	fieldErrs, err := dto.ValidateStep(h.validator, req.Step, req.FormData)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.ValidateFormResponse{
		Valid:  len(fieldErrs) == 0,
		Errors: fieldErrs,
	})
}
