package http

import (
	"net/http"

	"tradein-estimator/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupChat(base *echo.Group) {
	postOnly(base, "/chat", h.Chat)
}

func (h *HttpAPIHandler) Chat(c echo.Context) error {
	var req dto.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body"))
	}

	resp, err := h.service.ChatService.Reply(c.Request().Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
