package http

import (
	"errors"
	"net/http"

	"tradein-estimator/internal/dto"
	"tradein-estimator/internal/model"
	"tradein-estimator/internal/repository"
	"tradein-estimator/internal/service"
	"tradein-estimator/pkg/logger"
	"tradein-estimator/pkg/metrics"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo           *echo.Echo
	log            *logger.Logger
	validator      *goValidator.Validate
	service        *service.Service
	historicalRepo repository.HistoricalRepository
	metrics        *metrics.Manager
}

func NewHttpAPIHandler(
	echo *echo.Echo,
	log *logger.Logger,
	validator *goValidator.Validate,
	service *service.Service,
	historicalRepo repository.HistoricalRepository,
	m *metrics.Manager,
) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:           echo,
		log:            log,
		validator:      validator,
		service:        service,
		historicalRepo: historicalRepo,
		metrics:        m,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	h.echo.HTTPErrorHandler = h.HandleError
	h.SetupHealth(h.echo)

	base := h.echo.Group("/api")
	h.SetupEstimate(base)
	h.SetupChat(base)
	h.SetupForm(base)
	h.SetupEstimateLog(base)
	h.SetupAppraisal(base)
}

// nonPostMethods are answered with 405 on POST-only routes.
var nonPostMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

func postOnly(base *echo.Group, path string, handler echo.HandlerFunc) {
	base.POST(path, handler)
	base.Match(nonPostMethods, path, methodNotAllowed)
}

func methodNotAllowed(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
	return c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse("Method "+c.Request().Method+" Not Allowed"))
}

// errorResponse maps service errors: validation is the caller's fault,
// everything else is ours or upstream's.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	if errors.Is(err, model.ErrValidation) {
		status = http.StatusBadRequest
	}
	return c.JSON(status, dto.NewErrorResponse(err.Error()))
}

// HandleError renders router and middleware errors in the API error shape.
func (h *HttpAPIHandler) HandleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}
	if status >= http.StatusInternalServerError {
		h.log.ErrorContext(c.Request().Context(), "Unhandled HTTP error", logger.ErrorField(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, dto.NewErrorResponse(message))
	}
	if err != nil {
		h.log.Error("Failed to write error response", logger.ErrorField(err))
	}
}
