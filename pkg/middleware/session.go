package middleware

import (
	"strings"

	"tradein-estimator/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	HeaderSessionID = "X-Session-ID"
	sessionKey      = "session_id"
	maxSessionIDLen = 128
)

// Session attaches a session id to every request, reusing the client supplied
// X-Session-ID header or minting a new one. The id is echoed on the response
// and the request context carries a logger tagged with it.
func Session(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := strings.TrimSpace(c.Request().Header.Get(HeaderSessionID))
			if id == "" || len(id) > maxSessionIDLen {
				id = uuid.NewString()
			}
			c.Set(sessionKey, id)
			c.Response().Header().Set(HeaderSessionID, id)

			scoped := log.With(logger.SessionField(id))
			if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
				scoped = scoped.With(logger.StringField("request_id", rid))
			}
			req := c.Request()
			c.SetRequest(req.WithContext(logger.NewContext(req.Context(), scoped)))
			return next(c)
		}
	}
}

// SessionID returns the id stored by Session, or "" outside of it.
func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionKey).(string)
	return id
}
