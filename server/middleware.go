package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/hupe1980/folio/chat"
	"github.com/hupe1980/folio/core"
	"github.com/hupe1980/folio/logging"
	"github.com/labstack/echo/v5"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// requestID assigns a correlation id unless the caller supplied one.
func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" {
				id = core.NewID()
				c.Request().Header.Set(RequestIDHeader, id)
			}
			c.Response().Header().Set(RequestIDHeader, id)
			return next(c)
		}
	}
}

// requestLogger logs one line per request with its duration.
func requestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			args := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"request_id", req.Header.Get(RequestIDHeader),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				args = append(args, "error", err.Error())
				logger.Warn("http.request.failed", args...)
				return err
			}
			logger.Info("http.request.completed", args...)
			return nil
		}
	}
}

// recoverPanics turns handler panics into a plain-text 500 response.
func recoverPanics(logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("http.handler.panic",
						"path", c.Request().URL.Path,
						"recover", fmt.Sprint(r),
						"stack", string(debug.Stack()),
					)
					err = c.String(http.StatusInternalServerError, chat.ErrorMessage(r))
				}
			}()
			return next(c)
		}
	}
}
