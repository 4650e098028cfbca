package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"university/backend/metrics"
)

func LoggingMiddleware(logger *log.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		latency := time.Since(start)

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		if m != nil {
			m.ObserveRequest(c.Method(), route, status, latency)
		}

		keyvals := []interface{}{
			"ip", c.IP(),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", latency,
		}
		switch {
		case status >= 500:
			logger.Error("request", append(keyvals, "err", err)...)
		case status >= 400:
			logger.Warn("request", keyvals...)
		default:
			logger.Info("request", keyvals...)
		}

		return err
	}
}
