package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

// limiter contrato mínimo del rate limiter; lo implementa cache.RateLimiter.
type limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// requestObserver registra métricas por petición; lo implementa metrics.Prometheus.
type requestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RateLimit limita las peticiones por IP y prefijo. Si el limiter falla se deja pasar la petición.
func RateLimit(prefix string, l limiter, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l == nil {
			return c.Next()
		}
		key := prefix + ":" + RequestMeta(c).IPAddress
		allowed, err := l.Allow(c.UserContext(), key)
		if err != nil {
			log.Warn().Err(err).Str("key_prefix", prefix).Msg("rate limiter no disponible, se permite la petición")
			return c.Next()
		}
		if !allowed {
			c.Set(fiber.HeaderRetryAfter, "60")
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code:    "RATE_LIMITED",
				Message: "demasiadas solicitudes, intente más tarde",
			})
		}
		return c.Next()
	}
}

// RequestLogger registra cada petición con zerolog y alimenta las métricas HTTP.
func RequestLogger(log *logger.Logger, obs requestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// el ErrorHandler de Fiber aún no corrió; se escribe aquí para conocer el status
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()

		if obs != nil {
			obs.ObserveRequest(c.Method(), c.Route().Path, status, elapsed)
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		requestID, _ := c.Locals("requestid").(string)
		ev.Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", elapsed).
			Str("ip", RequestMeta(c).IPAddress).
			Msg("petición HTTP")
		return nil
	}
}
