package http

import (
	"fmt"
	"time"

	apperrors "resume-builder/internal/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderUserID    = "X-User-ID"

	localRequestID = "request_id"
	localUserID    = "user_id"
)

func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := uuid.New().String()
		c.Locals(localRequestID, id)
		c.Set(HeaderRequestID, id)
		return c.Next()
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}

// Logger logs every request once it has been answered. Errors from the chain
// are rendered here so the logged status is the one the client sees.
func Logger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.String("request_id", requestID(c)),
		}
		switch {
		case status >= 500:
			logger.Error("request failed with server error", fields...)
		case status >= 400:
			logger.Warn("request failed with client error", fields...)
		default:
			logger.Info("request completed", fields...)
		}
		return nil
	}
}

func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("request_id", requestID(c)),
					zap.String("path", c.Path()))
				err = apperrors.Internal("panic", fmt.Errorf("%v", r))
			}
		}()
		return c.Next()
	}
}

// RequireUser reads the caller identity set by the auth gateway.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(HeaderUserID)
		if raw == "" {
			return apperrors.Unauthorized("missing "+HeaderUserID+" header", nil)
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperrors.Unauthorized("invalid "+HeaderUserID+" header", err)
		}
		c.Locals(localUserID, id)
		return c.Next()
	}
}

func userID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(localUserID).(uuid.UUID)
	return id
}
