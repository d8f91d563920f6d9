package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/oklog/ulid/v2"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/pkg/logger"
)

// errorMapping status y código por error de dominio. El orden importa: los tipados primero.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidOTP, fiber.StatusBadRequest, "INVALID_OTP"},
	{domain.ErrAccessDenied, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrQuotaExceeded, fiber.StatusConflict, "QUOTA_EXCEEDED"},
	{domain.ErrDuplicateName, fiber.StatusConflict, "DUPLICATE_NAME"},
	{domain.ErrSpaceNotEmpty, fiber.StatusConflict, "SPACE_NOT_EMPTY"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrEmailNotVerified, fiber.StatusForbidden, "EMAIL_NOT_VERIFIED"},
	{domain.ErrRateLimited, fiber.StatusTooManyRequests, "RATE_LIMITED"},
}

// statusFor status HTTP y código para err. ok=false si no es un error de dominio conocido.
func statusFor(err error) (status int, code string, ok bool) {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return m.status, m.code, true
		}
	}
	return 0, "", false
}

// writeError responde con el error de dominio correspondiente.
// Los errores no clasificados responden 500 con una referencia ULID que también queda en el log.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	if status, code, ok := statusFor(err); ok {
		message := err.Error()
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			message = ve.Field + ": " + ve.Message
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message})
	}

	ref := ulid.Make().String()
	log.Error().Err(err).
		Str("reference", ref).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:      "INTERNAL",
		Message:   "error interno del servidor",
		Reference: ref,
	})
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "INVALID_BODY"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	default:
		return "ERROR"
	}
}

// ErrorHandler handler de errores de Fiber para errores que escapan de los handlers.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, log, err)
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
