package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// Mensajes de respuesta; el frontend existente compara contra estos textos.
const (
	msgDuplicateName      = "Sweet with this name already exists"
	msgNotFound           = "Sweet not found"
	msgInvalidQuantity    = "Invalid quantity"
	msgInsufficientStock  = "Insufficient stock"
	msgDeleted            = "Sweet deleted"
	msgNoToken            = "No token, authorization denied"
	msgInvalidToken       = "Token is not valid"
	msgAdminRequired      = "Admin access required"
	msgAddError           = "Error adding sweet"
	msgUpdateError        = "Error updating sweet"
	msgSearchError        = "Invalid search parameters"
	msgRegisterError      = "Error registering user"
	msgUsernameTaken      = "Username already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgServerError        = "Server error"
)

// writeError traduce errores de dominio a status + cuerpo. validationMsg es el mensaje
// de la operación para errores de validación (el detalle va en "error").
// Lo que no es de dominio se devuelve tal cual para que lo registre el ErrorHandler global.
func writeError(c *fiber.Ctx, err error, validationMsg string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: validationMsg, Error: err.Error()})
	case errors.Is(err, domain.ErrDuplicateName):
		return respond(c, fiber.StatusBadRequest, msgDuplicateName)
	case errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, msgNotFound)
	case errors.Is(err, domain.ErrInvalidQuantity):
		return respond(c, fiber.StatusBadRequest, msgInvalidQuantity)
	case errors.Is(err, domain.ErrInsufficientStock):
		return respond(c, fiber.StatusBadRequest, msgInsufficientStock)
	case errors.Is(err, domain.ErrUsernameTaken):
		return respond(c, fiber.StatusBadRequest, msgUsernameTaken)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return respond(c, fiber.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, domain.ErrUnauthorized):
		return respond(c, fiber.StatusUnauthorized, msgInvalidToken)
	case errors.Is(err, domain.ErrForbidden):
		return respond(c, fiber.StatusForbidden, msgAdminRequired)
	default:
		return err
	}
}

func respond(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Message: message})
}

// NewErrorHandler ErrorHandler global de Fiber: los *fiber.Error conservan su status;
// el resto se registra y se responde 500 sin detalle interno.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return respond(c, fe.Code, fe.Message)
		}
		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", requestID(c)).
			Msg("error interno")
		return respond(c, fiber.StatusInternalServerError, msgServerError)
	}
}
