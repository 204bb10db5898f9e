package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/access"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// LocalPrincipal key en c.Locals para la identidad autenticada.
const LocalPrincipal = "principal"

// TokenValidator lo implementa *auth.AuthUseCase.
type TokenValidator interface {
	Validate(token string) (*entity.Principal, error)
}

// AuthMiddleware valida el Bearer Token JWT y guarda el Principal en c.Locals.
// Sin token → 401 "No token, authorization denied"; token inválido o expirado → 401 "Token is not valid".
func AuthMiddleware(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return respond(c, fiber.StatusUnauthorized, msgNoToken)
		}
		p, err := validator.Validate(token)
		if err != nil {
			return respond(c, fiber.StatusUnauthorized, msgInvalidToken)
		}
		c.Locals(LocalPrincipal, p)
		return c.Next()
	}
}

// bearerToken acepta "Bearer <token>" (sin distinguir mayúsculas) o el token solo.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	if strings.EqualFold(header, "Bearer") {
		return ""
	}
	return header
}

// RequireAccess autoriza op con la política de acceso. Debe usarse DESPUÉS de AuthMiddleware.
func RequireAccess(op access.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := access.Authorize(GetPrincipal(c), op)
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, domain.ErrUnauthorized) && GetPrincipal(c) == nil:
			return respond(c, fiber.StatusUnauthorized, msgNoToken)
		default:
			return writeError(c, err, msgServerError)
		}
	}
}

// GetPrincipal devuelve la identidad del contexto (nil si no pasó por AuthMiddleware).
func GetPrincipal(c *fiber.Ctx) *entity.Principal {
	p, _ := c.Locals(LocalPrincipal).(*entity.Principal)
	return p
}
