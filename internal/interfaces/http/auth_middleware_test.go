package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sweetshop-api/internal/application/access"
	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	apphttp "github.com/jhoicas/sweetshop-api/internal/interfaces/http"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
	pkgjwt "github.com/jhoicas/sweetshop-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "sweetshop-test"
	testExpMin    = 60
)

func newAuthUC() *auth.AuthUseCase {
	return auth.NewAuthUseCase(memory.NewUserRepository(),
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer},
		auth.WithHashCost(bcrypt.MinCost))
}

// buildProtectedApp app mínima: AuthMiddleware + RequireAccess(op) + handler dummy.
func buildProtectedApp(op access.Operation) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(logger.Nop())})
	app.Get("/protected",
		apphttp.AuthMiddleware(newAuthUC()),
		apphttp.RequireAccess(op),
		func(c *fiber.Ctx) error {
			p := apphttp.GetPrincipal(c)
			return c.JSON(fiber.Map{"ok": true, "user_id": p.UserID, "role": p.Role.String()})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza la petición y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, method, path, authHeader, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeBody decodifica el JSON de la respuesta en un mapa.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinToken_Retorna401(t *testing.T) {
	app := buildProtectedApp(access.OpList)
	for _, header := range []string{"", "Bearer", "Bearer   "} {
		resp := doRequest(t, app, http.MethodGet, "/protected", header, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "No token, authorization denied", decodeBody(t, resp)["message"])
	}
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildProtectedApp(access.OpList)
	resp := doRequest(t, app, http.MethodGet, "/protected", "Bearer token.invalido.aqui", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token is not valid", decodeBody(t, resp)["message"])
}

func TestAuthMiddleware_TokenExpirado_Retorna401(t *testing.T) {
	app := buildProtectedApp(access.OpList)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "user", testIssuer, -1)
	require.NoError(t, err)
	resp := doRequest(t, app, http.MethodGet, "/protected", "Bearer "+tok, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Token is not valid", decodeBody(t, resp)["message"])
}

func TestAuthMiddleware_RolDesconocido_Retorna401(t *testing.T) {
	app := buildProtectedApp(access.OpList)
	resp := doRequest(t, app, http.MethodGet, "/protected", tokenForRole(t, "bodeguero"), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := buildProtectedApp(access.OpList)
	resp := doRequest(t, app, http.MethodGet, "/protected", tokenForRole(t, "admin"), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "admin", body["role"])
}

func TestAuthMiddleware_TokenSinPrefijoBearer(t *testing.T) {
	app := buildProtectedApp(access.OpList)
	raw := strings.TrimPrefix(tokenForRole(t, "user"), "Bearer ")
	resp := doRequest(t, app, http.MethodGet, "/protected", raw, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireAccess
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAccess_AdminAccedeOperacionAdmin(t *testing.T) {
	for _, op := range []access.Operation{access.OpDelete, access.OpRestock, access.OpStockReport} {
		resp := doRequest(t, buildProtectedApp(op), http.MethodGet, "/protected", tokenForRole(t, "admin"), "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, op.String())
	}
}

func TestRequireAccess_UserBloqueadoEnOperacionAdmin(t *testing.T) {
	for _, op := range []access.Operation{access.OpDelete, access.OpRestock, access.OpStockReport} {
		resp := doRequest(t, buildProtectedApp(op), http.MethodGet, "/protected", tokenForRole(t, "user"), "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, op.String())
		assert.Equal(t, "Admin access required", decodeBody(t, resp)["message"])
	}
}

func TestRequireAccess_UserAccedeOperacionAutenticada(t *testing.T) {
	for _, op := range []access.Operation{access.OpCreate, access.OpList, access.OpSearch, access.OpUpdate, access.OpPurchase} {
		resp := doRequest(t, buildProtectedApp(op), http.MethodGet, "/protected", tokenForRole(t, "user"), "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, op.String())
	}
}

func TestRequireAccess_SinAuthMiddleware_Retorna401(t *testing.T) {
	app := fiber.New()
	app.Get("/x", apphttp.RequireAccess(access.OpList), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	resp := doRequest(t, app, http.MethodGet, "/x", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token, authorization denied", decodeBody(t, resp)["message"])
}

// Usuario real: registro + validación por el servicio de identidad.
func TestAuthMiddleware_TokenEmitidoPorRegistro(t *testing.T) {
	uc := newAuthUC()
	out, err := uc.Register(context.Background(), dto.RegisterRequest{Username: "ana", Password: "secreta"})
	require.NoError(t, err)

	p, err := uc.Validate(out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, p.Role)
}
