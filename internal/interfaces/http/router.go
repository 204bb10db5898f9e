package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/access"
	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SweetUC  *usecase.SweetUseCase
	ReportUC *usecase.ReportUseCase
	AuthUC   *auth.AuthUseCase
	// AuthLimiter opcional: rate limit de /api/auth (nil = sin límite).
	AuthLimiter fiber.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Sweet Shop Backend API")
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	if deps.AuthLimiter != nil {
		authGroup.Use(deps.AuthLimiter)
	}
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Sweets (protegido; la política de acceso decide por operación)
	sweets := api.Group("/sweets", AuthMiddleware(deps.AuthUC))
	h := NewSweetHandler(deps.SweetUC, deps.ReportUC)
	sweets.Post("/", RequireAccess(access.OpCreate), h.Create)
	sweets.Get("/", RequireAccess(access.OpList), h.List)
	sweets.Get("/search", RequireAccess(access.OpSearch), h.Search)
	sweets.Get("/report", RequireAccess(access.OpStockReport), h.StockReport)
	sweets.Put("/:id", RequireAccess(access.OpUpdate), h.Update)
	sweets.Delete("/:id", RequireAccess(access.OpDelete), h.Delete)
	sweets.Post("/:id/purchase", RequireAccess(access.OpPurchase), h.Purchase)
	sweets.Post("/:id/restock", RequireAccess(access.OpRestock), h.Restock)
}
