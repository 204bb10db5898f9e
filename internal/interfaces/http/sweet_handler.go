package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
)

// SweetHandler maneja las peticiones HTTP del inventario (protegido).
type SweetHandler struct {
	uc     *usecase.SweetUseCase
	report *usecase.ReportUseCase
}

// NewSweetHandler construye el handler.
func NewSweetHandler(uc *usecase.SweetUseCase, report *usecase.ReportUseCase) *SweetHandler {
	return &SweetHandler{uc: uc, report: report}
}

// Create godoc
// @Summary      Agregar dulce
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSweetRequest  true  "name, category, price, quantity"
// @Success      201   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: msgAddError, Error: err.Error()})
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err, msgAddError)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar dulces
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.SweetResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err, msgServerError)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar dulces
// @Description  Filtros opcionales y conjuntivos. name y category: subcadena sin distinguir mayúsculas. Rango de precio inclusivo.
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        name      query  string  false  "Subcadena del nombre"
// @Param        category  query  string  false  "Subcadena de la categoría"
// @Param        minPrice  query  number  false  "Precio mínimo"
// @Param        maxPrice  query  number  false  "Precio máximo"
// @Success      200  {array}   dto.SweetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sweets/search [get]
func (h *SweetHandler) Search(c *fiber.Ctx) error {
	q := dto.SearchSweetsQuery{
		Name:     c.Query("name"),
		Category: c.Query("category"),
		MinPrice: c.Query("minPrice"),
		MaxPrice: c.Query("maxPrice"),
	}
	out, err := h.uc.Search(c.UserContext(), q)
	if err != nil {
		return writeError(c, err, msgSearchError)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar dulce
// @Description  Actualización parcial: los campos ausentes conservan su valor.
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del dulce"
// @Param        body  body  dto.UpdateSweetRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [put]
func (h *SweetHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Message: msgUpdateError, Error: err.Error()})
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err, msgUpdateError)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar dulce (admin)
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del dulce"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [delete]
func (h *SweetHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err, msgServerError)
	}
	return c.JSON(dto.MessageResponse{Message: msgDeleted})
}

// Purchase godoc
// @Summary      Comprar dulce
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID del dulce"
// @Param        body  body  dto.StockRequest  true  "quantity > 0"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c *fiber.Ctx) error {
	var in dto.StockRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, msgInvalidQuantity)
	}
	out, err := h.uc.Purchase(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err, msgInvalidQuantity)
	}
	return c.JSON(out)
}

// Restock godoc
// @Summary      Reponer stock (admin)
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID del dulce"
// @Param        body  body  dto.StockRequest  true  "quantity > 0"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c *fiber.Ctx) error {
	var in dto.StockRequest
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, msgInvalidQuantity)
	}
	out, err := h.uc.Restock(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err, msgInvalidQuantity)
	}
	return c.JSON(out)
}

// StockReport godoc
// @Summary      Reporte de stock en PDF (admin)
// @Tags         sweets
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/sweets/report [get]
func (h *SweetHandler) StockReport(c *fiber.Ctx) error {
	doc, err := h.report.StockReport(c.UserContext())
	if err != nil {
		return writeError(c, err, msgServerError)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-report.pdf"`)
	return c.Send(doc)
}
