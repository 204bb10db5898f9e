package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// price viaja como número JSON; los clientes existentes no aceptan string.
	decimal.MarshalJSONWithoutQuotes = true
}

// CreateSweetRequest entrada para crear un dulce. Todos los campos son obligatorios.
type CreateSweetRequest struct {
	Name     string           `json:"name" validate:"required"`
	Category string           `json:"category" validate:"required"`
	Price    *decimal.Decimal `json:"price" validate:"required,min=0"`
	Quantity *decimal.Decimal `json:"quantity" validate:"required,min=0"`
}

// UpdateSweetRequest entrada para actualizar un dulce. Los campos ausentes conservan su valor.
type UpdateSweetRequest struct {
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *decimal.Decimal `json:"quantity"`
}

// StockRequest cuerpo de compra y reposición.
type StockRequest struct {
	Quantity *decimal.Decimal `json:"quantity" validate:"required,gt=0"`
}

// SearchSweetsQuery parámetros de /api/sweets/search. Vacío = sin filtro.
type SearchSweetsQuery struct {
	Name     string `query:"name"`
	Category string `query:"category"`
	MinPrice string `query:"minPrice"`
	MaxPrice string `query:"maxPrice"`
}

// SweetResponse salida de un dulce. El id viaja como _id, que es lo que esperan los clientes.
type SweetResponse struct {
	ID       string          `json:"_id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

// StockReportLine fila del reporte de stock.
type StockReportLine struct {
	Name       string
	Category   string
	Price      decimal.Decimal
	Quantity   int64
	StockValue decimal.Decimal
	LowStock   bool
}

// StockReport agregado de inventario para el PDF.
type StockReport struct {
	Lines             []StockReportLine
	TotalItems        int
	TotalUnits        int64
	TotalValue        decimal.Decimal
	LowStockCount     int
	LowStockThreshold int64
	GeneratedAt       time.Time
}
