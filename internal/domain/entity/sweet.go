package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sweet representa un artículo del inventario de la dulcería.
// Name es único (comparación exacta); Quantity nunca es negativa.
type Sweet struct {
	ID        string
	Name      string
	Category  string
	Price     decimal.Decimal
	Quantity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone devuelve una copia independiente (los adaptadores en memoria no comparten punteros).
func (s *Sweet) Clone() *Sweet {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// SweetFilter criterios opcionales de búsqueda; se combinan con AND.
// Name y Category: subcadena sin distinguir mayúsculas. MinPrice/MaxPrice: cotas inclusivas.
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Matches evalúa el filtro en memoria. contains debe implementar la comparación sin mayúsculas.
func (f SweetFilter) Matches(s *Sweet, contains func(haystack, needle string) bool) bool {
	if f.Name != "" && !contains(s.Name, f.Name) {
		return false
	}
	if f.Category != "" && !contains(s.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && s.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && s.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// SweetPatch actualización parcial: solo se escriben los campos no nil.
type SweetPatch struct {
	Name     *string
	Category *string
	Price    *decimal.Decimal
	Quantity *int64
}

// IsEmpty indica que no hay campos a escribir.
func (p SweetPatch) IsEmpty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil && p.Quantity == nil
}

// Apply escribe los campos presentes sobre s.
func (p SweetPatch) Apply(s *Sweet) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Category != nil {
		s.Category = *p.Category
	}
	if p.Price != nil {
		s.Price = *p.Price
	}
	if p.Quantity != nil {
		s.Quantity = *p.Quantity
	}
}
