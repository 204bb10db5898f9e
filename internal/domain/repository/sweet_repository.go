package repository

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// SweetRepository define el puerto de persistencia para Sweet (DIP).
// Las lecturas por clave devuelven (nil, nil) cuando el registro no existe.
type SweetRepository interface {
	Create(ctx context.Context, sweet *entity.Sweet) error
	GetByID(ctx context.Context, id string) (*entity.Sweet, error)
	GetByName(ctx context.Context, name string) (*entity.Sweet, error)
	List(ctx context.Context) ([]*entity.Sweet, error)
	Search(ctx context.Context, filter entity.SweetFilter) ([]*entity.Sweet, error)
	// Update escribe solo los campos presentes en patch y devuelve el registro resultante.
	Update(ctx context.Context, id string, patch entity.SweetPatch) (*entity.Sweet, error)
	Delete(ctx context.Context, id string) (bool, error)
	// AdjustQuantity suma delta (negativo para compras) de forma atómica.
	// Devuelve domain.ErrInsufficientStock si el resultado fuera negativo; el registro queda intacto.
	AdjustQuantity(ctx context.Context, id string, delta int64) (*entity.Sweet, error)
}
