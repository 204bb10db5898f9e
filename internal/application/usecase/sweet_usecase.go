package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

// SweetUseCase casos de uso del inventario: CRUD, búsqueda, compra y reposición.
type SweetUseCase struct {
	repo repository.SweetRepository
	now  func() time.Time
}

// NewSweetUseCase construye el caso de uso con el store inyectado.
func NewSweetUseCase(repo repository.SweetRepository) *SweetUseCase {
	return &SweetUseCase{repo: repo, now: time.Now}
}

// Create valida y persiste un dulce nuevo. Devuelve ErrDuplicateName si el nombre ya existe.
func (uc *SweetUseCase) Create(ctx context.Context, in dto.CreateSweetRequest) (*dto.SweetResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "Sweet name is required")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		return nil, domain.NewValidationError("category", "Category is required")
	}
	if in.Price == nil {
		return nil, domain.NewValidationError("price", "Price is required")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidationError("price", "Price cannot be negative")
	}
	if in.Quantity == nil {
		return nil, domain.NewValidationError("quantity", "Quantity is required")
	}
	qty, err := stockQuantity(*in.Quantity)
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateName
	}

	now := uc.now()
	sweet := &entity.Sweet{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  category,
		Price:     *in.Price,
		Quantity:  qty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, sweet); err != nil {
		return nil, err
	}
	return toSweetResponse(sweet), nil
}

// List devuelve todos los dulces, sin paginación.
func (uc *SweetUseCase) List(ctx context.Context) ([]dto.SweetResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toSweetResponses(list), nil
}

// Search filtra por nombre/categoría (subcadena, sin mayúsculas) y rango de precio inclusivo.
// minPrice > maxPrice es válido y no coincide con nada.
func (uc *SweetUseCase) Search(ctx context.Context, q dto.SearchSweetsQuery) ([]dto.SweetResponse, error) {
	filter := entity.SweetFilter{Name: q.Name, Category: q.Category}
	var err error
	if filter.MinPrice, err = priceBound("minPrice", q.MinPrice); err != nil {
		return nil, err
	}
	if filter.MaxPrice, err = priceBound("maxPrice", q.MaxPrice); err != nil {
		return nil, err
	}
	list, err := uc.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toSweetResponses(list), nil
}

// Update aplica una actualización parcial: los campos ausentes conservan su valor.
func (uc *SweetUseCase) Update(ctx context.Context, id string, in dto.UpdateSweetRequest) (*dto.SweetResponse, error) {
	id, ok := normalizeID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}

	patch, err := buildPatch(in)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil && *patch.Name != current.Name {
		other, err := uc.repo.GetByName(ctx, *patch.Name)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != current.ID {
			return nil, domain.ErrDuplicateName
		}
	}
	if patch.IsEmpty() {
		return toSweetResponse(current), nil
	}

	updated, err := uc.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	return toSweetResponse(updated), nil
}

// Delete elimina el dulce. ErrNotFound si no existe.
func (uc *SweetUseCase) Delete(ctx context.Context, id string) error {
	id, ok := normalizeID(id)
	if !ok {
		return domain.ErrNotFound
	}
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// Purchase descuenta stock. Única operación que decrementa quantity; nunca la deja negativa.
func (uc *SweetUseCase) Purchase(ctx context.Context, id string, in dto.StockRequest) (*dto.SweetResponse, error) {
	qty, err := movementQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	return uc.adjust(ctx, id, -qty)
}

// Restock suma stock sin cota superior.
func (uc *SweetUseCase) Restock(ctx context.Context, id string, in dto.StockRequest) (*dto.SweetResponse, error) {
	qty, err := movementQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	return uc.adjust(ctx, id, qty)
}

func (uc *SweetUseCase) adjust(ctx context.Context, id string, delta int64) (*dto.SweetResponse, error) {
	id, ok := normalizeID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	sweet, err := uc.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if sweet == nil {
		return nil, domain.ErrNotFound
	}
	return toSweetResponse(sweet), nil
}

func buildPatch(in dto.UpdateSweetRequest) (entity.SweetPatch, error) {
	var patch entity.SweetPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return patch, domain.NewValidationError("name", "Sweet name is required")
		}
		patch.Name = &name
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if category == "" {
			return patch, domain.NewValidationError("category", "Category is required")
		}
		patch.Category = &category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return patch, domain.NewValidationError("price", "Price cannot be negative")
		}
		price := *in.Price
		patch.Price = &price
	}
	if in.Quantity != nil {
		qty, err := stockQuantity(*in.Quantity)
		if err != nil {
			return patch, err
		}
		patch.Quantity = &qty
	}
	return patch, nil
}

// stockQuantity valida una cantidad de stock absoluta (entera, >= 0).
func stockQuantity(d decimal.Decimal) (int64, error) {
	if !d.IsInteger() {
		return 0, domain.NewValidationError("quantity", "Quantity must be an integer")
	}
	if d.IsNegative() {
		return 0, domain.NewValidationError("quantity", "Quantity cannot be negative")
	}
	if d.GreaterThan(maxQuantity) {
		return 0, domain.NewValidationError("quantity", "Quantity is out of range")
	}
	return d.IntPart(), nil
}

// movementQuantity valida la cantidad de una compra o reposición (presente, entera, > 0).
func movementQuantity(d *decimal.Decimal) (int64, error) {
	if d == nil || !d.IsInteger() || !d.IsPositive() || d.GreaterThan(maxQuantity) {
		return 0, domain.ErrInvalidQuantity
	}
	return d.IntPart(), nil
}

func priceBound(field, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a number")
	}
	return &d, nil
}

// normalizeID acepta solo UUIDs; un id mal formado equivale a un registro inexistente.
func normalizeID(id string) (string, bool) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

func toSweetResponse(s *entity.Sweet) *dto.SweetResponse {
	if s == nil {
		return nil
	}
	return &dto.SweetResponse{
		ID:       s.ID,
		Name:     s.Name,
		Category: s.Category,
		Price:    s.Price,
		Quantity: s.Quantity,
	}
}

func toSweetResponses(list []*entity.Sweet) []dto.SweetResponse {
	items := make([]dto.SweetResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSweetResponse(s))
	}
	return items
}
