// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORAGE_DRIVER=memory (desarrollo local) y en los tests de casos de uso.
// Cada operación toma el mutex completo, así que AdjustQuantity es atómica igual que el UPDATE condicional de PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetRepo)(nil)

// SweetRepo store de dulces en memoria; conserva el orden de inserción.
type SweetRepo struct {
	mu    sync.RWMutex
	byID  map[string]*entity.Sweet
	order []string
	now   func() time.Time
}

// NewSweetRepository construye el store vacío.
func NewSweetRepository() *SweetRepo {
	return &SweetRepo{byID: make(map[string]*entity.Sweet), now: time.Now}
}

// Create inserta el dulce. Replica la restricción UNIQUE(name) del esquema SQL.
func (r *SweetRepo) Create(_ context.Context, sweet *entity.Sweet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[sweet.ID]; ok {
		return fmt.Errorf("insert sweet: id duplicado %s", sweet.ID)
	}
	if r.findByNameLocked(sweet.Name) != nil {
		return domain.ErrDuplicateName
	}
	r.byID[sweet.ID] = sweet.Clone()
	r.order = append(r.order, sweet.ID)
	return nil
}

// GetByID obtiene un dulce por ID.
func (r *SweetRepo) GetByID(_ context.Context, id string) (*entity.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id].Clone(), nil
}

// GetByName obtiene un dulce por nombre exacto.
func (r *SweetRepo) GetByName(_ context.Context, name string) (*entity.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findByNameLocked(name).Clone(), nil
}

// List devuelve todos los dulces en orden de inserción.
func (r *SweetRepo) List(ctx context.Context) ([]*entity.Sweet, error) {
	return r.Search(ctx, entity.SweetFilter{})
}

// Search filtra con SweetFilter; la comparación de texto usa case folding Unicode.
func (r *SweetRepo) Search(_ context.Context, filter entity.SweetFilter) ([]*entity.Sweet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*entity.Sweet, 0, len(r.order))
	for _, id := range r.order {
		s := r.byID[id]
		if filter.Matches(s, containsFold) {
			list = append(list, s.Clone())
		}
	}
	return list, nil
}

// Update escribe los campos presentes en patch.
func (r *SweetRepo) Update(_ context.Context, id string, patch entity.SweetPatch) (*entity.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		if other := r.findByNameLocked(*patch.Name); other != nil && other.ID != id {
			return nil, domain.ErrDuplicateName
		}
	}
	patch.Apply(s)
	s.UpdatedAt = r.now()
	return s.Clone(), nil
}

// Delete elimina el dulce; false si no existía.
func (r *SweetRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// AdjustQuantity suma delta bajo el lock de escritura: lectura y escritura no se intercalan con otras.
func (r *SweetRepo) AdjustQuantity(_ context.Context, id string, delta int64) (*entity.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	if delta > 0 && s.Quantity > math.MaxInt64-delta {
		return nil, domain.ErrInvalidQuantity
	}
	next := s.Quantity + delta
	if next < 0 {
		return nil, domain.ErrInsufficientStock
	}
	s.Quantity = next
	s.UpdatedAt = r.now()
	return s.Clone(), nil
}

func (r *SweetRepo) findByNameLocked(name string) *entity.Sweet {
	for _, id := range r.order {
		if s := r.byID[id]; s.Name == name {
			return s
		}
	}
	return nil
}

// folder es stateless y seguro entre goroutines.
var folder = cases.Fold()

// containsFold subcadena sin distinguir mayúsculas.
func containsFold(haystack, needle string) bool {
	return strings.Contains(folder.String(haystack), folder.String(needle))
}
