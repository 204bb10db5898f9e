package memory

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

func seed(t *testing.T, r *SweetRepo, name, category, price string, qty int64) *entity.Sweet {
	t.Helper()
	s := &entity.Sweet{
		ID:       uuid.New().String(),
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
	}
	require.NoError(t, r.Create(context.Background(), s))
	return s
}

func TestSweetRepo_CreateNombreDuplicado(t *testing.T) {
	r := NewSweetRepository()
	seed(t, r, "Ladoo", "Indian", "1.5", 10)

	err := r.Create(context.Background(), &entity.Sweet{ID: uuid.New().String(), Name: "Ladoo"})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	// la unicidad es exacta: otra capitalización es un nombre distinto
	seed(t, r, "ladoo", "Indian", "1.5", 1)
	list, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSweetRepo_DevuelveCopias(t *testing.T) {
	r := NewSweetRepository()
	s := seed(t, r, "Toffee", "Caramel", "2", 3)

	got, err := r.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	got.Quantity = 999

	again, _ := r.GetByID(context.Background(), s.ID)
	assert.Equal(t, int64(3), again.Quantity)
}

func TestSweetRepo_SearchCaseFolding(t *testing.T) {
	r := NewSweetRepository()
	seed(t, r, "Dark Chocolate Bar", "Chocolate", "2.99", 10)
	seed(t, r, "Gummy Bears", "Gummies", "1.00", 10)
	seed(t, r, "ÉCLAIR Praliné", "Pâtisserie", "6.00", 1)

	got, err := r.Search(context.Background(), entity.SweetFilter{Category: "choc"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Dark Chocolate Bar", got[0].Name)

	got, err = r.Search(context.Background(), entity.SweetFilter{Name: "éclair"})
	require.NoError(t, err)
	require.Len(t, got, 1, "case folding Unicode en nombres acentuados")
}

func TestSweetRepo_GetAusente(t *testing.T) {
	r := NewSweetRepository()
	got, err := r.GetByID(context.Background(), uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = r.GetByName(context.Background(), "nada")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSweetRepo_UpdateParcial(t *testing.T) {
	r := NewSweetRepository()
	s := seed(t, r, "Toffee", "Caramel", "2", 3)
	other := seed(t, r, "Fudge", "Caramel", "3", 3)

	price := decimal.RequireFromString("2.5")
	got, err := r.Update(context.Background(), s.ID, entity.SweetPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Toffee", got.Name)
	assert.True(t, got.Price.Equal(price))
	assert.Equal(t, int64(3), got.Quantity)

	name := other.Name
	_, err = r.Update(context.Background(), s.ID, entity.SweetPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	got, err = r.Update(context.Background(), uuid.New().String(), entity.SweetPatch{Price: &price})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSweetRepo_DeleteConservaOrden(t *testing.T) {
	r := NewSweetRepository()
	a := seed(t, r, "A", "x", "1", 1)
	b := seed(t, r, "B", "x", "1", 1)
	c := seed(t, r, "C", "x", "1", 1)

	ok, err := r.Delete(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Delete(context.Background(), b.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	list, _ := r.List(context.Background())
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, c.ID, list[1].ID)
}

func TestSweetRepo_AdjustQuantity(t *testing.T) {
	r := NewSweetRepository()
	s := seed(t, r, "Ladoo", "Indian", "1.5", 10)
	ctx := context.Background()

	_, err := r.AdjustQuantity(ctx, s.ID, -11)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	got, _ := r.GetByID(ctx, s.ID)
	assert.Equal(t, int64(10), got.Quantity, "sin descuento parcial")

	got, err = r.AdjustQuantity(ctx, s.ID, -10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)

	got, err = r.AdjustQuantity(ctx, s.ID, math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), got.Quantity)

	_, err = r.AdjustQuantity(ctx, s.ID, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "desbordamiento de int64")

	got, err = r.AdjustQuantity(ctx, uuid.New().String(), 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSweetRepo_ComprasConcurrentesNoSobrevenden(t *testing.T) {
	r := NewSweetRepository()
	s := seed(t, r, "Ladoo", "Indian", "1.5", 50)

	var ok, rejected atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.AdjustQuantity(context.Background(), s.ID, -1)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := r.GetByID(context.Background(), s.ID)
	assert.Equal(t, int64(0), got.Quantity)
	assert.Equal(t, int64(50), ok.Load())
	assert.Equal(t, int64(50), rejected.Load())
}
