//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/pkg/config"
)

var (
	dbOnce    sync.Once
	sharedDSN string
	dbInitErr error
)

// setupPool levanta un PostgreSQL compartido (una vez por corrida), aplica las migraciones
// embebidas y vacía las tablas antes de cada test.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dbOnce.Do(func() { sharedDSN, dbInitErr = startPostgres() })
	require.NoError(t, dbInitErr)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: sharedDSN}, PoolOptions{MaxConns: 20})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE sweets, users`)
	require.NoError(t, err)
	return pool
}

func startPostgres() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "sweetshop",
				"POSTGRES_PASSWORD": "sweetshop",
				"POSTGRES_DB":       "sweetshop",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("mapped port: %w", err)
	}
	dsn := fmt.Sprintf("postgres://sweetshop:sweetshop@%s:%s/sweetshop?sslmode=disable", host, port.Port())

	m, err := NewMigrator(dsn)
	if err != nil {
		return "", err
	}
	defer m.Close()
	if _, err := m.Up(ctx); err != nil {
		return "", err
	}
	return dsn, nil
}

func newSweet(name, category, price string, qty int64) *entity.Sweet {
	now := time.Now().UTC()
	return &entity.Sweet{
		ID: uuid.New().String(), Name: name, Category: category,
		Price: decimal.RequireFromString(price), Quantity: qty, CreatedAt: now, UpdatedAt: now,
	}
}

func TestIntegration_CRUDYBusqueda(t *testing.T) {
	repo := NewSweetRepository(setupPool(t))
	ctx := context.Background()

	a := newSweet("Dark Chocolate Bar", "Chocolate", "2.99", 10)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, newSweet("Gummy Bears", "Gummies", "1.50", 5)))
	require.NoError(t, repo.Create(ctx, newSweet("100% Cacao", "Chocolate", "7", 1)))
	assert.ErrorIs(t, repo.Create(ctx, newSweet("Gummy Bears", "x", "1", 1)), domain.ErrDuplicateName)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, a.ID, list[0].ID, "orden de inserción")

	got, err := repo.Search(ctx, entity.SweetFilter{Category: "CHOC"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.Search(ctx, entity.SweetFilter{Name: "0%"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "100% Cacao", got[0].Name)

	lo, hi := decimal.NewFromInt(2), decimal.NewFromInt(5)
	got, err = repo.Search(ctx, entity.SweetFilter{MinPrice: &lo, MaxPrice: &hi})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("2.99")))

	cat := "Dark"
	updated, err := repo.Update(ctx, a.ID, entity.SweetPatch{Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, "Dark", updated.Category)
	assert.Equal(t, int64(10), updated.Quantity)

	ok, err := repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIntegration_ComprasConcurrentesNoSobrevenden(t *testing.T) {
	repo := NewSweetRepository(setupPool(t))
	ctx := context.Background()
	s := newSweet("Ladoo", "Indian", "1.5", 50)
	require.NoError(t, repo.Create(ctx, s))

	var sold, rejected atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AdjustQuantity(ctx, s.ID, -1)
			switch {
			case err == nil:
				sold.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.Quantity)
	assert.Equal(t, int64(50), sold.Load())
	assert.Equal(t, int64(30), rejected.Load())

	got, err = repo.AdjustQuantity(ctx, uuid.New().String(), 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIntegration_Usuarios(t *testing.T) {
	repo := NewUserRepository(setupPool(t))
	ctx := context.Background()
	u := &entity.User{ID: uuid.New().String(), Username: "ana", PasswordHash: "h", Role: entity.RoleUser, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, u))
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{ID: uuid.New().String(), Username: "ana", PasswordHash: "h", Role: entity.RoleUser, CreatedAt: time.Now()}), domain.ErrUsernameTaken)

	got, err := repo.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
}
