// Package storage abre el Item Store elegido por STORAGE_DRIVER.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// Stores repositorios listos para inyectar en los casos de uso.
type Stores struct {
	Driver string
	Sweets repository.SweetRepository
	Users  repository.UserRepository

	ping  func(ctx context.Context) error
	close func()
}

// Ping verifica la conexión (siempre nil en memoria).
func (s *Stores) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close libera el pool si lo hay.
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open construye los repositorios. Con postgres y DB_AUTO_MIGRATE aplica las migraciones antes de abrir el pool.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Stores, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		return &Stores{
			Driver: config.StorageDriverMemory,
			Sweets: memory.NewSweetRepository(),
			Users:  memory.NewUserRepository(),
		}, nil

	case config.StorageDriverPostgres:
		if cfg.DB.AutoMigrate {
			if err := Migrate(ctx, cfg.DB, log); err != nil {
				return nil, err
			}
		}
		pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{})
		if err != nil {
			return nil, err
		}
		return &Stores{
			Driver: config.StorageDriverPostgres,
			Sweets: postgres.NewSweetRepository(pool),
			Users:  postgres.NewUserRepository(pool),
			ping:   pool.Ping,
			close:  pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Storage.Driver)
	}
}

// Migrate aplica las migraciones pendientes y registra las versiones aplicadas.
func Migrate(ctx context.Context, cfg config.DBConfig, log *logger.Logger) error {
	m, err := postgres.NewMigrator(cfg.ConnectionString())
	if err != nil {
		return err
	}
	defer m.Close()
	applied, err := m.Up(ctx)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		log.Info().Ints64("versions", applied).Msg("migraciones aplicadas")
	}
	return nil
}
