// Package cli implementa sweetshopctl: migraciones, alta de usuarios y carga inicial de dulces.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/sweetshop-api/internal/infrastructure/storage"
	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// Options dependencias inyectables. Los campos nil se resuelven desde el entorno
// (config.Load, logger a stderr, storage.Open).
type Options struct {
	Config *config.Config
	Logger *logger.Logger
	Stores *storage.Stores
}

type app struct {
	opts   Options
	stores *storage.Stores
	owned  bool
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sweetshopctl",
		Short:         "Herramientas de operación de la API de la tienda de dulces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	cmd.AddCommand(newMigrateCmd(a))
	cmd.AddCommand(newUserCmd(a))
	cmd.AddCommand(newSeedCmd(a))
	return cmd
}

// NewRootCmdForTest devuelve el comando raíz con dependencias inyectadas.
func NewRootCmdForTest(opts Options) *cobra.Command {
	return newRootCmd(&app{opts: opts})
}

// Execute ejecuta sweetshopctl con la configuración del entorno.
func Execute() error {
	a := &app{}
	defer a.close()
	return newRootCmd(a).Execute()
}

func (a *app) init() error {
	if a.opts.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.opts.Config = cfg
	}
	if a.opts.Logger == nil {
		a.opts.Logger = logger.New(logger.Config{
			Env:    a.opts.Config.App.Env,
			Level:  a.opts.Config.App.LogLevel,
			Output: os.Stderr,
		})
	}
	return nil
}

// openStores abre el almacenamiento una sola vez por ejecución.
func (a *app) openStores(ctx context.Context) (*storage.Stores, error) {
	if a.stores != nil {
		return a.stores, nil
	}
	if a.opts.Stores != nil {
		a.stores = a.opts.Stores
		return a.stores, nil
	}
	stores, err := storage.Open(ctx, a.opts.Config, a.opts.Logger)
	if err != nil {
		return nil, err
	}
	a.stores, a.owned = stores, true
	return stores, nil
}

func (a *app) close() {
	if a.owned && a.stores != nil {
		a.stores.Close()
	}
}
