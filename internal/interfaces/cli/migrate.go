package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/sweetshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sweetshop-api/pkg/config"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de PostgreSQL",
	}
	cmd.AddCommand(newMigrateUpCmd(a))
	cmd.AddCommand(newMigrateStatusCmd(a))
	return cmd
}

func newMigrateUpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.migrator()
			if err != nil {
				return err
			}
			defer m.Close()

			applied, err := m.Up(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "No pending migrations")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(out, "Applied %05d\n", v)
			}
			return nil
		},
	}
}

func newMigrateStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Muestra el estado de cada migración",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.migrator()
			if err != nil {
				return err
			}
			defer m.Close()

			states, err := m.Status(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tSTATE\tFILE")
			for _, s := range states {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Fprintf(w, "%05d\t%s\t%s\n", s.Version, state, s.Path)
			}
			return w.Flush()
		},
	}
}

func (a *app) migrator() (*postgres.Migrator, error) {
	if a.opts.Config.Storage.Driver != config.StorageDriverPostgres {
		return nil, fmt.Errorf("migrate: requiere STORAGE_DRIVER=postgres (actual %q)", a.opts.Config.Storage.Driver)
	}
	return postgres.NewMigrator(a.opts.Config.DB.ConnectionString())
}
