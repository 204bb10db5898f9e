package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Gestión de usuarios",
	}
	cmd.AddCommand(newUserCreateCmd(a))
	return cmd
}

func newUserCreateCmd(a *app) *cobra.Command {
	var username, password, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Crea un usuario; único camino para dar de alta administradores sin AUTH_ALLOW_ADMIN_SIGNUP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stores, err := a.openStores(cmd.Context())
			if err != nil {
				return err
			}
			cfg := a.opts.Config
			uc := auth.NewAuthUseCase(stores.Users, auth.JWTConfig{
				Secret:     cfg.JWT.Secret,
				ExpMinutes: cfg.JWT.Expiration,
				Issuer:     cfg.JWT.Issuer,
			})
			user, err := uc.CreateUser(cmd.Context(), username, password, entity.Role(role))
			if err != nil {
				return fmt.Errorf("user create: %w", err)
			}
			a.opts.Logger.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("usuario creado")
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", user.Role, user.Username, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Nombre de usuario")
	cmd.Flags().StringVar(&password, "password", "", "Contraseña (mínimo 6 caracteres)")
	cmd.Flags().StringVar(&role, "role", string(entity.RoleUser), "Rol: user | admin")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
