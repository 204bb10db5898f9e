package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain"
)

// seedFile formato del archivo de carga:
//
//	sweets:
//	  - name: Ladoo
//	    category: Indian
//	    price: 1.50
//	    quantity: 10
type seedFile struct {
	Sweets []seedSweet `yaml:"sweets"`
}

// price y quantity se leen como texto para no pasar por float64.
type seedSweet struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Price    string `yaml:"price"`
	Quantity string `yaml:"quantity"`
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Carga dulces desde un archivo YAML; los nombres existentes se omiten",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("seed: leer archivo: %w", err)
			}
			var file seedFile
			if err := yaml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("seed: YAML inválido: %w", err)
			}

			stores, err := a.openStores(cmd.Context())
			if err != nil {
				return err
			}
			uc := usecase.NewSweetUseCase(stores.Sweets)
			out := cmd.OutOrStdout()

			var created, skipped, failed int
			for i, s := range file.Sweets {
				in, err := s.toRequest()
				if err == nil {
					_, err = uc.Create(cmd.Context(), in)
				}
				switch {
				case err == nil:
					created++
					fmt.Fprintf(out, "created  %s\n", s.Name)
				case errors.Is(err, domain.ErrDuplicateName):
					skipped++
					fmt.Fprintf(out, "skipped  %s (already exists)\n", s.Name)
				case errors.Is(err, domain.ErrInvalidInput):
					failed++
					fmt.Fprintf(out, "invalid  #%d %q: %v\n", i+1, s.Name, err)
				default:
					return fmt.Errorf("seed: %q: %w", s.Name, err)
				}
			}

			fmt.Fprintf(out, "%d created, %d skipped, %d invalid\n", created, skipped, failed)
			a.opts.Logger.Info().Int("created", created).Int("skipped", skipped).Int("invalid", failed).Msg("seed terminado")
			if failed > 0 {
				return fmt.Errorf("seed: %d entradas inválidas", failed)
			}
			return nil
		},
	}
}

func (s seedSweet) toRequest() (dto.CreateSweetRequest, error) {
	in := dto.CreateSweetRequest{Name: s.Name, Category: s.Category}
	if s.Price != "" {
		p, err := decimal.NewFromString(s.Price)
		if err != nil {
			return in, domain.NewValidationError("price", "Price must be a number")
		}
		in.Price = &p
	}
	if s.Quantity != "" {
		q, err := decimal.NewFromString(s.Quantity)
		if err != nil {
			return in, domain.NewValidationError("quantity", "Quantity must be a number")
		}
		in.Quantity = &q
	}
	return in, nil
}
