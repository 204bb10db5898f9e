package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetRepo)(nil)

var sweetColumns = []string{"id", "name", "category", "price", "quantity", "created_at", "updated_at"}

var sweetReturning = "RETURNING " + strings.Join(sweetColumns, ", ")

// SweetRepo implementación del puerto SweetRepository sobre PostgreSQL (usable con pool o tx).
type SweetRepo struct {
	q Querier
}

// NewSweetRepository construye el adaptador de persistencia para dulces. Pasar pool o tx (Querier).
func NewSweetRepository(q Querier) *SweetRepo {
	return &SweetRepo{q: q}
}

// Create persiste un nuevo dulce. La restricción UNIQUE(name) cubre la carrera entre el chequeo previo y el INSERT.
func (r *SweetRepo) Create(ctx context.Context, sweet *entity.Sweet) error {
	query := `
		INSERT INTO sweets (id, name, category, price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		sweet.ID, sweet.Name, sweet.Category, sweet.Price, sweet.Quantity, sweet.CreatedAt, sweet.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		return fmt.Errorf("insert sweet: %w", err)
	}
	return nil
}

// GetByID obtiene un dulce por ID.
func (r *SweetRepo) GetByID(ctx context.Context, id string) (*entity.Sweet, error) {
	return r.getOne(ctx, "get sweet", sq.Eq{"id": id})
}

// GetByName obtiene un dulce por nombre exacto.
func (r *SweetRepo) GetByName(ctx context.Context, name string) (*entity.Sweet, error) {
	return r.getOne(ctx, "get sweet by name", sq.Eq{"name": name})
}

func (r *SweetRepo) getOne(ctx context.Context, op string, where sq.Eq) (*entity.Sweet, error) {
	query, args, err := psql.Select(sweetColumns...).From("sweets").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s, err := scanSweet(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// List devuelve todos los dulces en orden de inserción.
func (r *SweetRepo) List(ctx context.Context) ([]*entity.Sweet, error) {
	return r.Search(ctx, entity.SweetFilter{})
}

// Search filtra por subcadena (ILIKE) y rango de precio inclusivo; los filtros vacíos se omiten.
func (r *SweetRepo) Search(ctx context.Context, filter entity.SweetFilter) ([]*entity.Sweet, error) {
	qb := psql.Select(sweetColumns...).From("sweets").OrderBy("seq")
	if filter.Name != "" {
		qb = qb.Where(sq.ILike{"name": containsPattern(filter.Name)})
	}
	if filter.Category != "" {
		qb = qb.Where(sq.ILike{"category": containsPattern(filter.Category)})
	}
	if filter.MinPrice != nil {
		qb = qb.Where(sq.GtOrEq{"price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		qb = qb.Where(sq.LtOrEq{"price": *filter.MaxPrice})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search sweets: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sweet, 0)
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sweet: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update escribe solo las columnas presentes en el patch; quantity no se toca si no viene,
// así una edición no pisa una compra concurrente.
func (r *SweetRepo) Update(ctx context.Context, id string, patch entity.SweetPatch) (*entity.Sweet, error) {
	ub := psql.Update("sweets")
	if patch.Name != nil {
		ub = ub.Set("name", *patch.Name)
	}
	if patch.Category != nil {
		ub = ub.Set("category", *patch.Category)
	}
	if patch.Price != nil {
		ub = ub.Set("price", *patch.Price)
	}
	if patch.Quantity != nil {
		ub = ub.Set("quantity", *patch.Quantity)
	}
	ub = ub.Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix(sweetReturning)

	query, args, err := ub.ToSql()
	if err != nil {
		return nil, fmt.Errorf("update sweet: %w", err)
	}
	s, err := scanSweet(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, nil
		case isUniqueViolation(err):
			return nil, domain.ErrDuplicateName
		}
		return nil, fmt.Errorf("update sweet: %w", err)
	}
	return s, nil
}

// Delete elimina un dulce por ID; false si no existía.
func (r *SweetRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete sweet: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// AdjustQuantity suma delta en un único UPDATE condicional: el lock de fila serializa
// compras concurrentes y la guarda impide stock negativo.
func (r *SweetRepo) AdjustQuantity(ctx context.Context, id string, delta int64) (*entity.Sweet, error) {
	query := `
		UPDATE sweets SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		` + sweetReturning
	s, err := scanSweet(r.q.QueryRow(ctx, query, id, delta))
	if err == nil {
		return s, nil
	}
	if isNumericOutOfRange(err) {
		return nil, domain.ErrInvalidQuantity
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adjust sweet quantity: %w", err)
	}

	// Sin fila: o no existe o la guarda rechazó el descuento.
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sweets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("adjust sweet quantity: %w", err)
	}
	if !exists {
		return nil, nil
	}
	return nil, domain.ErrInsufficientStock
}

func scanSweet(row pgx.Row) (*entity.Sweet, error) {
	var s entity.Sweet
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
