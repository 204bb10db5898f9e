package postgres

import (
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
)

// psql builder de squirrel con placeholders $n.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasSQLState(err, "23505")
}

// isNumericOutOfRange detecta desbordamiento de un entero (22003), p. ej. quantity + delta > bigint.
func isNumericOutOfRange(err error) bool {
	return hasSQLState(err, "22003")
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern arma un patrón ILIKE de subcadena; los comodines del usuario se tratan como literales.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
