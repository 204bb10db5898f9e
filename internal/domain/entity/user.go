package entity

import "time"

// Role rol de un usuario. Conjunto cerrado: RoleUser, RoleAdmin.
type Role string

// Roles válidos para User.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole convierte el claim o el valor de entrada en Role. ok=false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

func (r Role) String() string { return string(r) }

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	CreatedAt    time.Time
}

// Principal identidad autenticada extraída del token; el núcleo confía en ella sin revalidar.
type Principal struct {
	UserID string
	Role   Role
}
