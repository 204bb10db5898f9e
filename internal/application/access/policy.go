// Package access decide qué operaciones del inventario exigen sesión y cuáles rol administrador.
// No guarda estado: se evalúa por petición con el Principal que entrega el servicio de identidad.
package access

import (
	"fmt"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// Operation operación protegida del inventario.
type Operation int

const (
	OpCreate Operation = iota + 1
	OpList
	OpSearch
	OpUpdate
	OpDelete
	OpPurchase
	OpRestock
	OpStockReport
)

var operationNames = map[Operation]string{
	OpCreate:      "create",
	OpList:        "list",
	OpSearch:      "search",
	OpUpdate:      "update",
	OpDelete:      "delete",
	OpPurchase:    "purchase",
	OpRestock:     "restock",
	OpStockReport: "stock_report",
}

func (o Operation) String() string {
	if n, ok := operationNames[o]; ok {
		return n
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// Capability nivel de privilegio exigido.
type Capability int

const (
	Authenticated Capability = iota + 1
	Administrator
)

// Required devuelve la capacidad exigida por op.
// Create exige sesión igual que List o Update; solo Delete, Restock y el reporte exigen admin.
func Required(op Operation) (Capability, error) {
	switch op {
	case OpCreate, OpList, OpSearch, OpUpdate, OpPurchase:
		return Authenticated, nil
	case OpDelete, OpRestock, OpStockReport:
		return Administrator, nil
	default:
		return 0, fmt.Errorf("access: operación desconocida %s", op)
	}
}

// Authorize verifica que p pueda ejecutar op.
// p nil → domain.ErrUnauthorized; rol insuficiente → domain.ErrForbidden.
func Authorize(p *entity.Principal, op Operation) error {
	required, err := Required(op)
	if err != nil {
		return err
	}
	if p == nil || p.UserID == "" {
		return domain.ErrUnauthorized
	}
	switch p.Role {
	case entity.RoleAdmin:
		return nil
	case entity.RoleUser:
		if required == Authenticated {
			return nil
		}
		return domain.ErrForbidden
	default:
		// Rol fuera del conjunto cerrado: credencial no confiable.
		return domain.ErrUnauthorized
	}
}
