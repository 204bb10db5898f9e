package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sweetshop-api/internal/application/access"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

var (
	user  = &entity.Principal{UserID: "u-1", Role: entity.RoleUser}
	admin = &entity.Principal{UserID: "u-2", Role: entity.RoleAdmin}
)

func TestAuthorize_TablaDeAcceso(t *testing.T) {
	tests := []struct {
		op      access.Operation
		userErr error
		anonErr error
	}{
		{access.OpCreate, nil, domain.ErrUnauthorized},
		{access.OpList, nil, domain.ErrUnauthorized},
		{access.OpSearch, nil, domain.ErrUnauthorized},
		{access.OpUpdate, nil, domain.ErrUnauthorized},
		{access.OpPurchase, nil, domain.ErrUnauthorized},
		{access.OpDelete, domain.ErrForbidden, domain.ErrUnauthorized},
		{access.OpRestock, domain.ErrForbidden, domain.ErrUnauthorized},
		{access.OpStockReport, domain.ErrForbidden, domain.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.ErrorIs(t, access.Authorize(nil, tt.op), tt.anonErr)
			if tt.userErr == nil {
				assert.NoError(t, access.Authorize(user, tt.op))
			} else {
				assert.ErrorIs(t, access.Authorize(user, tt.op), tt.userErr)
			}
			assert.NoError(t, access.Authorize(admin, tt.op))
		})
	}
}

func TestAuthorize_RolDesconocido(t *testing.T) {
	p := &entity.Principal{UserID: "u-3", Role: entity.Role("superuser")}
	assert.ErrorIs(t, access.Authorize(p, access.OpList), domain.ErrUnauthorized)
}

func TestAuthorize_PrincipalSinUserID(t *testing.T) {
	p := &entity.Principal{Role: entity.RoleAdmin}
	assert.ErrorIs(t, access.Authorize(p, access.OpDelete), domain.ErrUnauthorized)
}

func TestRequired_OperacionDesconocida(t *testing.T) {
	_, err := access.Required(access.Operation(99))
	assert.Error(t, err)
	assert.Error(t, access.Authorize(admin, access.Operation(99)))
}
