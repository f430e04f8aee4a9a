package repository

import (
	"context"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// UserRepository registro de usuarios/operarios (solo lectura para el núcleo).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
