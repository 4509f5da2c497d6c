package repository

import (
	"context"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
)

// UserRepository define el puerto de lectura de operadores (login).
type UserRepository interface {
	// FindByEmail devuelve nil, nil si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
