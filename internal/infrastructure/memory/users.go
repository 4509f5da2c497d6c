package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/inventario-historico/internal/domain/entity"
	"github.com/jhoicas/inventario-historico/internal/domain/repository"
)

var _ repository.UserRepository = (*Users)(nil)

// Users operadores en memoria (tests y modo demo).
type Users struct {
	byEmail map[string]entity.User
}

// NewUsers indexa los usuarios por email en minúsculas.
func NewUsers(users ...entity.User) *Users {
	u := &Users{byEmail: make(map[string]entity.User, len(users))}
	for _, user := range users {
		u.byEmail[strings.ToLower(user.Email)] = user
	}
	return u
}

// FindByEmail devuelve nil, nil si no existe.
func (u *Users) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	user, ok := u.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	return &user, nil
}
