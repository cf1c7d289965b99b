// Package identity хранит учётные записи участников и их роли.
package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/marketplace/internal/domain"
)

// Users — часть транзакции, через которую реестр читает и пишет пользователей.
type Users interface {
	User(id string) (domain.User, error)
	PutUser(user domain.User) error
}

// Registry управляет регистрацией и ролями. Все методы работают внутри
// переданной транзакции и сами ничего не коммитят.
type Registry struct {
	now func() time.Time
}

// NewRegistry создаёт реестр. Если now == nil, используется time.Now.
func NewRegistry(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{now: now}
}

// Register создаёт учётную запись с указанной ролью. id должен быть уже
// нормализован (caller.Normalize).
func (r *Registry) Register(tx Users, id, name, surname, email string, role domain.Role) (domain.User, error) {
	if id == "" {
		return domain.User{}, domain.ErrUnauthenticated
	}
	if !role.Valid() {
		return domain.User{}, domain.ErrInvalidRole
	}

	if _, err := tx.User(id); err == nil {
		return domain.User{}, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotRegistered) {
		return domain.User{}, fmt.Errorf("lookup user %s: %w", id, err)
	}

	now := r.now().UTC()
	user := domain.User{
		ID:        id,
		Name:      name,
		Surname:   surname,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.PutUser(user); err != nil {
		return domain.User{}, fmt.Errorf("save user %s: %w", id, err)
	}
	return user, nil
}

// AddRole расширяет роль пользователя. Роль никогда не сужается; запрос роли,
// которая уже покрыта текущей, ничего не меняет и возвращает changed == false.
func (r *Registry) AddRole(tx Users, id string, role domain.Role) (user domain.User, changed bool, err error) {
	if !role.Valid() {
		return domain.User{}, false, domain.ErrInvalidRole
	}
	user, err = tx.User(id)
	if err != nil {
		return domain.User{}, false, err
	}

	joined := user.Role.Join(role)
	if joined == user.Role {
		return user, false, nil
	}

	user.Role = joined
	user.UpdatedAt = r.now().UTC()
	if err := tx.PutUser(user); err != nil {
		return domain.User{}, false, fmt.Errorf("save user %s: %w", id, err)
	}
	return user, true, nil
}

// User возвращает учётную запись или domain.ErrNotRegistered.
func (r *Registry) User(tx Users, id string) (domain.User, error) {
	return tx.User(id)
}

// IsSeller сообщает, может ли пользователь продавать.
func (r *Registry) IsSeller(tx Users, id string) (bool, error) {
	user, err := tx.User(id)
	if err != nil {
		return false, err
	}
	return user.Role.IsSeller(), nil
}

// IsBuyer сообщает, может ли пользователь покупать.
func (r *Registry) IsBuyer(tx Users, id string) (bool, error) {
	user, err := tx.User(id)
	if err != nil {
		return false, err
	}
	return user.Role.IsBuyer(), nil
}

// RequireSeller возвращает пользователя, если он зарегистрирован и может продавать.
func (r *Registry) RequireSeller(tx Users, id string) (domain.User, error) {
	user, err := tx.User(id)
	if err != nil {
		return domain.User{}, err
	}
	if !user.Role.IsSeller() {
		return domain.User{}, domain.ErrNotSeller
	}
	return user, nil
}

// RequireBuyer возвращает пользователя, если он зарегистрирован и может покупать.
func (r *Registry) RequireBuyer(tx Users, id string) (domain.User, error) {
	user, err := tx.User(id)
	if err != nil {
		return domain.User{}, err
	}
	if !user.Role.IsBuyer() {
		return domain.User{}, domain.ErrNotBuyer
	}
	return user, nil
}
