package marketplace

import (
	"context"

	"github.com/vladislavdragonenkov/marketplace/internal/caller"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	"github.com/vladislavdragonenkov/marketplace/internal/messaging/kafka"
)

// RegisterInput — данные регистрации вызывающей стороны.
type RegisterInput struct {
	Name    string
	Surname string
	Email   string
	Role    domain.Role
}

// Capabilities — возможности вызывающей стороны.
type Capabilities struct {
	Identity string
	Role     domain.Role
	IsSeller bool
	IsBuyer  bool
}

// Register регистрирует вызывающую сторону.
func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	var user domain.User
	err := s.run(ctx, "register", modeWrite, true, func(tx domain.Tx, callerID string, fx *effects) error {
		var err error
		user, err = s.identity.Register(tx, callerID, in.Name, in.Surname, in.Email, in.Role)
		if err != nil {
			return err
		}
		fx.field("role", user.Role)
		msg, err := kafka.NewUserMessage(kafka.EventUserRegistered, user, user.CreatedAt)
		return s.enqueue(tx, fx, msg, err)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// AddRole расширяет роль вызывающей стороны; повторный запрос ничего не меняет.
func (s *Service) AddRole(ctx context.Context, role domain.Role) (domain.User, error) {
	var user domain.User
	err := s.run(ctx, "add_role", modeWrite, true, func(tx domain.Tx, callerID string, fx *effects) error {
		var (
			changed bool
			err     error
		)
		user, changed, err = s.identity.AddRole(tx, callerID, role)
		if err != nil {
			return err
		}
		fx.field("role", user.Role)
		fx.field("changed", changed)
		if !changed {
			return nil
		}
		msg, err := kafka.NewUserMessage(kafka.EventUserRoleAdded, user, user.UpdatedAt)
		return s.enqueue(tx, fx, msg, err)
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// User возвращает учётную запись по идентичности.
func (s *Service) User(ctx context.Context, id string) (domain.User, error) {
	var user domain.User
	err := s.run(ctx, "get_user", modeRead, true, func(tx domain.Tx, _ string, _ *effects) error {
		var err error
		user, err = s.identity.User(tx, caller.Normalize(id))
		return err
	})
	return user, err
}

// Capabilities возвращает роль и возможности вызывающей стороны.
func (s *Service) Capabilities(ctx context.Context) (Capabilities, error) {
	var caps Capabilities
	err := s.run(ctx, "capabilities", modeRead, true, func(tx domain.Tx, callerID string, _ *effects) error {
		isSeller, err := s.identity.IsSeller(tx, callerID)
		if err != nil {
			return err
		}
		isBuyer, err := s.identity.IsBuyer(tx, callerID)
		if err != nil {
			return err
		}
		user, err := s.identity.User(tx, callerID)
		if err != nil {
			return err
		}
		caps = Capabilities{Identity: callerID, Role: user.Role, IsSeller: isSeller, IsBuyer: isBuyer}
		return nil
	})
	return caps, err
}
