package service

import (
	"database/sql"
	"errors"
	"fmt"

	"go-banner-api/model"
	"go-banner-api/repository"
)

// UserService handles user-related business logic layered on top of the
// authentication core: profile updates, role changes and account deletion.
type UserService struct {
	userRepo repository.IUserRepository
	auth     *AuthService
}

func NewUserService(userRepo repository.IUserRepository, auth *AuthService) *UserService {
	return &UserService{userRepo: userRepo, auth: auth}
}

// GetAllUsers returns every account with password hashes stripped.
func (s *UserService) GetAllUsers() ([]*model.User, error) {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		user.Password = ""
	}
	return users, nil
}

// UpdateUser applies a partial update to the target account. A user may
// change their own username, email and password; changing anyone's role, or
// touching another user's account at all, requires admin privileges. The
// password is re-hashed only when the password field itself is supplied, so
// unrelated updates never churn the stored hash.
func (s *UserService) UpdateUser(actor *model.User, targetID int, req model.UpdateUserRequest) (*model.User, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	isAdmin := model.Role(actor.Role) == model.RoleAdmin
	if actor.ID != targetID && !isAdmin {
		return nil, ErrForbidden
	}
	if req.Role != "" && !isAdmin {
		return nil, fmt.Errorf("%w: only admins may change roles", ErrForbidden)
	}

	target, err := s.userRepo.GetUserByID(targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	if req.Username != "" {
		target.Username = req.Username
	}
	if req.Email != "" {
		target.Email = req.Email
	}
	if req.Password != "" {
		hashed, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		target.Password = hashed
	}
	if req.Role != "" {
		if !req.Role.IsValid() {
			return nil, errors.New("invalid role specified")
		}
		target.Role = string(req.Role)
	}

	if err := s.userRepo.UpdateUser(target); err != nil {
		return nil, err
	}

	target.Password = ""
	return target, nil
}

// UpdateUserRole assigns a new role to the target account. Admin only; the
// role gate in the router already enforces this, but the rule lives here too
// so the service cannot be misused by a future caller.
func (s *UserService) UpdateUserRole(actor *model.User, targetID int, newRole model.Role) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if model.Role(actor.Role) != model.RoleAdmin {
		return ErrForbidden
	}
	if !newRole.IsValid() {
		return errors.New("invalid role specified")
	}

	if err := s.userRepo.UpdateUserRole(targetID, string(newRole)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// DeleteUser removes an account. Admin only, and an admin may not delete
// their own account through this path.
func (s *UserService) DeleteUser(actor *model.User, targetID int) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if model.Role(actor.Role) != model.RoleAdmin {
		return ErrForbidden
	}
	if actor.ID == targetID {
		return ErrSelfDelete
	}

	if err := s.userRepo.DeleteUser(targetID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
