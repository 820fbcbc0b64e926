package services

import (
	"context"
	"fmt"

	"airline_reservations/internal/models"
	"airline_reservations/internal/store"

	"go.uber.org/zap"
)

// UserService manages accounts in users.json
type UserService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(st *store.Store, logger *zap.Logger) *UserService {
	return &UserService{
		store:  st,
		logger: logger,
	}
}

// ListUsers returns every account
func (us *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := store.LoadList[models.User](ctx, us.store, store.UsersDocument)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// FindUser looks up an account by id
func (us *UserService) FindUser(ctx context.Context, id string) (*models.User, error) {
	users, err := us.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
}

// Login returns the account whose username, password and role all match.
// A failed login returns ErrPermissionDenied without saying which field was wrong.
func (us *UserService) Login(ctx context.Context, username, password, role string) (*models.User, error) {
	users, err := us.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	role = models.NormalizeRole(role)
	for i := range users {
		u := &users[i]
		if u.Username == username && u.Password == password && models.NormalizeRole(u.Role) == role {
			us.logger.Info("user logged in", zap.String("user_id", u.ID), zap.String("role", role))
			return u, nil
		}
	}
	us.logger.Info("login failed", zap.String("username", username), zap.String("role", role))
	return nil, fmt.Errorf("invalid username/password: %w", models.ErrPermissionDenied)
}

// CreateUser adds an account. Ids and usernames must be unique.
func (us *UserService) CreateUser(ctx context.Context, user models.User) error {
	role := models.NormalizeRole(user.Role)
	if role == "" {
		return fmt.Errorf("role %q: %w", user.Role, models.ErrInvalidRole)
	}
	user.Role = role

	users, err := us.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID == user.ID {
			return fmt.Errorf("user id %s: %w", user.ID, models.ErrDuplicateUser)
		}
		if u.Username == user.Username {
			return fmt.Errorf("username %s: %w", user.Username, models.ErrDuplicateUser)
		}
	}

	users = append(users, user)
	if err := us.store.Save(ctx, store.UsersDocument, users); err != nil {
		return err
	}
	us.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return nil
}

// UpdateUser replaces an account. The id is kept.
func (us *UserService) UpdateUser(ctx context.Context, id string, updated models.User) error {
	role := models.NormalizeRole(updated.Role)
	if role == "" {
		return fmt.Errorf("role %q: %w", updated.Role, models.ErrInvalidRole)
	}
	updated.Role = role
	updated.ID = id

	users, err := us.ListUsers(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
		} else if users[i].Username == updated.Username {
			return fmt.Errorf("username %s: %w", updated.Username, models.ErrDuplicateUser)
		}
	}
	if idx < 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	users[idx] = updated

	if err := us.store.Save(ctx, store.UsersDocument, users); err != nil {
		return err
	}
	us.logger.Info("user updated", zap.String("user_id", id))
	return nil
}

// DeleteUser removes an account
func (us *UserService) DeleteUser(ctx context.Context, id string) error {
	users, err := us.ListUsers(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == id {
			users = append(users[:i], users[i+1:]...)
			if err := us.store.Save(ctx, store.UsersDocument, users); err != nil {
				return err
			}
			us.logger.Info("user deleted", zap.String("user_id", id))
			return nil
		}
	}
	return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
}
