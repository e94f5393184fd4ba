package repositories

import (
	"context"

	"github.com/finman-app/finman_backend/internal/core/domain"
)

// UserRepositoryFacade defines persistence for users.
type UserRepositoryFacade interface {
	// SaveUser persists a new user. Fails with apperrors.ErrDuplicate when the
	// email is taken.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a user by its unique identifier.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
