package ports

import (
	"context"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
)

// UserRepository returns (nil, nil) from the getters when no user matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// UserService is the credential store.
type UserService interface {
	CreateUser(ctx context.Context, email, password string) (*domain.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
