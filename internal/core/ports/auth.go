package ports

import (
	"context"

	"github.com/shopfront/cart-sync/internal/core/domain"
)

// RegisterInput carries the fields accepted on sign-up.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

// AuthGateway is the client's view of the backend auth endpoints.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
}

// AuthService implements registration and login on the backend.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// UserRepository persists backend accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
