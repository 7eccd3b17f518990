package gateway

import (
	"context"
	"net/http"

	"github.com/shopfront/cart-sync/internal/core/domain"
	"github.com/shopfront/cart-sync/internal/core/ports"
)

// AuthGateway calls the backend /auth endpoints.
type AuthGateway struct {
	c *Client
}

func NewAuthGateway(c *Client) *AuthGateway {
	return &AuthGateway{c: c}
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

type authReply struct {
	Token string       `json:"token" validate:"required"`
	User  *domain.User `json:"user"  validate:"required"`
}

func (g *AuthGateway) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	var reply authReply
	if err := g.c.do(ctx, http.MethodPost, "/auth/login", loginBody{Email: email, Password: password}, &reply); err != nil {
		return "", nil, authError(err)
	}
	return g.accept(reply)
}

func (g *AuthGateway) Register(ctx context.Context, in ports.RegisterInput) (string, *domain.User, error) {
	body := registerBody{Name: in.Name, Email: in.Email, Password: in.Password, Phone: in.Phone, Address: in.Address}
	var reply authReply
	if err := g.c.do(ctx, http.MethodPost, "/auth/register", body, &reply); err != nil {
		return "", nil, authError(err)
	}
	return g.accept(reply)
}

func (g *AuthGateway) accept(reply authReply) (string, *domain.User, error) {
	if err := g.c.validate.Struct(reply); err != nil || reply.User.ID == "" {
		return "", nil, domain.ErrMalformedRecord
	}
	return reply.Token, reply.User, nil
}

func authError(err error) error {
	switch statusCode(err) {
	case http.StatusUnauthorized, http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidCredentials
	case http.StatusNotFound:
		return domain.ErrUserNotFound
	case http.StatusConflict:
		return domain.ErrUserExists
	}
	return err
}
