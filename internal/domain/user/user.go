// Package user covers the admin's account roster.
package user

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/platform/api"
)

// User is one account row.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Service performs account data access. Account management is a blocking
// surface: placeholder accounts would be worse than an error.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "user").Logger(),
	}
}

// List fetches every account.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return api.FetchInto[[]User](ctx, s.client, "/api/users")
}

// GetByUsername resolves an account by login name.
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	u, err := api.FetchInto[User](ctx, s.client, "/api/users/username/"+username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateRole rewrites an account's role.
func (s *Service) UpdateRole(ctx context.Context, id int64, role string) error {
	_, err := s.client.Put(ctx, fmt.Sprintf("/api/users/%d/role", id), map[string]string{"role": role})
	return err
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.client.Delete(ctx, fmt.Sprintf("/api/users/%d", id))
	return err
}
