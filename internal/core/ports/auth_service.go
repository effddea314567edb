package ports

import (
	"context"

	"github.com/exes/food-network/internal/core/domain"
)

// Claims is the verified identity carried by an access token.
type Claims struct {
	TokenID   string
	Username  string
	Role      string
	MachineID string
}

type AuthService interface {
	Register(ctx context.Context, username, password, email, role string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Verify parses token and rejects it when expired, malformed or revoked.
	Verify(ctx context.Context, token string) (*Claims, error)
	Logout(ctx context.Context, token string) error
	// IssueMachineToken returns a device token for a registered machine.
	IssueMachineToken(ctx context.Context, machineID, apiKey string) (string, error)
}
