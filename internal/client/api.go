package client

import (
	"context"
	"net/url"

	"github.com/exes/food-network/internal/core/domain"
)

// Identity is what the API reports for a verified session token.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	} `json:"user"`
}

// Session returns the credential pair to persist after login.
func (r LoginResult) Session() domain.Session {
	return domain.Session{Token: r.Token, Role: r.User.Role}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	res, err := Post[LoginResult](ctx, c, "/auth/login", "", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Verify checks token against the API; any failure means the session is no
// longer usable.
func (c *Client) Verify(ctx context.Context, token string) (*Identity, error) {
	id, err := Get[Identity](ctx, c, "/auth/verify", token)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := Post[map[string]string](ctx, c, "/auth/logout", token, nil)
	return err
}

// Machines returns the current snapshot of every machine record.
func (c *Client) Machines(ctx context.Context) ([]domain.Machine, error) {
	return Get[[]domain.Machine](ctx, c, "/v1/public/machines", "")
}

func (c *Client) Stats(ctx context.Context, token string) (*domain.DashboardStats, error) {
	st, err := Get[domain.DashboardStats](ctx, c, "/v1/admin/stats", token)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) Expired(ctx context.Context, token string) ([]domain.ExpiredStock, error) {
	return Get[[]domain.ExpiredStock](ctx, c, "/v1/volunteer/expired", token)
}

// ExpiredItem is one expired unit a volunteer has to take out of a machine.
type ExpiredItem struct {
	ID         string `json:"id"`
	MachineID  string `json:"machine_id"`
	ExpiryDate string `json:"expiry_date"`
	DonatedAt  string `json:"donated_at"`
}

func (c *Client) ExpiredItems(ctx context.Context, token, machineID string) ([]ExpiredItem, error) {
	return Get[[]ExpiredItem](ctx, c, "/v1/volunteer/machines/"+url.PathEscape(machineID)+"/expired-items", token)
}

// RemoveItem records that the caller took an expired item out of its machine.
func (c *Client) RemoveItem(ctx context.Context, token, itemID string) error {
	_, err := Post[map[string]string](ctx, c, "/v1/volunteer/food-items/"+url.PathEscape(itemID)+"/remove", token, nil)
	return err
}
