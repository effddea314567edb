package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/exes/food-network/internal/api/metrics"
	"github.com/exes/food-network/internal/core/domain"
	"github.com/exes/food-network/internal/core/ports"
)

const defaultMachineTokenTTL = 30 * 24 * time.Hour

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo      ports.AuthRepository
	revoked   ports.RevocationStore
	jwtSecret string
	tokenTTL  time.Duration

	machines      ports.MachineRepository
	machineAPIKey string
	machineTTL    time.Duration
}

// NewAuthService builds an AuthService. revoked may be nil, in which case
// logout cannot invalidate outstanding tokens.
func NewAuthService(repo ports.AuthRepository, revoked ports.RevocationStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:       repo,
		revoked:    revoked,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		machineTTL: defaultMachineTokenTTL,
	}
}

// WithMachineAuth enables device tokens for machines that present apiKey.
func (s *AuthService) WithMachineAuth(machines ports.MachineRepository, apiKey string) *AuthService {
	s.machines = machines
	s.machineAPIKey = apiKey
	return s
}

func (s *AuthService) Register(ctx context.Context, username, password, email, role string) (*domain.User, error) {
	if username == "" || password == "" || email == "" || role == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.IsSessionRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.sign(jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
	}, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Verify checks signature, expiry and revocation of token.
func (s *AuthService) Verify(ctx context.Context, token string) (*ports.Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		metrics.AuthVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	out := &ports.Claims{}
	out.TokenID, _ = claims["jti"].(string)
	out.Username, _ = claims["username"].(string)
	out.Role, _ = claims["role"].(string)
	out.MachineID, _ = claims["machine_id"].(string)
	if out.Role == "" {
		metrics.AuthVerificationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if s.revoked != nil && out.TokenID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, out.TokenID)
		if err != nil {
			metrics.AuthVerificationsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("verify token: %w", err)
		}
		if revoked {
			metrics.AuthVerificationsTotal.WithLabelValues("revoked").Inc()
			return nil, domain.ErrTokenRevoked
		}
	}
	metrics.AuthVerificationsTotal.WithLabelValues("ok").Inc()
	return out, nil
}

// Logout revokes token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.Verify(ctx, token)
	if err != nil {
		return err
	}
	if s.revoked == nil || claims.TokenID == "" {
		return nil
	}

	until := time.Now().Add(s.tokenTTL)
	if exp, err := expiry(token); err == nil {
		until = exp
	}
	return s.revoked.Revoke(ctx, claims.TokenID, until)
}

// IssueMachineToken authenticates a kiosk by shared API key.
func (s *AuthService) IssueMachineToken(ctx context.Context, machineID, apiKey string) (string, error) {
	if s.machines == nil || s.machineAPIKey == "" {
		return "", domain.ErrForbidden
	}
	if machineID == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.machineAPIKey)) != 1 {
		return "", domain.ErrInvalidCredentials
	}
	if _, err := s.machines.FindByID(ctx, machineID); err != nil {
		return "", err
	}
	return s.sign(jwt.MapClaims{
		"machine_id": machineID,
		"role":       domain.RoleMachine,
	}, s.machineTTL)
}

func (s *AuthService) sign(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims["jti"] = uuid.NewString()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// expiry reads the exp claim without re-validating the signature; callers must
// have verified the token first.
func expiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errors.New("token has no expiry")
	}
	return exp.Time, nil
}
