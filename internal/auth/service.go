// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
	"github.com/carterperez-dev/saasify-contacts/internal/metrics"
)

const tracerScope = "saasify-contacts/auth"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownEmail       = errors.New("unknown email")
	ErrEmailExists        = errors.New("email already exists")
	ErrTenantExists       = errors.New("tenant already exists")
)

type UserInfo struct {
	ID           string
	TenantID     string
	TenantName   string
	Email        string
	PasswordHash string
	Role         core.Role
	CreatedAt    time.Time
}

// UserProvider is the credential store as seen by authentication.
// RegisterTenant must create the tenant and its first admin atomically and
// report ErrTenantExists or ErrEmailExists on conflicts.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	RegisterTenant(
		ctx context.Context,
		tenantName, email, passwordHash string,
	) (*UserInfo, error)
}

type Service struct {
	jwt          *JWTManager
	userProvider UserProvider
	hasher       *core.PasswordHasher
	metrics      *metrics.Metrics
}

func NewService(
	jwt *JWTManager,
	userProvider UserProvider,
	hasher *core.PasswordHasher,
	m *metrics.Metrics,
) *Service {
	return &Service{
		jwt:          jwt,
		userProvider: userProvider,
		hasher:       hasher,
		metrics:      m,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (resp *AuthResponse, err error) {
	ctx, span := core.StartSpan(ctx, tracerScope, "auth.register",
		attribute.String("tenant.name", req.TenantName),
	)
	defer func() {
		s.metrics.AuthAttempt("register", err)
		core.EndSpan(span, err)
	}()

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.RegisterTenant(
		ctx,
		req.TenantName,
		req.Email,
		passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("register tenant: %w", err)
	}

	s.metrics.TenantCreated()

	return s.createAuthResponse(user, "Tenant registered successfully")
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (resp *AuthResponse, err error) {
	ctx, span := core.StartSpan(ctx, tracerScope, "auth.login")
	defer func() {
		s.metrics.AuthAttempt("login", err)
		core.EndSpan(span, err)
	}()

	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _ = s.hasher.VerifyTimingSafe(req.Password, "")
			return nil, ErrUnknownEmail
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := s.hasher.VerifyTimingSafe(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	return s.createAuthResponse(user, "Login successful")
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	principal core.Principal,
) (*UserResponse, error) {
	if principal.IsZero() {
		return nil, fmt.Errorf("current user: %w", core.ErrUnauthorized)
	}

	user, err := s.userProvider.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *Service) createAuthResponse(
	user *UserInfo,
	message string,
) (*AuthResponse, error) {
	token, expiresAt, err := s.jwt.CreateAccessToken(AccessTokenClaims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResponse{
		Message:   message,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}, nil
}
