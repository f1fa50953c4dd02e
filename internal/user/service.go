// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carterperez-dev/saasify-contacts/internal/auth"
	"github.com/carterperez-dev/saasify-contacts/internal/core"
	"github.com/carterperez-dev/saasify-contacts/internal/tenant"
)

type Service struct {
	repo    Repository
	tenants tenant.Repository
	tx      core.TxRunner
	hasher  *core.PasswordHasher
}

func NewService(
	repo Repository,
	tenants tenant.Repository,
	tx core.TxRunner,
	hasher *core.PasswordHasher,
) *Service {
	return &Service{
		repo:    repo,
		tenants: tenants,
		tx:      tx,
		hasher:  hasher,
	}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// TenantOf reports the tenant a user belongs to. It is what the
// authentication gate checks a token's tenant claim against.
func (s *Service) TenantOf(ctx context.Context, userID string) (string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	return user.TenantID, nil
}

// RegisterTenant creates a tenant and its first admin in one transaction.
// Both uniqueness checks run before anything is written; the unique indexes
// settle any race that slips past them.
func (s *Service) RegisterTenant(
	ctx context.Context,
	tenantName, email, passwordHash string,
) (*auth.UserInfo, error) {
	email = normalizeEmail(email)

	_, err := s.tenants.FindByName(ctx, tenantName)
	switch {
	case err == nil:
		return nil, auth.ErrTenantExists
	case !errors.Is(err, core.ErrNotFound):
		return nil, fmt.Errorf("check tenant: %w", err)
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, auth.ErrEmailExists
	}

	t := &tenant.Tenant{
		ID:   uuid.New().String(),
		Name: tenantName,
	}

	user := &User{
		ID:           uuid.New().String(),
		TenantID:     t.ID,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         core.RoleAdmin,
	}

	err = s.tx.InTx(ctx, func(tx core.DBTX) error {
		if err := s.tenants.WithTx(tx).Create(ctx, t); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return auth.ErrTenantExists
			}
			return err
		}

		if err := s.repo.WithTx(tx).Create(ctx, user); err != nil {
			if errors.Is(err, core.ErrDuplicateKey) {
				return auth.ErrEmailExists
			}
			return err
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register tenant: %w", err)
	}

	user.TenantName = t.Name
	return toUserInfo(user), nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	principal core.Principal,
	page core.PageRequest,
) ([]User, core.PageMeta, error) {
	if err := core.Authorize(principal, core.RoleAdmin, core.RoleManager); err != nil {
		return nil, core.PageMeta{}, fmt.Errorf("list users: %w", err)
	}

	page.Normalize()

	users, total, err := s.repo.ListByTenant(ctx, principal.TenantID, page)
	if err != nil {
		return nil, core.PageMeta{}, err
	}

	return users, core.NewPageMeta(page, len(users), total), nil
}

// CreateUser adds a user to the caller's own tenant. There is no way to
// name a different tenant, and a tenant that no longer exists is treated
// as an unauthenticated caller.
func (s *Service) CreateUser(
	ctx context.Context,
	principal core.Principal,
	req CreateUserRequest,
) (*User, error) {
	if err := core.Authorize(principal, core.RoleAdmin); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	t, err := s.tenants.GetByID(ctx, principal.TenantID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("create user: %w: %w", core.ErrUnauthorized, err)
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New().String(),
		TenantID:     t.ID,
		TenantName:   t.Name,
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Role:         req.Role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, auth.ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		TenantID:     u.TenantID,
		TenantName:   u.TenantName,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
