// AngelaMos | 2026
// repository.go

package tenant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
)

type Repository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id string) (*Tenant, error)
	FindByName(ctx context.Context, name string) (*Tenant, error)
	WithTx(tx core.DBTX) Repository
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx core.DBTX) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, t *Tenant) error {
	query := `
		INSERT INTO tenants (id, name)
		VALUES ($1, $2)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &t.CreatedAt, query, t.ID, t.Name)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create tenant: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create tenant: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Tenant, error) {
	query := `SELECT id, name, created_at FROM tenants WHERE id = $1`

	var t Tenant
	err := r.db.GetContext(ctx, &t, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tenant: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tenant: %w", err)
	}

	return &t, nil
}

// FindByName matches case-sensitively; "Acme" and "acme" are different
// tenants.
func (r *repository) FindByName(
	ctx context.Context,
	name string,
) (*Tenant, error) {
	query := `SELECT id, name, created_at FROM tenants WHERE name = $1`

	var t Tenant
	err := r.db.GetContext(ctx, &t, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find tenant by name: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant by name: %w", err)
	}

	return &t, nil
}
