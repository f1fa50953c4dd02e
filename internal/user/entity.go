// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
)

// User belongs to exactly one tenant for its whole life. Email is unique
// across all tenants.
type User struct {
	ID           string    `db:"id"`
	TenantID     string    `db:"tenant_id"`
	TenantName   string    `db:"tenant_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         core.Role `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == core.RoleAdmin
}
