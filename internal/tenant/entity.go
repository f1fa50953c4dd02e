// AngelaMos | 2026
// entity.go

package tenant

import (
	"time"
)

// Tenant is an isolated organization. It is immutable once created.
type Tenant struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}
