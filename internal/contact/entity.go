// AngelaMos | 2026
// entity.go

package contact

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Contact is always owned by exactly one tenant. Deleted contacts keep
// their row with IsActive false and are invisible to every query.
type Contact struct {
	ID         string         `db:"id"`
	TenantID   string         `db:"tenant_id"`
	UserID     string         `db:"user_id"`
	OwnerEmail string         `db:"owner_email"`
	Name       string         `db:"name"`
	Email      string         `db:"email"`
	Phone      string         `db:"phone"`
	Company    string         `db:"company"`
	Position   string         `db:"position"`
	Address    Address        `db:"address"`
	Notes      string         `db:"notes"`
	Tags       pq.StringArray `db:"tags"`
	IsActive   bool           `db:"is_active"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

// Address is stored as a JSONB document.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}
	return string(b), nil
}

func (a *Address) Scan(src any) error {
	var raw []byte

	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan address: unsupported type %T", src)
	}

	if len(raw) == 0 {
		*a = Address{}
		return nil
	}

	return json.Unmarshal(raw, a)
}

// Fields is the caller-editable part of a new contact.
type Fields struct {
	Name     string
	Email    string
	Phone    string
	Company  string
	Position string
	Address  Address
	Notes    string
	Tags     []string
}

// Changes is a partial update. Name, Email and Phone are always written.
// Nil optional members keep their stored value.
type Changes struct {
	Name     string
	Email    string
	Phone    string
	Company  *string
	Position *string
	Address  *Address
	Notes    *string
	Tags     []string
}

type Filter struct {
	Search string
	Tag    string
}

type CompanyCount struct {
	Company string `db:"company" json:"company"`
	Count   int    `db:"count"   json:"count"`
}

type Stats struct {
	TotalContacts  int            `json:"totalContacts"`
	RecentContacts int            `json:"recentContacts"`
	TopCompanies   []CompanyCount `json:"topCompanies"`
}
