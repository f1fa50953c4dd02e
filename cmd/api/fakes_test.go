// AngelaMos | 2026
// fakes_test.go

package main

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/saasify-contacts/internal/contact"
	"github.com/carterperez-dev/saasify-contacts/internal/core"
	"github.com/carterperez-dev/saasify-contacts/internal/tenant"
	"github.com/carterperez-dev/saasify-contacts/internal/user"
)

// store backs every in-memory repository used by the router tests.
type store struct {
	mu       sync.Mutex
	tenants  map[string]tenant.Tenant
	users    map[string]user.User
	contacts []contact.Contact
}

func newStore() *store {
	return &store{
		tenants: map[string]tenant.Tenant{},
		users:   map[string]user.User{},
	}
}

func (s *store) InTx(_ context.Context, fn func(tx core.DBTX) error) error {
	return fn(nil)
}

type tenantRepo struct{ s *store }

func (r tenantRepo) Create(_ context.Context, t *tenant.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.CreatedAt = time.Now()
	r.s.tenants[t.ID] = *t
	return nil
}

func (r tenantRepo) GetByID(_ context.Context, id string) (*tenant.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tenants[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &t, nil
}

func (r tenantRepo) FindByName(_ context.Context, name string) (*tenant.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tenants {
		if t.Name == name {
			return &t, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r tenantRepo) WithTx(core.DBTX) tenant.Repository { return r }

type userRepo struct{ s *store }

func (r userRepo) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) withTenant(u user.User) *user.User {
	u.TenantName = r.s.tenants[u.TenantID].Name
	return &u
}

func (r userRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return r.withTenant(u), nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return r.withTenant(u), nil
		}
	}
	return nil, core.ErrNotFound
}

func (r userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r userRepo) ListByTenant(
	_ context.Context,
	tenantID string,
	_ core.PageRequest,
) ([]user.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []user.User
	for _, u := range r.s.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, len(out), nil
}

func (r userRepo) WithTx(core.DBTX) user.Repository { return r }

type contactRepo struct{ s *store }

func (r contactRepo) live(scope contact.Scope) []int {
	var idx []int
	for i, c := range r.s.contacts {
		if c.TenantID == scope.TenantID() && c.IsActive {
			idx = append(idx, i)
		}
	}
	return idx
}

func (r contactRepo) Create(
	_ context.Context,
	scope contact.Scope,
	userID string,
	f contact.Fields,
) (*contact.Contact, error) {
	if scope.TenantID() == "" {
		return nil, contact.ErrUnscoped
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().Add(time.Duration(len(r.s.contacts)) * time.Millisecond)
	c := contact.Contact{
		ID:        uuid.New().String(),
		TenantID:  scope.TenantID(),
		UserID:    userID,
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Company:   f.Company,
		Position:  f.Position,
		Address:   f.Address,
		Notes:     f.Notes,
		Tags:      f.Tags,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.contacts = append(r.s.contacts, c)
	return &c, nil
}

func (r contactRepo) Find(
	_ context.Context,
	scope contact.Scope,
	filter contact.Filter,
	page core.PageRequest,
) ([]contact.Contact, int, error) {
	if scope.TenantID() == "" {
		return nil, 0, contact.ErrUnscoped
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	page.Normalize()

	var matched []contact.Contact
	for _, i := range r.live(scope) {
		c := r.s.contacts[i]
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(c.Name+" "+c.Email), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := min(page.Offset(), total)
	end := min(start+page.Limit, total)
	return matched[start:end], total, nil
}

func (r contactRepo) FindOne(_ context.Context, scope contact.Scope, id string) (*contact.Contact, error) {
	if scope.TenantID() == "" {
		return nil, contact.ErrUnscoped
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.live(scope) {
		if r.s.contacts[i].ID == id {
			c := r.s.contacts[i]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("find contact: %w", core.ErrNotFound)
}

func (r contactRepo) Update(
	_ context.Context,
	scope contact.Scope,
	id string,
	ch contact.Changes,
) (*contact.Contact, error) {
	if scope.TenantID() == "" {
		return nil, contact.ErrUnscoped
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.live(scope) {
		c := &r.s.contacts[i]
		if c.ID == id {
			c.Name, c.Email, c.Phone = ch.Name, ch.Email, ch.Phone
			if ch.Company != nil {
				c.Company = *ch.Company
			}
			if ch.Position != nil {
				c.Position = *ch.Position
			}
			if ch.Address != nil {
				c.Address = *ch.Address
			}
			if ch.Notes != nil {
				c.Notes = *ch.Notes
			}
			if ch.Tags != nil {
				c.Tags = ch.Tags
			}
			c.UpdatedAt = time.Now()
			out := *c
			return &out, nil
		}
	}
	return nil, fmt.Errorf("update contact: %w", core.ErrNotFound)
}

func (r contactRepo) SoftDelete(_ context.Context, scope contact.Scope, id string) error {
	if scope.TenantID() == "" {
		return contact.ErrUnscoped
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.live(scope) {
		if r.s.contacts[i].ID == id {
			r.s.contacts[i].IsActive = false
			return nil
		}
	}
	return fmt.Errorf("delete contact: %w", core.ErrNotFound)
}

func (r contactRepo) ExistsByEmail(
	_ context.Context,
	scope contact.Scope,
	email, excludeID string,
) (bool, error) {
	if scope.TenantID() == "" {
		return false, contact.ErrUnscoped
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, i := range r.live(scope) {
		c := r.s.contacts[i]
		if c.Email == email && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r contactRepo) Stats(
	_ context.Context,
	scope contact.Scope,
	since time.Time,
) (*contact.Stats, error) {
	if scope.TenantID() == "" {
		return nil, contact.ErrUnscoped
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stats := &contact.Stats{TopCompanies: []contact.CompanyCount{}}
	counts := map[string]int{}
	for _, i := range r.live(scope) {
		c := r.s.contacts[i]
		stats.TotalContacts++
		if !c.CreatedAt.Before(since) {
			stats.RecentContacts++
		}
		if c.Company != "" {
			counts[c.Company]++
		}
	}
	for company, n := range counts {
		stats.TopCompanies = append(stats.TopCompanies, contact.CompanyCount{Company: company, Count: n})
	}
	sort.Slice(stats.TopCompanies, func(i, j int) bool {
		a, b := stats.TopCompanies[i], stats.TopCompanies[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Company < b.Company
	})
	return stats, nil
}
