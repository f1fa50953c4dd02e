// AngelaMos | 2026
// service_test.go

package contact

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
	"github.com/carterperez-dev/saasify-contacts/internal/metrics"
)

// memRepo keys every contact by tenant exactly as the SQL repository
// filters it.
type memRepo struct {
	mu       sync.Mutex
	contacts []Contact
	clock    time.Time
}

func (m *memRepo) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memRepo) Create(_ context.Context, scope Scope, userID string, f Fields) (*Contact, error) {
	if err := scope.check(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.contacts {
		if c.TenantID == scope.tenantID && c.IsActive && c.Email == f.Email {
			return nil, fmt.Errorf("create contact: %w", core.ErrDuplicateKey)
		}
	}

	now := m.tick()
	c := Contact{
		ID:        uuid.New().String(),
		TenantID:  scope.tenantID,
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
	m.contacts = append(m.contacts, c)
	return &c, nil
}

func (m *memRepo) visible(scope Scope) []Contact {
	var out []Contact
	for _, c := range m.contacts {
		if c.TenantID == scope.tenantID && c.IsActive {
			out = append(out, c)
		}
	}
	return out
}

func (m *memRepo) Find(
	_ context.Context,
	scope Scope,
	filter Filter,
	page core.PageRequest,
) ([]Contact, int, error) {
	if err := scope.check(); err != nil {
		return nil, 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	page.Normalize()

	var matched []Contact
	for _, c := range m.visible(scope) {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(c.Name+" "+c.Email+" "+c.Company+" "+c.Phone), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Tag != "" && !containsTag(c.Tags, filter.Tag) {
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

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (m *memRepo) FindOne(_ context.Context, scope Scope, id string) (*Contact, error) {
	if err := scope.check(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.visible(scope) {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("find contact: %w", core.ErrNotFound)
}

func (m *memRepo) Update(_ context.Context, scope Scope, id string, ch Changes) (*Contact, error) {
	if err := scope.check(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.contacts {
		c := &m.contacts[i]
		if c.ID == id && c.TenantID == scope.tenantID && c.IsActive {
			applyChanges(c, ch)
			c.UpdatedAt = m.tick()
			out := *c
			return &out, nil
		}
	}
	return nil, fmt.Errorf("update contact: %w", core.ErrNotFound)
}

func applyChanges(c *Contact, ch Changes) {
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
}

func (m *memRepo) SoftDelete(_ context.Context, scope Scope, id string) error {
	if err := scope.check(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.contacts {
		c := &m.contacts[i]
		if c.ID == id && c.TenantID == scope.tenantID && c.IsActive {
			c.IsActive = false
			return nil
		}
	}
	return fmt.Errorf("delete contact: %w", core.ErrNotFound)
}

func (m *memRepo) ExistsByEmail(_ context.Context, scope Scope, email, excludeID string) (bool, error) {
	if err := scope.check(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.visible(scope) {
		if c.Email == email && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Stats(_ context.Context, scope Scope, since time.Time) (*Stats, error) {
	if err := scope.check(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &Stats{TopCompanies: []CompanyCount{}}
	counts := map[string]int{}
	for _, c := range m.visible(scope) {
		stats.TotalContacts++
		if !c.CreatedAt.Before(since) {
			stats.RecentContacts++
		}
		if c.Company != "" {
			counts[c.Company]++
		}
	}
	for company, n := range counts {
		stats.TopCompanies = append(stats.TopCompanies, CompanyCount{Company: company, Count: n})
	}
	sort.Slice(stats.TopCompanies, func(i, j int) bool {
		a, b := stats.TopCompanies[i], stats.TopCompanies[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Company < b.Company
	})
	if len(stats.TopCompanies) > topCompaniesLimit {
		stats.TopCompanies = stats.TopCompanies[:topCompaniesLimit]
	}
	return stats, nil
}

var (
	acmeUser = core.Principal{
		UserID:   "aaaaaaaa-0000-4000-8000-000000000001",
		TenantID: "aaaaaaaa-0000-4000-8000-00000000000a",
		Role:     core.RoleUser,
	}
	globexUser = core.Principal{
		UserID:   "bbbbbbbb-0000-4000-8000-000000000001",
		TenantID: "bbbbbbbb-0000-4000-8000-00000000000b",
		Role:     core.RoleAdmin,
	}
)

func newTestContactService() (*Service, *memRepo) {
	repo := &memRepo{clock: time.Now().Add(-time.Hour)}
	return NewService(repo, metrics.New("test")), repo
}

func validRequest(name, email string) ContactRequest {
	return ContactRequest{
		Name:  name,
		Email: email,
		Phone: "+15551234567",
	}
}

func validUpdate(name, email string) UpdateRequest {
	return UpdateRequest{
		Name:  name,
		Email: email,
		Phone: "+15551234567",
	}
}

func ptr[T any](v T) *T { return &v }

func TestService_CreateNormalizesInput(t *testing.T) {
	svc, _ := newTestContactService()

	c, err := svc.Create(context.Background(), acmeUser, ContactRequest{
		Name:    "  Bob Smith ",
		Email:   " Bob@Example.COM ",
		Phone:   " +15551234567 ",
		Company: " Initech ",
		Tags:    []string{" vip ", "", "   ", "lead"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bob Smith", c.Name)
	assert.Equal(t, "bob@example.com", c.Email)
	assert.Equal(t, "+15551234567", c.Phone)
	assert.Equal(t, "Initech", c.Company)
	assert.Equal(t, []string{"vip", "lead"}, []string(c.Tags))
	assert.Equal(t, acmeUser.TenantID, c.TenantID)
	assert.Equal(t, acmeUser.UserID, c.UserID)
}

func TestService_DuplicateEmailIsPerTenant(t *testing.T) {
	svc, _ := newTestContactService()
	ctx := context.Background()

	_, err := svc.Create(ctx, acmeUser, validRequest("Bob", "bob@x.io"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, acmeUser, validRequest("Bobby", "BOB@x.io"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = svc.Create(ctx, globexUser, validRequest("Bob", "bob@x.io"))
	assert.NoError(t, err)
}

func TestService_DeletedEmailCanBeReused(t *testing.T) {
	svc, _ := newTestContactService()
	ctx := context.Background()

	c, err := svc.Create(ctx, acmeUser, validRequest("Bob", "bob@x.io"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, acmeUser, c.ID))

	_, err = svc.Create(ctx, acmeUser, validRequest("Bob", "bob@x.io"))
	assert.NoError(t, err)
}

func TestService_CrossTenantAccessIsNotFound(t *testing.T) {
	svc, _ := newTestContactService()
	ctx := context.Background()

	c, err := svc.Create(ctx, acmeUser, validRequest("Bob", "bob@x.io"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, globexUser, c.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Update(ctx, globexUser, c.ID, validUpdate("Mallory", "m@x.io"))
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, globexUser, c.ID), core.ErrNotFound)

	got, err := svc.Get(ctx, acmeUser, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)
}

func TestService_ZeroPrincipalIsRejected(t *testing.T) {
	svc, _ := newTestContactService()

	_, _, err := svc.List(context.Background(), core.Principal{}, ListParams{})
	assert.ErrorIs(t, err, ErrUnscoped)
}

func TestService_ListPagination(t *testing.T) {
	svc, _ := newTestContactService()
	ctx := context.Background()

	for i := range 15 {
		_, err := svc.Create(ctx, acmeUser, validRequest(
			fmt.Sprintf("Contact %02d", i),
			fmt.Sprintf("c%02d@x.io", i),
		))
		require.NoError(t, err)
	}

	contacts, meta, err := svc.List(ctx, acmeUser, ListParams{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, contacts, 5)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 2, meta.TotalPages)
	assert.Equal(t, 15, meta.Total)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrev)
	assert.Equal(t, "Contact 04", contacts[0].Name)

	_, meta, err = svc.List(ctx, acmeUser, ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.True(t, meta.HasNext)
	assert.False(t, meta.HasPrev)

	_, meta, err = svc.List(ctx, globexUser, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 0, meta.Total)
}

func TestService_UpdateKeepsOmittedFields(t *testing.T) {
	svc, _ := newTestContactService()
	ctx := context.Background()

	c, err := svc.Create(ctx, acmeUser, ContactRequest{
		Name:     "Bob",
		Email:    "bob@x.io",
		Phone:    "+15551234567",
		Company:  "Initech",
		Position: "Engineer",
		Address:  AddressRequest{City: "Springfield"},
		Notes:    "met at the conference",
		Tags:     []string{"vip"},
	})
	require.NoError(t, err)

	other, err := svc.Create(ctx, acmeUser, validRequest("Alice", "alice@x.io"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, acmeUser, c.ID, validUpdate("Robert", "bob@x.io"))
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Name)
	assert.Equal(t, "Initech", updated.Company)
	assert.Equal(t, "Engineer", updated.Position)
	assert.Equal(t, "Springfield", updated.Address.City)
	assert.Equal(t, "met at the conference", updated.Notes)
	assert.Equal(t, []string{"vip"}, []string(updated.Tags))

	_, err = svc.Update(ctx, acmeUser, other.ID, validUpdate("Alice", "bob@x.io"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestService_UpdateWritesSentFields(t *testing.T) {
	svc, _ := newTestContactService()
	ctx := context.Background()

	c, err := svc.Create(ctx, acmeUser, ContactRequest{
		Name:    "Bob",
		Email:   "bob@x.io",
		Phone:   "+15551234567",
		Company: "Initech",
		Notes:   "keep",
		Tags:    []string{"vip"},
	})
	require.NoError(t, err)

	req := validUpdate("Bob", "bob@x.io")
	req.Company = ptr(" Globex ")
	req.Tags = []string{}

	updated, err := svc.Update(ctx, acmeUser, c.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Globex", updated.Company)
	assert.Empty(t, updated.Tags)
	assert.Equal(t, "keep", updated.Notes)
}

func TestService_Stats(t *testing.T) {
	svc, repo := newTestContactService()
	ctx := context.Background()

	companies := []string{"Initech", "Initech", "Globex", "", "Umbrella"}
	for i, company := range companies {
		req := validRequest(fmt.Sprintf("Person %d", i), fmt.Sprintf("p%d@x.io", i))
		req.Company = company
		_, err := svc.Create(ctx, acmeUser, req)
		require.NoError(t, err)
	}

	repo.contacts[0].CreatedAt = time.Now().Add(-30 * 24 * time.Hour)

	stats, err := svc.Stats(ctx, acmeUser)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.TotalContacts)
	assert.Equal(t, 4, stats.RecentContacts)
	require.Len(t, stats.TopCompanies, 3)
	assert.Equal(t, CompanyCount{Company: "Initech", Count: 2}, stats.TopCompanies[0])
}
