// AngelaMos | 2026
// repository.go

package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
)

const topCompaniesLimit = 5

var ErrUnscoped = errors.New("contact query without tenant scope")

// Scope pins every repository call to one tenant. The zero value is
// rejected before any SQL is built.
type Scope struct {
	tenantID string
}

func NewScope(tenantID string) (Scope, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return Scope{}, ErrUnscoped
	}
	return Scope{tenantID: tenantID}, nil
}

func ScopeOf(p core.Principal) (Scope, error) {
	if p.IsZero() {
		return Scope{}, ErrUnscoped
	}
	return NewScope(p.TenantID)
}

func (s Scope) TenantID() string {
	return s.tenantID
}

func (s Scope) check() error {
	if s.tenantID == "" {
		return ErrUnscoped
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, scope Scope, userID string, f Fields) (*Contact, error)
	Find(
		ctx context.Context,
		scope Scope,
		filter Filter,
		page core.PageRequest,
	) ([]Contact, int, error)
	FindOne(ctx context.Context, scope Scope, id string) (*Contact, error)
	Update(ctx context.Context, scope Scope, id string, ch Changes) (*Contact, error)
	SoftDelete(ctx context.Context, scope Scope, id string) error
	ExistsByEmail(
		ctx context.Context,
		scope Scope,
		email, excludeID string,
	) (bool, error)
	Stats(ctx context.Context, scope Scope, since time.Time) (*Stats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var contactColumns = []string{
	"c.id",
	"c.tenant_id",
	"c.user_id",
	"COALESCE(u.email, '') AS owner_email",
	"c.name",
	"c.email",
	"c.phone",
	"c.company",
	"c.position",
	"c.address",
	"c.notes",
	"c.tags",
	"c.is_active",
	"c.created_at",
	"c.updated_at",
}

// active returns a SELECT over the scope's live contacts.
func active(scope Scope, columns ...string) sq.SelectBuilder {
	return psql.Select(columns...).
		From("contacts c").
		Where(sq.Eq{"c.tenant_id": scope.tenantID}).
		Where(sq.Eq{"c.is_active": true})
}

func withOwner(q sq.SelectBuilder) sq.SelectBuilder {
	return q.LeftJoin("users u ON u.id = c.user_id")
}

func applyFilter(q sq.SelectBuilder, filter Filter) sq.SelectBuilder {
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		q = q.Where(sq.Or{
			sq.ILike{"c.name": pattern},
			sq.ILike{"c.email": pattern},
			sq.ILike{"c.company": pattern},
			sq.ILike{"c.phone": pattern},
		})
	}

	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		q = q.Where("? = ANY(c.tags)", tag)
	}

	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// isContactID reports whether id could name a contact at all. Anything else
// is answered with not found, same as an id owned by another tenant.
func isContactID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *repository) Create(
	ctx context.Context,
	scope Scope,
	userID string,
	f Fields,
) (*Contact, error) {
	if err := scope.check(); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	id := uuid.New().String()

	query, args, err := psql.Insert("contacts").
		Columns(
			"id", "tenant_id", "user_id", "name", "email", "phone",
			"company", "position", "address", "notes", "tags",
		).
		Values(
			id, scope.tenantID, userID, f.Name, f.Email, f.Phone,
			f.Company, f.Position, f.Address, f.Notes, tagArray(f.Tags),
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("create contact: %w", core.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("create contact: %w", err)
	}

	return r.FindOne(ctx, scope, id)
}

func (r *repository) Find(
	ctx context.Context,
	scope Scope,
	filter Filter,
	page core.PageRequest,
) ([]Contact, int, error) {
	if err := scope.check(); err != nil {
		return nil, 0, fmt.Errorf("find contacts: %w", err)
	}
	page.Normalize()

	countQuery, countArgs, err := applyFilter(active(scope, "COUNT(*)"), filter).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	//nolint:gosec // G115: page bounds are clamped by Normalize
	listQuery, listArgs, err := applyFilter(withOwner(active(scope, contactColumns...)), filter).
		OrderBy("c.created_at DESC", "c.id DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list: %w", err)
	}

	contacts := []Contact{}
	if err := r.db.SelectContext(ctx, &contacts, listQuery, listArgs...); err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}

	return contacts, total, nil
}

func (r *repository) FindOne(
	ctx context.Context,
	scope Scope,
	id string,
) (*Contact, error) {
	if err := scope.check(); err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	if !isContactID(id) {
		return nil, fmt.Errorf("find contact: %w", core.ErrNotFound)
	}

	query, args, err := withOwner(active(scope, contactColumns...)).
		Where(sq.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find: %w", err)
	}

	var c Contact
	err = r.db.GetContext(ctx, &c, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find contact: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}

	return &c, nil
}

func (r *repository) Update(
	ctx context.Context,
	scope Scope,
	id string,
	ch Changes,
) (*Contact, error) {
	if err := scope.check(); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}
	if !isContactID(id) {
		return nil, fmt.Errorf("update contact: %w", core.ErrNotFound)
	}

	query, args, err := psql.Update("contacts").
		SetMap(changeSet(ch)).
		Where(sq.Eq{"tenant_id": scope.tenantID}).
		Where(sq.Eq{"is_active": true}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("update contact: %w", core.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}

	if err := requireOneRow(result); err != nil {
		return nil, fmt.Errorf("update contact: %w", err)
	}

	return r.FindOne(ctx, scope, id)
}

func (r *repository) SoftDelete(ctx context.Context, scope Scope, id string) error {
	if err := scope.check(); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if !isContactID(id) {
		return fmt.Errorf("delete contact: %w", core.ErrNotFound)
	}

	query, args, err := psql.Update("contacts").
		Set("is_active", false).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"tenant_id": scope.tenantID}).
		Where(sq.Eq{"is_active": true}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	if err := requireOneRow(result); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	return nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	scope Scope,
	email, excludeID string,
) (bool, error) {
	if err := scope.check(); err != nil {
		return false, fmt.Errorf("check contact email: %w", err)
	}

	q := active(scope, "1").Where(sq.Eq{"c.email": email})
	if excludeID != "" && isContactID(excludeID) {
		q = q.Where(sq.NotEq{"c.id": excludeID})
	}

	query, args, err := q.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists: %w", err)
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("check contact email: %w", err)
	}

	return exists, nil
}

func (r *repository) Stats(
	ctx context.Context,
	scope Scope,
	since time.Time,
) (*Stats, error) {
	if err := scope.check(); err != nil {
		return nil, fmt.Errorf("contact stats: %w", err)
	}

	stats := &Stats{TopCompanies: []CompanyCount{}}

	totalQuery, totalArgs, err := active(scope, "COUNT(*)").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build total: %w", err)
	}
	if err := r.db.GetContext(ctx, &stats.TotalContacts, totalQuery, totalArgs...); err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}

	recentQuery, recentArgs, err := active(scope, "COUNT(*)").
		Where(sq.GtOrEq{"c.created_at": since}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent: %w", err)
	}
	if err := r.db.GetContext(ctx, &stats.RecentContacts, recentQuery, recentArgs...); err != nil {
		return nil, fmt.Errorf("count recent contacts: %w", err)
	}

	topQuery, topArgs, err := active(scope, "c.company", "COUNT(*) AS count").
		Where(sq.NotEq{"c.company": ""}).
		GroupBy("c.company").
		OrderBy("count DESC", "c.company ASC").
		Limit(topCompaniesLimit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top companies: %w", err)
	}
	if err := r.db.SelectContext(ctx, &stats.TopCompanies, topQuery, topArgs...); err != nil {
		return nil, fmt.Errorf("top companies: %w", err)
	}

	return stats, nil
}

// tagArray never yields NULL; the column is NOT NULL.
func tagArray(tags []string) pq.StringArray {
	if tags == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(tags)
}

func requireOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// changeSet lists only the columns the update carries.
func changeSet(ch Changes) map[string]any {
	set := map[string]any{
		"name":       ch.Name,
		"email":      ch.Email,
		"phone":      ch.Phone,
		"updated_at": sq.Expr("NOW()"),
	}
	if ch.Company != nil {
		set["company"] = *ch.Company
	}
	if ch.Position != nil {
		set["position"] = *ch.Position
	}
	if ch.Address != nil {
		set["address"] = *ch.Address
	}
	if ch.Notes != nil {
		set["notes"] = *ch.Notes
	}
	if ch.Tags != nil {
		set["tags"] = tagArray(ch.Tags)
	}
	return set
}
