// AngelaMos | 2026
// service.go

package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
	"github.com/carterperez-dev/saasify-contacts/internal/metrics"
)

const (
	tracerScope  = "saasify-contacts/contact"
	recentWindow = 7 * 24 * time.Hour
)

var ErrDuplicateEmail = errors.New("contact with this email already exists")

type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(repo Repository, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		metrics: m,
		now:     time.Now,
	}
}

func (s *Service) trace(
	ctx context.Context,
	op string,
	principal core.Principal,
) (context.Context, func(error)) {
	ctx, span := core.StartSpan(ctx, tracerScope, "contact."+op,
		attribute.String("tenant.id", principal.TenantID),
	)
	return ctx, func(err error) {
		s.metrics.ContactOp(op, err)
		core.EndSpan(span, err)
	}
}

func (s *Service) Create(
	ctx context.Context,
	principal core.Principal,
	req ContactRequest,
) (c *Contact, err error) {
	ctx, done := s.trace(ctx, "create", principal)
	defer func() { done(err) }()

	scope, err := ScopeOf(principal)
	if err != nil {
		return nil, err
	}

	req.Normalize()

	exists, err := s.repo.ExistsByEmail(ctx, scope, req.Email, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	c, err = s.repo.Create(ctx, scope, principal.UserID, req.Fields())
	if err != nil {
		return nil, mapDuplicate(err)
	}

	return c, nil
}

func (s *Service) List(
	ctx context.Context,
	principal core.Principal,
	params ListParams,
) (contacts []Contact, meta core.PageMeta, err error) {
	ctx, done := s.trace(ctx, "list", principal)
	defer func() { done(err) }()

	scope, err := ScopeOf(principal)
	if err != nil {
		return nil, core.PageMeta{}, err
	}

	page := params.pageRequest()

	contacts, total, err := s.repo.Find(ctx, scope, Filter{
		Search: params.Search,
		Tag:    params.Tag,
	}, page)
	if err != nil {
		return nil, core.PageMeta{}, err
	}

	return contacts, core.NewPageMeta(page, len(contacts), total), nil
}

func (s *Service) Get(
	ctx context.Context,
	principal core.Principal,
	id string,
) (c *Contact, err error) {
	ctx, done := s.trace(ctx, "get", principal)
	defer func() { done(err) }()

	scope, err := ScopeOf(principal)
	if err != nil {
		return nil, err
	}

	return s.repo.FindOne(ctx, scope, id)
}

func (s *Service) Update(
	ctx context.Context,
	principal core.Principal,
	id string,
	req UpdateRequest,
) (c *Contact, err error) {
	ctx, done := s.trace(ctx, "update", principal)
	defer func() { done(err) }()

	scope, err := ScopeOf(principal)
	if err != nil {
		return nil, err
	}

	req.Normalize()

	if _, err := s.repo.FindOne(ctx, scope, id); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, scope, req.Email, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	c, err = s.repo.Update(ctx, scope, id, req.Changes())
	if err != nil {
		return nil, mapDuplicate(err)
	}

	return c, nil
}

func (s *Service) Delete(
	ctx context.Context,
	principal core.Principal,
	id string,
) (err error) {
	ctx, done := s.trace(ctx, "delete", principal)
	defer func() { done(err) }()

	scope, err := ScopeOf(principal)
	if err != nil {
		return err
	}

	return s.repo.SoftDelete(ctx, scope, id)
}

func (s *Service) Stats(
	ctx context.Context,
	principal core.Principal,
) (stats *Stats, err error) {
	ctx, done := s.trace(ctx, "stats", principal)
	defer func() { done(err) }()

	scope, err := ScopeOf(principal)
	if err != nil {
		return nil, err
	}

	return s.repo.Stats(ctx, scope, s.now().Add(-recentWindow))
}

func mapDuplicate(err error) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
	}
	return err
}
