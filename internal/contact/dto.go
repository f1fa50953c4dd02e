// AngelaMos | 2026
// dto.go

package contact

import (
	"strings"
	"time"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
)

type AddressRequest struct {
	Street  string `json:"street"  validate:"max=100"`
	City    string `json:"city"    validate:"max=100"`
	State   string `json:"state"   validate:"max=100"`
	ZipCode string `json:"zipCode" validate:"max=100"`
	Country string `json:"country" validate:"max=100"`
}

// ContactRequest is the body of create.
type ContactRequest struct {
	Name     string         `json:"name"     validate:"required,min=2,max=50"`
	Email    string         `json:"email"    validate:"required,email,max=255"`
	Phone    string         `json:"phone"    validate:"required,phone"`
	Company  string         `json:"company"  validate:"max=100"`
	Position string         `json:"position" validate:"max=100"`
	Address  AddressRequest `json:"address"`
	Notes    string         `json:"notes"    validate:"max=500"`
	Tags     []string       `json:"tags"     validate:"max=50,dive,max=20"`
}

// Normalize trims every string, lowercases the email and drops tags that
// are empty after trimming.
func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Company = strings.TrimSpace(r.Company)
	r.Position = strings.TrimSpace(r.Position)
	r.Notes = strings.TrimSpace(r.Notes)
	r.Address.normalize()
	r.Tags = cleanTags(r.Tags)
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

func (r ContactRequest) Fields() Fields {
	return Fields{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Company:  r.Company,
		Position: r.Position,
		Address:  r.Address.toAddress(),
		Notes:    r.Notes,
		Tags:     r.Tags,
	}
}

// UpdateRequest is the body of PUT. Name, email and phone are always
// required. A field left out of the body keeps its stored value; tags
// sent as an empty list are cleared.
type UpdateRequest struct {
	Name     string          `json:"name"     validate:"required,min=2,max=50"`
	Email    string          `json:"email"    validate:"required,email,max=255"`
	Phone    string          `json:"phone"    validate:"required,phone"`
	Company  *string         `json:"company"  validate:"omitempty,max=100"`
	Position *string         `json:"position" validate:"omitempty,max=100"`
	Address  *AddressRequest `json:"address"`
	Notes    *string         `json:"notes"    validate:"omitempty,max=500"`
	Tags     []string        `json:"tags"     validate:"max=50,dive,max=20"`
}

func (r *UpdateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	trimPtr(r.Company)
	trimPtr(r.Position)
	trimPtr(r.Notes)
	if r.Address != nil {
		r.Address.normalize()
	}
	r.Tags = cleanTags(r.Tags)
}

func (r UpdateRequest) Changes() Changes {
	ch := Changes{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Company:  r.Company,
		Position: r.Position,
		Notes:    r.Notes,
		Tags:     r.Tags,
	}
	if r.Address != nil {
		addr := r.Address.toAddress()
		ch.Address = &addr
	}
	return ch
}

func (a *AddressRequest) normalize() {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	a.Country = strings.TrimSpace(a.Country)
}

func (a AddressRequest) toAddress() Address {
	return Address{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// cleanTags trims tags and drops the blank ones. A nil list stays nil so
// an update can tell "not sent" from "cleared".
func cleanTags(in []string) []string {
	if in == nil {
		return nil
	}
	tags := make([]string, 0, len(in))
	for _, tag := range in {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

type ListParams struct {
	Page   int
	Limit  int
	Search string
	Tag    string
}

func (p ListParams) pageRequest() core.PageRequest {
	page := core.PageRequest{Page: p.Page, Limit: p.Limit}
	page.Normalize()
	return page
}

type OwnerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

type ContactResponse struct {
	ID        string        `json:"id"`
	TenantID  string        `json:"tenantId"`
	CreatedBy OwnerResponse `json:"createdBy"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Company   string        `json:"company"`
	Position  string        `json:"position"`
	Address   Address       `json:"address"`
	Notes     string        `json:"notes"`
	Tags      []string      `json:"tags"`
	IsActive  bool          `json:"isActive"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalContacts int  `json:"totalContacts"`
	HasNext       bool `json:"hasNext"`
	HasPrev       bool `json:"hasPrev"`
}

type ListResponse struct {
	Contacts   []ContactResponse `json:"contacts"`
	Pagination Pagination        `json:"pagination"`
}

type ContactEnvelope struct {
	Message string           `json:"message,omitempty"`
	Contact *ContactResponse `json:"contact,omitempty"`
}

type StatsResponse struct {
	Stats Stats `json:"stats"`
}

func ToContactResponse(c *Contact) ContactResponse {
	tags := []string(c.Tags)
	if tags == nil {
		tags = []string{}
	}

	return ContactResponse{
		ID:       c.ID,
		TenantID: c.TenantID,
		CreatedBy: OwnerResponse{
			ID:    c.UserID,
			Email: c.OwnerEmail,
		},
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Company:   c.Company,
		Position:  c.Position,
		Address:   c.Address,
		Notes:     c.Notes,
		Tags:      tags,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToListResponse(contacts []Contact, meta core.PageMeta) ListResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for i := range contacts {
		out = append(out, ToContactResponse(&contacts[i]))
	}

	return ListResponse{
		Contacts: out,
		Pagination: Pagination{
			CurrentPage:   meta.CurrentPage,
			TotalPages:    meta.TotalPages,
			TotalContacts: meta.Total,
			HasNext:       meta.HasNext,
			HasPrev:       meta.HasPrev,
		},
	}
}
