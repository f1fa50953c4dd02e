// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
	"time"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
)

type CreateUserRequest struct {
	Email    string    `json:"email"    validate:"required,email,max=255"`
	Password string    `json:"password" validate:"required,min=6,max=128"`
	Role     core.Role `json:"role"     validate:"required,oneof=admin manager user"`
}

func (r *CreateUserRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
	r.Role = core.Role(strings.ToLower(strings.TrimSpace(string(r.Role))))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserResponse struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	TenantName string    `json:"tenantName,omitempty"`
	Email      string    `json:"email"`
	Role       core.Role `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination core.PageMeta  `json:"pagination"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		TenantID:   u.TenantID,
		TenantName: u.TenantName,
		Email:      u.Email,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
