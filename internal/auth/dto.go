// AngelaMos | 2026
// dto.go

package auth

import (
	"strings"
	"time"

	"github.com/carterperez-dev/saasify-contacts/internal/core"
)

type RegisterRequest struct {
	TenantName string `json:"tenantName" validate:"required,min=2,max=50"`
	Email      string `json:"email"      validate:"required,email,max=255"`
	Password   string `json:"password"   validate:"required,min=6,max=128"`
}

// Normalize trims the tenant name and lowercases the email. The password is
// taken verbatim.
func (r *RegisterRequest) Normalize() {
	r.TenantName = strings.TrimSpace(r.TenantName)
	r.Email = normalizeEmail(r.Email)
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

func (r *LoginRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Role       core.Role `json:"role"`
	TenantID   string    `json:"tenantId"`
	TenantName string    `json:"tenantName"`
	CreatedAt  time.Time `json:"createdAt"`
}

type AuthResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

func toUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		TenantID:   u.TenantID,
		TenantName: u.TenantName,
		CreatedAt:  u.CreatedAt,
	}
}
