package member

import (
	"time"

	"github.com/google/uuid"
)

// Member represents a member profile. Identity and credentials live with the
// external auth provider; this record only carries what the read models need.
type Member struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Email     string    `json:"email" gorm:"unique;not null"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Role      string    `json:"role" gorm:"not null;default:member"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// CreateMemberRequest represents the request to create a member profile
type CreateMemberRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required,min=1,max=50"`
	LastName  string `json:"last_name" validate:"required,min=1,max=50"`
	Role      string `json:"role" validate:"omitempty,oneof=member instructor"`
}

// UpdateMemberRequest represents the request to update a member profile
type UpdateMemberRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	Active    *bool   `json:"active,omitempty"`
}

// NewMember creates a member with generated ID and timestamps
func NewMember(email, firstName, lastName, role string) *Member {
	if role == "" {
		role = "member"
	}
	now := time.Now()
	return &Member{
		ID:        uuid.New(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FullName returns the full name of the member
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// IsInstructor reports whether the member holds the instructor role
func (m *Member) IsInstructor() bool {
	return m.Role == "instructor"
}
