package member

import "github.com/google/uuid"

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	Create(m *Member) error
	GetByID(id uuid.UUID) (*Member, error)
	GetByEmail(email string) (*Member, error)
	Update(m *Member) error
	Delete(id uuid.UUID) error
	List(limit, offset int) ([]*Member, error)
}

// MemberService defines the interface for member profile logic
type MemberService interface {
	CreateMember(req *CreateMemberRequest) (*Member, error)
	GetMember(id uuid.UUID) (*Member, error)
	GetMemberByEmail(email string) (*Member, error)
	UpdateMember(id uuid.UUID, req *UpdateMemberRequest) (*Member, error)
	DeleteMember(id uuid.UUID) error
	ListMembers(limit, offset int) ([]*Member, error)
}
