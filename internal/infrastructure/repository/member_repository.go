package repository

import (
	"errors"

	"fitbook/internal/domain/member"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberRepository implements MemberRepository using GORM
type MemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new GORM member repository
func NewMemberRepository(db *gorm.DB) member.MemberRepository {
	return &MemberRepository{
		db: db,
	}
}

// Create creates a new member profile
func (r *MemberRepository) Create(m *member.Member) error {
	return r.db.Create(m).Error
}

// GetByID retrieves a member by ID
func (r *MemberRepository) GetByID(id uuid.UUID) (*member.Member, error) {
	var m member.Member
	err := r.db.First(&m, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("member not found")
		}
		return nil, err
	}
	return &m, nil
}

// GetByEmail retrieves a member by email
func (r *MemberRepository) GetByEmail(email string) (*member.Member, error) {
	var m member.Member
	err := r.db.First(&m, "email = ?", email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("member not found")
		}
		return nil, err
	}
	return &m, nil
}

// Update updates an existing member profile
func (r *MemberRepository) Update(m *member.Member) error {
	return r.db.Save(m).Error
}

// Delete deletes a member profile
func (r *MemberRepository) Delete(id uuid.UUID) error {
	result := r.db.Delete(&member.Member{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("member not found")
	}
	return nil
}

// List retrieves members with pagination
func (r *MemberRepository) List(limit, offset int) ([]*member.Member, error) {
	var members []*member.Member
	err := r.db.Order("created_at ASC").Limit(limit).Offset(offset).Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
