package service

import (
	"errors"
	"fmt"

	"fitbook/internal/domain/member"
	"fitbook/pkg/logger"

	"github.com/google/uuid"
)

// memberService implements the MemberService interface
type memberService struct {
	memberRepo member.MemberRepository
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo member.MemberRepository) member.MemberService {
	return &memberService{
		memberRepo: memberRepo,
	}
}

// CreateMember creates a new member profile
func (s *memberService) CreateMember(req *member.CreateMemberRequest) (*member.Member, error) {
	logger.Info("Creating member with email: %s", req.Email)

	// Check if a member already exists with this email
	existing, err := s.memberRepo.GetByEmail(req.Email)
	if err == nil && existing != nil {
		return nil, errors.New("member with this email already exists")
	}

	m := member.NewMember(req.Email, req.FirstName, req.LastName, req.Role)

	if err := s.memberRepo.Create(m); err != nil {
		logger.Error("Failed to create member: %v", err)
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	logger.Info("Member created successfully with ID: %s", m.ID)
	return m, nil
}

// GetMember retrieves a member by ID
func (s *memberService) GetMember(id uuid.UUID) (*member.Member, error) {
	logger.Debug("Getting member with ID: %s", id)

	m, err := s.memberRepo.GetByID(id)
	if err != nil {
		logger.Error("Failed to get member: %v", err)
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if m == nil {
		return nil, errors.New("member not found")
	}

	return m, nil
}

// GetMemberByEmail retrieves a member by email
func (s *memberService) GetMemberByEmail(email string) (*member.Member, error) {
	logger.Debug("Getting member with email: %s", email)

	m, err := s.memberRepo.GetByEmail(email)
	if err != nil {
		logger.Error("Failed to get member by email: %v", err)
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if m == nil {
		return nil, errors.New("member not found")
	}

	return m, nil
}

// UpdateMember updates an existing member profile
func (s *memberService) UpdateMember(id uuid.UUID, req *member.UpdateMemberRequest) (*member.Member, error) {
	logger.Info("Updating member with ID: %s", id)

	m, err := s.memberRepo.GetByID(id)
	if err != nil {
		logger.Error("Failed to get member for update: %v", err)
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if m == nil {
		return nil, errors.New("member not found")
	}

	if req.Email != nil {
		// Check if email is already taken by another member
		existing, err := s.memberRepo.GetByEmail(*req.Email)
		if err == nil && existing != nil && existing.ID != id {
			return nil, errors.New("email already taken")
		}
		m.Email = *req.Email
	}

	if req.FirstName != nil {
		m.FirstName = *req.FirstName
	}

	if req.LastName != nil {
		m.LastName = *req.LastName
	}

	if req.Active != nil {
		m.Active = *req.Active
	}

	if err := s.memberRepo.Update(m); err != nil {
		logger.Error("Failed to update member: %v", err)
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	logger.Info("Member updated successfully with ID: %s", m.ID)
	return m, nil
}

// DeleteMember deletes a member profile
func (s *memberService) DeleteMember(id uuid.UUID) error {
	logger.Info("Deleting member with ID: %s", id)

	m, err := s.memberRepo.GetByID(id)
	if err != nil {
		logger.Error("Failed to get member for deletion: %v", err)
		return fmt.Errorf("failed to get member: %w", err)
	}

	if m == nil {
		return errors.New("member not found")
	}

	if err := s.memberRepo.Delete(id); err != nil {
		logger.Error("Failed to delete member: %v", err)
		return fmt.Errorf("failed to delete member: %w", err)
	}

	logger.Info("Member deleted successfully with ID: %s", id)
	return nil
}

// ListMembers retrieves a list of members
func (s *memberService) ListMembers(limit, offset int) ([]*member.Member, error) {
	logger.Debug("Listing members with limit: %d, offset: %d", limit, offset)

	members, err := s.memberRepo.List(limit, offset)
	if err != nil {
		logger.Error("Failed to list members: %v", err)
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}
