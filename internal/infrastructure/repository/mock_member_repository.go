package repository

import (
	"errors"
	"sync"
	"time"

	"fitbook/internal/domain/member"

	"github.com/google/uuid"
)

// mockMemberRepository is an in-memory implementation of MemberRepository for testing/demo purposes
type mockMemberRepository struct {
	members map[uuid.UUID]*member.Member
	mutex   sync.RWMutex
}

// NewMockMemberRepository creates a new mock member repository
func NewMockMemberRepository() member.MemberRepository {
	repo := &mockMemberRepository{
		members: make(map[uuid.UUID]*member.Member),
		mutex:   sync.RWMutex{},
	}

	// Add some sample data
	repo.seedData()
	return repo
}

// Create creates a new member
func (r *mockMemberRepository) Create(m *member.Member) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.members[m.ID]; exists {
		return errors.New("member already exists")
	}

	for _, existing := range r.members {
		if existing.Email == m.Email {
			return errors.New("email already exists")
		}
	}

	r.members[m.ID] = m
	return nil
}

// GetByID retrieves a member by ID
func (r *mockMemberRepository) GetByID(id uuid.UUID) (*member.Member, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	m, exists := r.members[id]
	if !exists {
		return nil, errors.New("member not found")
	}

	return m, nil
}

// GetByEmail retrieves a member by email
func (r *mockMemberRepository) GetByEmail(email string) (*member.Member, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, m := range r.members {
		if m.Email == email {
			return m, nil
		}
	}

	return nil, errors.New("member not found")
}

// Update updates an existing member
func (r *mockMemberRepository) Update(m *member.Member) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.members[m.ID]; !exists {
		return errors.New("member not found")
	}

	for id, existing := range r.members {
		if id != m.ID && existing.Email == m.Email {
			return errors.New("email already exists")
		}
	}

	m.UpdatedAt = time.Now()
	r.members[m.ID] = m
	return nil
}

// Delete deletes a member
func (r *mockMemberRepository) Delete(id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.members[id]; !exists {
		return errors.New("member not found")
	}

	delete(r.members, id)
	return nil
}

// List retrieves members with pagination
func (r *mockMemberRepository) List(limit, offset int) ([]*member.Member, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var members []*member.Member
	count := 0

	for _, m := range r.members {
		if count >= offset {
			members = append(members, m)
			if len(members) >= limit {
				break
			}
		}
		count++
	}

	return members, nil
}

// seedData adds some sample members for demonstration
func (r *mockMemberRepository) seedData() {
	sampleMembers := []*member.Member{
		{
			ID:        uuid.New(),
			Email:     "maya.chen@example.com",
			FirstName: "Maya",
			LastName:  "Chen",
			Role:      "instructor",
			Active:    true,
			CreatedAt: time.Now().Add(-72 * time.Hour),
			UpdatedAt: time.Now().Add(-72 * time.Hour),
		},
		{
			ID:        uuid.New(),
			Email:     "liam.ortega@example.com",
			FirstName: "Liam",
			LastName:  "Ortega",
			Role:      "member",
			Active:    true,
			CreatedAt: time.Now().Add(-24 * time.Hour),
			UpdatedAt: time.Now().Add(-24 * time.Hour),
		},
		{
			ID:        uuid.New(),
			Email:     "sofia.berg@example.com",
			FirstName: "Sofia",
			LastName:  "Berg",
			Role:      "member",
			Active:    false,
			CreatedAt: time.Now().Add(-6 * time.Hour),
			UpdatedAt: time.Now().Add(-1 * time.Hour),
		},
	}

	for _, m := range sampleMembers {
		r.members[m.ID] = m
	}
}
