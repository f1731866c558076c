package service

import (
	"testing"

	"fitbook/internal/domain/member"
	"fitbook/internal/infrastructure/repository"
)

func TestMemberService_CreateMember(t *testing.T) {
	memberRepo := repository.NewMockMemberRepository()
	memberService := NewMemberService(memberRepo)

	req := &member.CreateMemberRequest{
		Email:     "test.member@example.com",
		FirstName: "Test",
		LastName:  "Member",
	}

	m, err := memberService.CreateMember(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if m == nil {
		t.Fatal("Expected member to be created, got nil")
	}

	if m.Email != req.Email {
		t.Errorf("Expected email %s, got %s", req.Email, m.Email)
	}

	if m.Role != "member" {
		t.Errorf("Expected default role member, got %s", m.Role)
	}

	if !m.Active {
		t.Error("Expected member to be active")
	}
}

func TestMemberService_CreateMember_DuplicateEmail(t *testing.T) {
	memberRepo := repository.NewMockMemberRepository()
	memberService := NewMemberService(memberRepo)

	req := &member.CreateMemberRequest{
		Email:     "maya.chen@example.com", // This email already exists in mock data
		FirstName: "Another",
		LastName:  "Maya",
	}

	m, err := memberService.CreateMember(req)
	if err == nil {
		t.Fatal("Expected error for duplicate email, got nil")
	}

	if m != nil {
		t.Fatal("Expected nil member for duplicate email, got member")
	}

	expectedError := "member with this email already exists"
	if err.Error() != expectedError {
		t.Errorf("Expected error message '%s', got '%s'", expectedError, err.Error())
	}
}

func TestMemberService_GetMember(t *testing.T) {
	memberRepo := repository.NewMockMemberRepository()
	memberService := NewMemberService(memberRepo)

	// Get member by email first to get the ID (since mock IDs are generated)
	m, err := memberService.GetMemberByEmail("liam.ortega@example.com")
	if err != nil {
		t.Fatalf("Failed to get member by email: %v", err)
	}

	found, err := memberService.GetMember(m.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if found.ID != m.ID {
		t.Errorf("Expected member ID %s, got %s", m.ID, found.ID)
	}
}

func TestMemberService_UpdateMember(t *testing.T) {
	memberRepo := repository.NewMockMemberRepository()
	memberService := NewMemberService(memberRepo)

	m, err := memberService.GetMemberByEmail("liam.ortega@example.com")
	if err != nil {
		t.Fatalf("Failed to get member by email: %v", err)
	}

	newFirstName := "Liam-Updated"
	inactive := false

	updated, err := memberService.UpdateMember(m.ID, &member.UpdateMemberRequest{
		FirstName: &newFirstName,
		Active:    &inactive,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.FirstName != newFirstName {
		t.Errorf("Expected first name %s, got %s", newFirstName, updated.FirstName)
	}

	if updated.Active {
		t.Error("Expected member to be deactivated")
	}
}

func TestMemberService_UpdateMember_EmailTaken(t *testing.T) {
	memberRepo := repository.NewMockMemberRepository()
	memberService := NewMemberService(memberRepo)

	m, err := memberService.GetMemberByEmail("liam.ortega@example.com")
	if err != nil {
		t.Fatalf("Failed to get member by email: %v", err)
	}

	takenEmail := "maya.chen@example.com"
	_, err = memberService.UpdateMember(m.ID, &member.UpdateMemberRequest{Email: &takenEmail})
	if err == nil {
		t.Fatal("Expected error for taken email, got nil")
	}
}

func TestMemberService_DeleteMember(t *testing.T) {
	memberRepo := repository.NewMockMemberRepository()
	memberService := NewMemberService(memberRepo)

	m, err := memberService.GetMemberByEmail("sofia.berg@example.com")
	if err != nil {
		t.Fatalf("Failed to get member by email: %v", err)
	}

	if err := memberService.DeleteMember(m.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := memberService.GetMember(m.ID); err == nil {
		t.Fatal("Expected error getting deleted member, got nil")
	}
}

func TestMemberService_ListMembers(t *testing.T) {
	memberRepo := repository.NewMockMemberRepository()
	memberService := NewMemberService(memberRepo)

	members, err := memberService.ListMembers(10, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(members) != 3 {
		t.Errorf("Expected 3 seeded members, got %d", len(members))
	}
}
