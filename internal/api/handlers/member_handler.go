package handlers

import (
	"net/http"
	"strconv"

	"fitbook/internal/domain/member"
	"fitbook/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MemberHandler handles member profile HTTP requests
type MemberHandler struct {
	memberService member.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService member.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// CreateMember handles POST /members
func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req member.CreateMemberRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		validationErrors := validator.FormatValidationError(err)
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validationErrors,
		})
		return
	}

	m, err := h.memberService.CreateMember(&req)
	if err != nil {
		c.JSON(http.StatusConflict, APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Member created successfully",
		Data:    m,
	})
}

// GetMember handles GET /members/:member_id
func (h *MemberHandler) GetMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid member ID format",
		})
		return
	}

	m, err := h.memberService.GetMember(id)
	if err != nil {
		c.JSON(http.StatusNotFound, APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    m,
	})
}

// GetMemberByEmail handles GET /members/email/:email
func (h *MemberHandler) GetMemberByEmail(c *gin.Context) {
	email := c.Param("email")

	m, err := h.memberService.GetMemberByEmail(email)
	if err != nil {
		c.JSON(http.StatusNotFound, APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    m,
	})
}

// UpdateMember handles PUT /members/:member_id
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid member ID format",
		})
		return
	}

	var req member.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		validationErrors := validator.FormatValidationError(err)
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validationErrors,
		})
		return
	}

	m, err := h.memberService.UpdateMember(id, &req)
	if err != nil {
		c.JSON(http.StatusConflict, APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Member updated successfully",
		Data:    m,
	})
}

// DeleteMember handles DELETE /members/:member_id
func (h *MemberHandler) DeleteMember(c *gin.Context) {
	id, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid member ID format",
		})
		return
	}

	if err := h.memberService.DeleteMember(id); err != nil {
		c.JSON(http.StatusNotFound, APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Member deleted successfully",
	})
}

// ListMembers handles GET /members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	limit := 10
	offset := 0

	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	members, err := h.memberService.ListMembers(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    members,
	})
}
