package handlers

import (
	"net/http"
	"time"

	domain "fitbook/internal/domain/booking"
	serviceInterfaces "fitbook/internal/interfaces/service"
	"fitbook/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClassHandler handles class catalog HTTP requests
type ClassHandler struct {
	classService serviceInterfaces.ClassService
}

// NewClassHandler creates a new class handler
func NewClassHandler(classService serviceInterfaces.ClassService) *ClassHandler {
	return &ClassHandler{
		classService: classService,
	}
}

// CreateClass handles POST /api/v1/classes
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req serviceInterfaces.CreateClassRequest

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

	class, err := h.classService.CreateClass(c.Request.Context(), &req)
	if err != nil {
		status, message := bookingErrorStatus(err)
		c.JSON(status, APIResponse{
			Success: false,
			Message: message,
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Class created",
		Data:    class,
	})
}

// GetClass handles GET /api/v1/classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid class ID",
			Errors:  err.Error(),
		})
		return
	}

	class, err := h.classService.GetClass(c.Request.Context(), classID)
	if err != nil {
		status, message := bookingErrorStatus(err)
		c.JSON(status, APIResponse{
			Success: false,
			Message: message,
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    class,
	})
}

// UpdateClass handles PUT /api/v1/classes/:id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid class ID",
			Errors:  err.Error(),
		})
		return
	}

	var req serviceInterfaces.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	class, err := h.classService.UpdateClass(c.Request.Context(), classID, &req)
	if err != nil {
		status, message := bookingErrorStatus(err)
		c.JSON(status, APIResponse{
			Success: false,
			Message: message,
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Class updated",
		Data:    class,
	})
}

// DeleteClass handles DELETE /api/v1/classes/:id
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid class ID",
			Errors:  err.Error(),
		})
		return
	}

	if err := h.classService.DeleteClass(c.Request.Context(), classID); err != nil {
		status, message := bookingErrorStatus(err)
		c.JSON(status, APIResponse{
			Success: false,
			Message: message,
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Class deleted",
	})
}

// ListClasses handles GET /api/v1/classes with optional filters
func (h *ClassHandler) ListClasses(c *gin.Context) {
	var filter domain.ClassFilter

	if raw := c.Query("instructor_id"); raw != "" {
		instructorID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Message: "Invalid instructor_id filter",
				Errors:  err.Error(),
			})
			return
		}
		filter.InstructorID = &instructorID
	}

	if raw := c.Query("venue_id"); raw != "" {
		venueID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Message: "Invalid venue_id filter",
				Errors:  err.Error(),
			})
			return
		}
		filter.VenueID = &venueID
	}

	if raw := c.Query("category"); raw != "" {
		filter.Category = &raw
	}

	if raw := c.Query("starts_after"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Message: "Invalid starts_after filter, expected RFC3339",
				Errors:  err.Error(),
			})
			return
		}
		filter.StartsAfter = &t
	}

	if raw := c.Query("starts_before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Message: "Invalid starts_before filter, expected RFC3339",
				Errors:  err.Error(),
			})
			return
		}
		filter.StartsBefore = &t
	}

	classes, err := h.classService.ListClasses(c.Request.Context(), filter)
	if err != nil {
		status, message := bookingErrorStatus(err)
		c.JSON(status, APIResponse{
			Success: false,
			Message: message,
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    classes,
	})
}

// ListUpcomingClasses handles GET /api/v1/classes/upcoming
func (h *ClassHandler) ListUpcomingClasses(c *gin.Context) {
	classes, err := h.classService.UpcomingClasses(c.Request.Context())
	if err != nil {
		status, message := bookingErrorStatus(err)
		c.JSON(status, APIResponse{
			Success: false,
			Message: message,
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    classes,
	})
}

// AddReview handles POST /api/v1/classes/:id/reviews
func (h *ClassHandler) AddReview(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid class ID",
			Errors:  err.Error(),
		})
		return
	}

	var req serviceInterfaces.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	review, err := h.classService.AddReview(c.Request.Context(), classID, &req)
	if err != nil {
		status, message := bookingErrorStatus(err)
		c.JSON(status, APIResponse{
			Success: false,
			Message: message,
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Review added",
		Data:    review,
	})
}

// ListReviews handles GET /api/v1/classes/:id/reviews
func (h *ClassHandler) ListReviews(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid class ID",
			Errors:  err.Error(),
		})
		return
	}

	reviews, err := h.classService.ListReviews(c.Request.Context(), classID)
	if err != nil {
		status, message := bookingErrorStatus(err)
		c.JSON(status, APIResponse{
			Success: false,
			Message: message,
			Errors:  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    reviews,
	})
}
