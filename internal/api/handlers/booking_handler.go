package handlers

import (
	"context"
	"errors"
	"net/http"

	domain "fitbook/internal/domain/booking"
	serviceInterfaces "fitbook/internal/interfaces/service"
	"fitbook/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	bookingService serviceInterfaces.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService serviceInterfaces.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req serviceInterfaces.CreateBookingRequest

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

	req.IdempotencyKey = c.GetString("idempotency_key")

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		status, message := bookingErrorStatus(err)
		c.JSON(status, APIResponse{
			Success: false,
			Message: message,
			Errors:  err.Error(),
		})
		return
	}

	message := "Booking confirmed"
	if booking.Status == domain.StatusWaitlisted {
		message = "Class is full; booking added to the waitlist"
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    booking,
	})
}

// CancelBooking handles DELETE /api/v1/bookings/:id
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid booking ID",
			Errors:  err.Error(),
		})
		return
	}

	if err := h.bookingService.CancelBooking(c.Request.Context(), bookingID); err != nil {
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
		Message: "Booking cancelled",
	})
}

// GetBooking handles GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid booking ID",
			Errors:  err.Error(),
		})
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), bookingID)
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
		Data:    booking,
	})
}

// ListBookings handles GET /api/v1/bookings with optional class_id, user_id
// and status query filters
func (h *BookingHandler) ListBookings(c *gin.Context) {
	var filter domain.BookingFilter

	if raw := c.Query("class_id"); raw != "" {
		classID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Message: "Invalid class_id filter",
				Errors:  err.Error(),
			})
			return
		}
		filter.ClassID = &classID
	}

	if raw := c.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Message: "Invalid user_id filter",
				Errors:  err.Error(),
			})
			return
		}
		filter.UserID = &userID
	}

	if raw := c.Query("status"); raw != "" {
		status := domain.BookingStatus(raw)
		switch status {
		case domain.StatusConfirmed, domain.StatusWaitlisted, domain.StatusCancelled:
			filter.Status = &status
		default:
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Message: "Invalid status filter",
			})
			return
		}
	}

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), filter)
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
		Data:    bookings,
	})
}

// GetUpcomingForMember handles GET /api/v1/members/:member_id/bookings/upcoming
func (h *BookingHandler) GetUpcomingForMember(c *gin.Context) {
	h.memberBookings(c, h.bookingService.UpcomingClassesForUser)
}

// GetPastForMember handles GET /api/v1/members/:member_id/bookings/past
func (h *BookingHandler) GetPastForMember(c *gin.Context) {
	h.memberBookings(c, h.bookingService.PastClassesForUser)
}

// GetClassParticipants handles GET /api/v1/classes/:id/participants
func (h *BookingHandler) GetClassParticipants(c *gin.Context) {
	h.classBookings(c, h.bookingService.ClassParticipants)
}

// GetClassWaitlist handles GET /api/v1/classes/:id/waitlist
func (h *BookingHandler) GetClassWaitlist(c *gin.Context) {
	h.classBookings(c, h.bookingService.ClassWaitlist)
}

func (h *BookingHandler) memberBookings(c *gin.Context, list func(ctx context.Context, userID uuid.UUID) ([]*domain.Booking, error)) {
	userID, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid member ID",
			Errors:  err.Error(),
		})
		return
	}

	bookings, err := list(c.Request.Context(), userID)
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
		Data:    bookings,
	})
}

func (h *BookingHandler) classBookings(c *gin.Context, list func(ctx context.Context, classID uuid.UUID) ([]*domain.Booking, error)) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid class ID",
			Errors:  err.Error(),
		})
		return
	}

	bookings, err := list(c.Request.Context(), classID)
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
		Data:    bookings,
	})
}

// bookingErrorStatus maps domain errors to HTTP statuses
func bookingErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrClassNotFound):
		return http.StatusNotFound, "Class not found"
	case errors.Is(err, domain.ErrBookingNotFound):
		return http.StatusNotFound, "Booking not found"
	case errors.Is(err, domain.ErrAlreadyBooked):
		return http.StatusConflict, "An active booking for this class already exists"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return http.StatusConflict, "The booking changed underneath this request; retry"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "The booking cannot move to the requested state"
	case errors.Is(err, domain.ErrCapacityImmutable):
		return http.StatusUnprocessableEntity, "Class capacity cannot be changed after creation"
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusInternalServerError, "Storage is unavailable; retry later"
	default:
		return http.StatusInternalServerError, "Booking operation failed"
	}
}
