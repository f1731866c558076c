package booking

import (
	"time"

	"github.com/google/uuid"
)

// Instructor represents a class instructor
type Instructor struct {
	InstructorID uuid.UUID `json:"instructor_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	DisplayName  string    `json:"display_name" gorm:"not null"`
	Bio          *string   `json:"bio"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Venue represents a location where classes take place
type Venue struct {
	VenueID   uuid.UUID `json:"venue_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name      string    `json:"name" gorm:"not null"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Class represents a scheduled session with a fixed seat capacity.
// MaxParticipants is set at creation and never changed by booking operations.
// CurrentParticipants counts confirmed bookings only; it is a denormalized
// accelerator mutated solely by the booking store, in the same transaction as
// the booking write it accompanies. The confirmed-booking count in the store
// is the ground truth.
type Class struct {
	ClassID             uuid.UUID  `json:"class_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name                string     `json:"name" gorm:"not null"`
	InstructorID        uuid.UUID  `json:"instructor_id" gorm:"type:uuid;not null"`
	VenueID             uuid.UUID  `json:"venue_id" gorm:"type:uuid;not null"`
	Category            string     `json:"category" gorm:"not null"`
	Level               string     `json:"level" gorm:"not null;default:all"`
	StartsAt            time.Time  `json:"starts_at" gorm:"not null"`
	DurationMinutes     int        `json:"duration_minutes" gorm:"not null;check:duration_minutes > 0"`
	MaxParticipants     int        `json:"max_participants" gorm:"not null;check:max_participants > 0"`
	CurrentParticipants int        `json:"current_participants" gorm:"not null;default:0;check:current_participants >= 0"`
	CreatedAt           time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	Version             int        `json:"version" gorm:"default:1"`
	Instructor          Instructor `json:"instructor,omitempty" gorm:"foreignKey:InstructorID"`
	Venue               Venue      `json:"venue,omitempty" gorm:"foreignKey:VenueID"`
}

// EndsAt returns the scheduled end time of the class.
func (c *Class) EndsAt() time.Time {
	return c.StartsAt.Add(time.Duration(c.DurationMinutes) * time.Minute)
}

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed  BookingStatus = "confirmed"
	StatusWaitlisted BookingStatus = "waitlisted"
	StatusCancelled  BookingStatus = "cancelled"
)

// CanTransitionTo reports whether a booking may move from s to next.
// Cancelled is terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusConfirmed:
		return next == StatusCancelled
	case StatusWaitlisted:
		return next == StatusConfirmed || next == StatusCancelled
	default:
		return false
	}
}

// IsActive reports whether the status holds or queues for a seat.
func (s BookingStatus) IsActive() bool {
	return s == StatusConfirmed || s == StatusWaitlisted
}

// Booking represents a user's claim on a class seat. CreatedAt is the FIFO
// ordering key for waitlist promotion.
type Booking struct {
	BookingID uuid.UUID     `json:"booking_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ClassID   uuid.UUID     `json:"class_id" gorm:"type:uuid;not null"`
	UserID    uuid.UUID     `json:"user_id" gorm:"type:uuid;not null"`
	Status    BookingStatus `json:"status" gorm:"type:text;not null"`
	CreatedAt time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
	Class     Class         `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// NewBooking creates a booking in the given initial state.
func NewBooking(classID, userID uuid.UUID, status BookingStatus) *Booking {
	now := time.Now().UTC()
	return &Booking{
		BookingID: uuid.New(),
		ClassID:   classID,
		UserID:    userID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SeatDelta returns the confirmed-seat counter adjustment for a status
// transition.
func SeatDelta(from, to BookingStatus) int {
	switch {
	case from == StatusConfirmed && to == StatusCancelled:
		return -1
	case from == StatusWaitlisted && to == StatusConfirmed:
		return +1
	default:
		return 0
	}
}

// Review represents a member's review of a class. Reviews are removed when
// the class is deleted.
type Review struct {
	ReviewID  uuid.UUID `json:"review_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ClassID   uuid.UUID `json:"class_id" gorm:"type:uuid;not null"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Notification is a persisted record of a booking event delivered (best
// effort) to a user.
type Notification struct {
	NotificationID uuid.UUID     `json:"notification_id" gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	UserID         uuid.UUID     `json:"user_id" gorm:"type:uuid;not null"`
	ClassID        uuid.UUID     `json:"class_id" gorm:"type:uuid"`
	BookingID      uuid.UUID     `json:"booking_id" gorm:"type:uuid"`
	Kind           string        `json:"kind" gorm:"not null"`
	Status         BookingStatus `json:"status"`
	Message        string        `json:"message" gorm:"not null"`
	SentAt         time.Time     `json:"sent_at"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
}

// IdempotencyKey stores the outcome of a previously processed booking request
type IdempotencyKey struct {
	Key          string    `json:"key"`
	UserID       uuid.UUID `json:"user_id"`
	RequestHash  string    `json:"request_hash"`
	ResponseData string    `json:"response_data"`
	StatusCode   int       `json:"status_code"`
	ProcessedAt  time.Time `json:"processed_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsExpired reports whether the key has passed its expiry time
func (k *IdempotencyKey) IsExpired() bool {
	return time.Now().After(k.ExpiresAt)
}

// BookingFilter holds the composable filters accepted by listBookings.
type BookingFilter struct {
	ClassID *uuid.UUID
	UserID  *uuid.UUID
	Status  *BookingStatus
}

// ClassFilter holds the composable filters for catalog queries.
type ClassFilter struct {
	InstructorID *uuid.UUID
	VenueID      *uuid.UUID
	Category     *string
	StartsAfter  *time.Time
	StartsBefore *time.Time
}
