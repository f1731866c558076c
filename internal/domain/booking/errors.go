package booking

import "errors"

var (
	// ErrClassNotFound is returned when a booking targets a nonexistent class
	ErrClassNotFound = errors.New("class not found")

	// ErrBookingNotFound is returned when a cancellation targets a nonexistent booking
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAlreadyBooked is returned when the user already holds an active
	// (confirmed or waitlisted) booking for the class
	ErrAlreadyBooked = errors.New("user already has an active booking for this class")

	// ErrInvalidTransition is returned when a status change violates the
	// booking state machine
	ErrInvalidTransition = errors.New("invalid booking status transition")

	// ErrPersistence is returned when the backing store fails or times out;
	// callers may retry
	ErrPersistence = errors.New("persistence failure")

	// ErrConcurrencyConflict is returned when a conditional write lost a race;
	// callers should retry the whole operation
	ErrConcurrencyConflict = errors.New("concurrent modification conflict")

	// ErrCapacityImmutable is returned when a class update attempts to change
	// max_participants
	ErrCapacityImmutable = errors.New("class capacity is fixed at creation")
)
