package service

import (
	"context"

	domain "fitbook/internal/domain/booking"
	"fitbook/pkg/logger"
)

var _ domain.EventSink = (*LogEventSink)(nil)

// LogEventSink writes booking events to the structured log. It is the
// default sink when no external subscriber is wired in.
type LogEventSink struct{}

func NewLogEventSink() *LogEventSink {
	return &LogEventSink{}
}

func (s *LogEventSink) Publish(ctx context.Context, evt domain.Event) error {
	logger.WithFields(map[string]interface{}{
		"kind":       string(evt.Kind),
		"booking_id": evt.BookingID.String(),
		"class_id":   evt.ClassID.String(),
		"user_id":    evt.UserID.String(),
		"status":     string(evt.Status),
	}).Info("booking event")
	return nil
}
