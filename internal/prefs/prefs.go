// Package prefs stores per-sender preferences. The only preference today is
// the timezone used to render local times in replies.
package prefs

import (
	"context"
	"time"

	"repairbot/platform/apperr"
	"repairbot/platform/logger"
)

// Store is the persistence interface for user preferences.
type Store interface {
	// GetTZ returns the timezone identifier for a sender handle.
	// Returns apperr.NotFound when the sender has no preference.
	GetTZ(ctx context.Context, handle string) (string, error)

	// UpsertTZ sets the timezone identifier for a sender handle.
	UpsertTZ(ctx context.Context, handle, tz string) error
}

// Service resolves sender timezones, falling back to the shop default.
type Service struct {
	store     Store
	defaultTZ string
	log       *logger.Logger
}

// NewService creates a new preferences service.
func NewService(store Store, defaultTZ string, log *logger.Logger) *Service {
	return &Service{store: store, defaultTZ: defaultTZ, log: log}
}

// SetTZ validates the timezone identifier against the timezone database and
// upserts the sender's preference.
func (s *Service) SetTZ(ctx context.Context, handle, tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return apperr.Validation("invalid timezone")
	}
	return s.store.UpsertTZ(ctx, handle, tz)
}

// LocationFor returns the sender's timezone, or the default when the sender
// has no valid preference.
func (s *Service) LocationFor(ctx context.Context, handle string) *time.Location {
	tz, err := s.store.GetTZ(ctx, handle)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			s.log.DatabaseError("get timezone preference", err)
		}
		tz = s.defaultTZ
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc, err = time.LoadLocation(s.defaultTZ)
		if err != nil {
			return time.UTC
		}
	}

	return loc
}

// NowFor formats the current local time for a sender.
func (s *Service) NowFor(ctx context.Context, handle string) string {
	return time.Now().In(s.LocationFor(ctx, handle)).Format("2006-01-02 15:04")
}
