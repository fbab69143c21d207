package technicians

import (
	"context"
	"time"

	"repairbot/platform/apperr"
	"repairbot/platform/logger"
)

// Service provides directory lookups and the placeholder lifecycle.
type Service struct {
	store          Store
	placeholderTTL time.Duration
	log            *logger.Logger
}

// NewService creates a new technician directory service. placeholderTTL caps
// how long a provisional registration stays claimable.
func NewService(store Store, placeholderTTL time.Duration, log *logger.Logger) *Service {
	return &Service{store: store, placeholderTTL: placeholderTTL, log: log}
}

// FindByName matches a technician by case-insensitive exact name.
func (s *Service) FindByName(ctx context.Context, name string) (Technician, error) {
	return s.store.FindByName(ctx, name)
}

// FindByHandle matches a technician by exact contact handle.
func (s *Service) FindByHandle(ctx context.Context, handle string) (Technician, error) {
	return s.store.FindByHandle(ctx, handle)
}

// Provision auto-registers a technician referenced by name but unknown to
// the directory. The placeholder handle is rebound when they first message
// the bot. Name uniqueness is enforced by the store, so two provisioning
// attempts for the same normalized name cannot collapse silently.
func (s *Service) Provision(ctx context.Context, name string) (Technician, error) {
	return s.store.Create(ctx, name, PlaceholderHandle(name))
}

// ResolvePlaceholder adopts the oldest outstanding placeholder registration
// for the incoming handle. This is a best-effort, unauthenticated claim:
// the first message from any unknown sender binds the placeholder. The TTL
// bounds how long that exposure lasts. At most one placeholder is resolved
// per inbound message, and senders already known to the directory never
// claim one.
func (s *Service) ResolvePlaceholder(ctx context.Context, incomingHandle string) (Technician, bool) {
	if _, err := s.store.FindByHandle(ctx, incomingHandle); err == nil {
		return Technician{}, false
	}

	cutoff := time.Now().Add(-s.placeholderTTL)
	pending, err := s.store.OldestPlaceholder(ctx, cutoff)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			s.log.DatabaseError("oldest placeholder", err)
		}
		return Technician{}, false
	}

	if err := s.store.UpdateHandle(ctx, pending.ID, incomingHandle); err != nil {
		s.log.DatabaseError("resolve placeholder", err)
		return Technician{}, false
	}

	pending.Handle = incomingHandle
	s.log.Info("technician placeholder resolved", "technician", pending.Name, "handle", incomingHandle)
	return pending, true
}
