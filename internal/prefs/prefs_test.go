package prefs

import (
	"context"
	"testing"

	"repairbot/platform/apperr"
	"repairbot/platform/logger"
)

type fakeStore struct {
	tz map[string]string
}

func (s *fakeStore) GetTZ(_ context.Context, handle string) (string, error) {
	tz, ok := s.tz[handle]
	if !ok {
		return "", apperr.NotFound("no preference")
	}
	return tz, nil
}

func (s *fakeStore) UpsertTZ(_ context.Context, handle, tz string) error {
	s.tz[handle] = tz
	return nil
}

func newTestService(store Store) *Service {
	return NewService(store, "Asia/Dubai", logger.New("development"))
}

func TestSetTZRejectsUnknownZone(t *testing.T) {
	store := &fakeStore{tz: make(map[string]string)}
	svc := newTestService(store)

	err := svc.SetTZ(context.Background(), "whatsapp:+971500000000", "Nowhere/Nothing")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.tz) != 0 {
		t.Fatalf("expected no preference stored")
	}
}

func TestSetTZStoresValidZone(t *testing.T) {
	store := &fakeStore{tz: make(map[string]string)}
	svc := newTestService(store)

	if err := svc.SetTZ(context.Background(), "whatsapp:+971500000000", "America/New_York"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.tz["whatsapp:+971500000000"] != "America/New_York" {
		t.Fatalf("expected preference stored, got %q", store.tz["whatsapp:+971500000000"])
	}
}

func TestLocationForFallsBackToDefault(t *testing.T) {
	svc := newTestService(&fakeStore{tz: make(map[string]string)})

	loc := svc.LocationFor(context.Background(), "whatsapp:+971500000000")
	if loc.String() != "Asia/Dubai" {
		t.Fatalf("expected default zone Asia/Dubai, got %s", loc)
	}
}

func TestLocationForUsesStoredPreference(t *testing.T) {
	store := &fakeStore{tz: map[string]string{"whatsapp:+971500000000": "America/New_York"}}
	svc := newTestService(store)

	loc := svc.LocationFor(context.Background(), "whatsapp:+971500000000")
	if loc.String() != "America/New_York" {
		t.Fatalf("expected stored zone, got %s", loc)
	}
}
