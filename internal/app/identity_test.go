package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"review_relay/internal/app"
	"review_relay/internal/domain"
)

func TestIdentity_CacheMissThenHit(t *testing.T) {
	r := &fakeResolver{ids: map[domain.UserID]domain.Identity{5: {UserID: 5, DisplayName: "Ann"}}}
	cache := &fakeCache{}
	s := app.NewIdentityService(r, cache, 10*time.Minute)

	// Miss (first time, populates cache)
	id, err := s.ResolveIdentity(context.Background(), 5)
	if err != nil || id.DisplayName != "Ann" {
		t.Fatalf("first resolve: %+v %v", id, err)
	}

	// Change the transport side to ensure the second read comes from cache
	r.ids[5] = domain.Identity{UserID: 5, DisplayName: "SHOULD NOT SEE THIS"}
	id, _ = s.ResolveIdentity(context.Background(), 5)
	if id.DisplayName != "Ann" || r.calls != 1 {
		t.Fatalf("expected cached identity, got %+v after %d calls", id, r.calls)
	}
}

func TestIdentity_CacheErrorFallsBackToResolver(t *testing.T) {
	r := &fakeResolver{}
	s := app.NewIdentityService(r, &fakeCache{getErr: errors.New("redis down")}, time.Minute)

	if _, err := s.ResolveIdentity(context.Background(), 9); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r.calls != 1 {
		t.Fatalf("resolver calls: %d", r.calls)
	}
}

func TestIdentity_ResolverErrorNotCached(t *testing.T) {
	r := &fakeResolver{err: errors.New("chat not found")}
	cache := &fakeCache{}
	s := app.NewIdentityService(r, cache, time.Minute)

	if _, err := s.ResolveIdentity(context.Background(), 9); err == nil {
		t.Fatalf("expected error")
	}
	if len(cache.store) != 0 {
		t.Fatalf("failed lookups must not be cached")
	}
}

func TestIdentity_WithoutCache(t *testing.T) {
	r := &fakeResolver{}
	s := app.NewIdentityService(r, nil, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := s.ResolveIdentity(context.Background(), 9); err != nil {
			t.Fatalf("resolve: %v", err)
		}
	}
	if r.calls != 2 {
		t.Fatalf("expected pass-through, got %d calls", r.calls)
	}
}
