package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"review_relay/internal/domain"
)

// IdentityService resolves display identities, read-through a Cache when one is set.
type IdentityService struct {
	resolver domain.IdentityResolver
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewIdentityService(r domain.IdentityResolver, c domain.Cache, ttl time.Duration) *IdentityService {
	return &IdentityService{resolver: r, cache: c, cacheTTL: ttl}
}

func (s *IdentityService) ResolveIdentity(ctx context.Context, u domain.UserID) (domain.Identity, error) {
	key := fmt.Sprintf("identity:%d", u)
	if s.cache != nil {
		var id domain.Identity
		ok, err := s.cache.Get(ctx, key, &id)
		if err != nil {
			log.Warn().Err(err).Int64("user", int64(u)).Msg("identity cache read failed")
		}
		if ok {
			return id, nil
		}
	}

	id, err := s.resolver.ResolveIdentity(ctx, u)
	if err != nil {
		return domain.Identity{}, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, id, int(s.cacheTTL.Seconds())); err != nil {
			log.Warn().Err(err).Int64("user", int64(u)).Msg("identity cache write failed")
		}
	}
	return id, nil
}
