package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"review_relay/internal/adapters/observability"
	"review_relay/internal/domain"
)

// deliver flushes a captured review to the moderator and echoes it back to
// the submitter. Every send is attempted; failures are joined into the result.
func (s *ReviewService) deliver(ctx context.Context, e domain.ButtonPressed, rev domain.Session) error {
	var errs []error

	modErr := s.notifyModerator(ctx, e.User, rev)
	if modErr != nil {
		log.Error().Err(modErr).Int64("user", int64(e.User)).Msg("moderator delivery failed")
		errs = append(errs, modErr)
	}

	if err := s.edit(ctx, e.Message, thankYouText, nil); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, s.echo(ctx, e.Chat, rev)...)
	if err := s.send(ctx, e.Chat, sentText, startControls); err != nil {
		errs = append(errs, err)
	}

	observability.ObserveFinalized(outcome(s.moderator, rev, errs))
	return errors.Join(errs...)
}

func (s *ReviewService) notifyModerator(ctx context.Context, user domain.UserID, rev domain.Session) error {
	if s.moderator == 0 {
		log.Warn().Err(domain.ErrModeratorUnconfigured).Int64("user", int64(user)).Msg("review not forwarded")
		return nil
	}

	id, err := s.identities.ResolveIdentity(ctx, user)
	if err != nil {
		return fmt.Errorf("%w: user %d: %w", domain.ErrIdentityResolution, user, err)
	}

	var errs []error
	if err := s.send(ctx, s.moderator, header(id), nil); err != nil {
		errs = append(errs, err)
	}
	if len(rev.TextFragments) > 0 {
		if err := s.send(ctx, s.moderator, fmt.Sprintf(moderatorBody, rev.JoinedText()), nil); err != nil {
			errs = append(errs, err)
		}
	}
	caption := fmt.Sprintf(moderatorPhoto, id.DisplayName)
	for _, p := range rev.PhotoRefs {
		if err := s.sendPhoto(ctx, s.moderator, p, caption); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *ReviewService) echo(ctx context.Context, to domain.ChatID, rev domain.Session) []error {
	if rev.IsEmpty() {
		if err := s.send(ctx, to, emptyReviewText, nil); err != nil {
			return []error{err}
		}
		return nil
	}

	var errs []error
	if len(rev.TextFragments) > 0 {
		if err := s.send(ctx, to, rev.JoinedText(), nil); err != nil {
			errs = append(errs, err)
		}
	}
	for _, p := range rev.PhotoRefs {
		if err := s.sendPhoto(ctx, to, p, ""); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func outcome(moderator domain.ChatID, rev domain.Session, errs []error) string {
	switch {
	case len(errs) > 0:
		return "partial"
	case moderator == 0:
		return "unmoderated"
	case rev.IsEmpty():
		return "empty"
	default:
		return "delivered"
	}
}
