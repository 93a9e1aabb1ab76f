package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"review_relay/internal/domain"
)

// ReviewService runs the per-user review state machine. Events for one user
// must be handed to Handle in arrival order; see Dispatcher.
type ReviewService struct {
	store      domain.SessionStore
	messenger  domain.Messenger
	identities domain.IdentityResolver
	moderator  domain.ChatID
}

func NewReviewService(store domain.SessionStore, m domain.Messenger, ids domain.IdentityResolver, moderator domain.ChatID) *ReviewService {
	if moderator == 0 {
		log.Warn().Err(domain.ErrModeratorUnconfigured).Msg("reviews will not be forwarded to a moderator")
	}
	return &ReviewService{store: store, messenger: m, identities: ids, moderator: moderator}
}

// Handle applies one inbound event. A missing session is answered with the
// start instructions and is not an error.
func (s *ReviewService) Handle(ctx context.Context, ev domain.Event) error {
	switch e := ev.(type) {
	case domain.StartCommand:
		return s.send(ctx, e.Chat, welcome(e.Handle), startControls)
	case domain.ButtonPressed:
		return s.onButton(ctx, e)
	case domain.TextReceived:
		return s.onText(ctx, e)
	case domain.PhotoReceived:
		return s.onPhoto(ctx, e)
	default:
		return fmt.Errorf("unsupported event %T", ev)
	}
}

func (s *ReviewService) onButton(ctx context.Context, e domain.ButtonPressed) error {
	if err := s.messenger.AckAction(ctx, e.CallbackID); err != nil {
		log.Warn().Err(err).Int64("user", int64(e.User)).Msg("callback ack failed")
	}

	switch e.Action {
	case domain.ActionStartReview:
		s.store.Open(e.User)
		log.Info().Int64("user", int64(e.User)).Msg("review opened")
		return s.edit(ctx, e.Message, instructionsText, finishControls)

	case domain.ActionFinishReview:
		rev, ok := s.store.Take(e.User)
		if !ok {
			return s.edit(ctx, e.Message, noActiveReviewText, startControls)
		}
		log.Info().
			Int64("user", int64(e.User)).
			Int("fragments", len(rev.TextFragments)).
			Int("photos", len(rev.PhotoRefs)).
			Msg("review finished")
		return s.deliver(ctx, e, rev)

	default:
		log.Debug().Str("action", e.Action).Int64("user", int64(e.User)).Msg("ignoring unknown button")
		return nil
	}
}

func (s *ReviewService) onText(ctx context.Context, e domain.TextReceived) error {
	body := e.Body()
	if !s.store.Update(e.User, func(sess *domain.Session) { sess.AppendText(body) }) {
		return s.noSession(ctx, e.Chat)
	}
	return s.send(ctx, e.Chat, instructionsText, finishControls)
}

func (s *ReviewService) onPhoto(ctx context.Context, e domain.PhotoReceived) error {
	best, ok := domain.BestVariant(e.Variants)
	if !ok {
		// nothing to record, treat like an empty text event
		return s.onText(ctx, domain.TextReceived{User: e.User, Chat: e.Chat, Caption: e.Caption})
	}
	found := s.store.Update(e.User, func(sess *domain.Session) {
		sess.AppendPhoto(best.Handle)
		sess.AppendCaption(e.Caption)
	})
	if !found {
		return s.noSession(ctx, e.Chat)
	}
	return s.send(ctx, e.Chat, instructionsText, finishControls)
}

func (s *ReviewService) noSession(ctx context.Context, chat domain.ChatID) error {
	return s.send(ctx, chat, noActiveReviewText, startControls)
}

func (s *ReviewService) send(ctx context.Context, to domain.ChatID, body string, controls []domain.Control) error {
	if err := s.messenger.SendText(ctx, to, body, controls); err != nil {
		return fmt.Errorf("%w: text to %d: %w", domain.ErrSend, to, err)
	}
	return nil
}

func (s *ReviewService) sendPhoto(ctx context.Context, to domain.ChatID, handle, caption string) error {
	if err := s.messenger.SendPhoto(ctx, to, handle, caption); err != nil {
		return fmt.Errorf("%w: photo to %d: %w", domain.ErrSend, to, err)
	}
	return nil
}

func (s *ReviewService) edit(ctx context.Context, ref domain.MessageRef, body string, controls []domain.Control) error {
	if err := s.messenger.EditText(ctx, ref, body, controls); err != nil {
		return fmt.Errorf("%w: edit %d/%d: %w", domain.ErrSend, ref.Chat, ref.MessageID, err)
	}
	return nil
}
