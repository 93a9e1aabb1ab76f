package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"review_relay/internal/domain"
)

// ToEvent maps a Telegram update to a domain event. Updates the bot does not
// react to (other commands, edits, channel posts, ...) report false.
func ToEvent(u tgbotapi.Update) (domain.Event, bool) {
	if q := u.CallbackQuery; q != nil {
		if q.From == nil {
			return nil, false
		}
		ev := domain.ButtonPressed{
			User:       domain.UserID(q.From.ID),
			Chat:       domain.ChatID(q.From.ID),
			Action:     q.Data,
			CallbackID: q.ID,
		}
		if q.Message != nil && q.Message.Chat != nil {
			ev.Chat = domain.ChatID(q.Message.Chat.ID)
			ev.Message = domain.MessageRef{Chat: ev.Chat, MessageID: q.Message.MessageID}
		}
		return ev, true
	}

	m := u.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return nil, false
	}
	user, chat := domain.UserID(m.From.ID), domain.ChatID(m.Chat.ID)

	switch {
	case m.IsCommand():
		if m.Command() != "start" {
			return nil, false
		}
		return domain.StartCommand{User: user, Chat: chat, Handle: m.From.UserName}, true

	case len(m.Photo) > 0:
		vs := make([]domain.PhotoVariant, 0, len(m.Photo))
		for _, p := range m.Photo {
			vs = append(vs, domain.PhotoVariant{Handle: p.FileID, Width: p.Width, Height: p.Height})
		}
		return domain.PhotoReceived{User: user, Chat: chat, Variants: vs, Caption: m.Caption}, true

	case m.Text != "":
		return domain.TextReceived{User: user, Chat: chat, Text: m.Text, Caption: m.Caption}, true
	}
	return nil, false
}
