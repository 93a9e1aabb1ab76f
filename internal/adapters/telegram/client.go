package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_relay/internal/adapters/observability"
	"review_relay/internal/domain"
)

// Client talks to the Bot API. Outbound calls share one client-side rate limiter.
type Client struct {
	api *tgbotapi.BotAPI
	rl  *rate.Limiter
}

func New(token string, rps int) (*Client, error) {
	return NewWithEndpoint(token, tgbotapi.APIEndpoint, rps)
}

// NewWithEndpoint targets a non-default Bot API server; endpoint is a format
// string taking the token and the method name.
func NewWithEndpoint(token, endpoint string, rps int) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if rps <= 0 {
		rps = 25
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram getMe: %w", err)
	}
	return &Client{api: api, rl: rate.NewLimiter(rate.Limit(rps), rps)}, nil
}

func (c *Client) Username() string { return c.api.Self.UserName }

func (c *Client) SendText(ctx context.Context, to domain.ChatID, body string, controls []domain.Control) error {
	msg := tgbotapi.NewMessage(int64(to), body)
	if kb, ok := keyboard(controls); ok {
		msg.ReplyMarkup = kb
	}
	return c.call(ctx, "sendMessage", func() error {
		_, err := c.api.Send(msg)
		return err
	})
}

func (c *Client) SendPhoto(ctx context.Context, to domain.ChatID, handle, caption string) error {
	p := tgbotapi.NewPhoto(int64(to), tgbotapi.FileID(handle))
	p.Caption = caption
	return c.call(ctx, "sendPhoto", func() error {
		_, err := c.api.Send(p)
		return err
	})
}

// EditText replaces the text of a bot message. Without controls the inline keyboard is removed.
func (c *Client) EditText(ctx context.Context, ref domain.MessageRef, body string, controls []domain.Control) error {
	ed := tgbotapi.NewEditMessageText(int64(ref.Chat), ref.MessageID, body)
	if kb, ok := keyboard(controls); ok {
		ed.ReplyMarkup = &kb
	}
	return c.call(ctx, "editMessageText", func() error {
		_, err := c.api.Send(ed)
		return err
	})
}

func (c *Client) AckAction(ctx context.Context, callbackID string) error {
	if callbackID == "" {
		return nil
	}
	return c.call(ctx, "answerCallbackQuery", func() error {
		_, err := c.api.Request(tgbotapi.NewCallback(callbackID, ""))
		return err
	})
}

func (c *Client) ResolveIdentity(ctx context.Context, u domain.UserID) (domain.Identity, error) {
	var chat tgbotapi.Chat
	err := c.call(ctx, "getChat", func() error {
		var err error
		chat, err = c.api.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: int64(u)}})
		return err
	})
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{UserID: u, DisplayName: chat.FirstName, Handle: chat.UserName}, nil
}

// RegisterWebhook points Telegram at url for update delivery.
func (c *Client) RegisterWebhook(ctx context.Context, url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("webhook url: %w", err)
	}
	return c.call(ctx, "setWebhook", func() error {
		_, err := c.api.Request(wh)
		return err
	})
}

// Poll long-polls for updates and hands each mapped event to sink until ctx is done.
func (c *Client) Poll(ctx context.Context, timeout time.Duration, sink func(context.Context, domain.Event)) error {
	uc := tgbotapi.NewUpdate(0)
	uc.Timeout = int(timeout.Seconds())
	updates := c.api.GetUpdatesChan(uc)
	defer c.api.StopReceivingUpdates()

	log.Info().Str("bot", c.Username()).Msg("polling for updates")
	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if ev, ok := ToEvent(u); ok {
				sink(ctx, ev)
			}
		}
	}
}

func (c *Client) call(ctx context.Context, method string, fn func() error) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	observability.ObserveOutbound(method, err, time.Since(start))
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	return nil
}

// keyboard renders one inline row per control.
func keyboard(controls []domain.Control) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(controls) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(controls))
	for _, ctl := range controls {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(ctl.Label, ctl.Action)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
