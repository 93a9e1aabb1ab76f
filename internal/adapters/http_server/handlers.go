package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"review_relay/internal/adapters/telegram"
	"review_relay/internal/domain"
)

const (
	WebhookPath     = "/telegram/webhook"
	maxUpdateLength = 1 << 20
)

type Dispatcher interface {
	Dispatch(ctx context.Context, ev domain.Event)
}

// Handlers serves health checks and, when D is set, the Telegram webhook.
type Handlers struct{ D Dispatcher }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	if h.D != nil {
		s.mux.Post(WebhookPath, h.webhook)
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func (h *Handlers) webhook(w http.ResponseWriter, r *http.Request) {
	var u tgbotapi.Update
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUpdateLength)).Decode(&u); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid update", "body must be a Telegram update object")
		return
	}

	if ev, ok := telegram.ToEvent(u); ok {
		// handling outlives the request; Telegram only needs the 200
		h.D.Dispatch(context.WithoutCancel(r.Context()), ev)
	} else {
		log.Debug().Int("update_id", u.UpdateID).Msg("ignoring update")
	}
	w.WriteHeader(http.StatusOK)
}
