package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"review_relay/internal/adapters/telegram"
	"review_relay/internal/domain"
)

type call struct {
	method string
	form   map[string]string
}

// fakeBotAPI answers Bot API methods and records every call except getMe.
type fakeBotAPI struct {
	mu    sync.Mutex
	calls []call
	fail  map[string]bool
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	method := path.Base(r.URL.Path)
	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}

	f.mu.Lock()
	if method != "getMe" {
		f.calls = append(f.calls, call{method: method, form: form})
	}
	fail := f.fail[method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error_code": 400, "description": "Bad Request: boom"})
		return
	}

	var result any
	switch method {
	case "getMe":
		result = map[string]any{"id": 1, "is_bot": true, "first_name": "relay", "username": "relay_bot"}
	case "getChat":
		result = map[string]any{"id": 42, "type": "private", "first_name": "Ann", "username": "ann"}
	case "answerCallbackQuery", "setWebhook":
		result = true
	default:
		result = map[string]any{"message_id": 7, "date": 0, "chat": map[string]any{"id": 42, "type": "private"}}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": result})
}

func (f *fakeBotAPI) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func newClient(t *testing.T, f *fakeBotAPI) *telegram.Client {
	t.Helper()
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)
	c, err := telegram.NewWithEndpoint("123:abc", ts.URL+"/bot%s/%s", 1000) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return c
}

func TestClient_SendsMessagesWithControls(t *testing.T) {
	f := &fakeBotAPI{}
	c := newClient(t, f)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if c.Username() != "relay_bot" {
		t.Fatalf("username: %s", c.Username())
	}
	controls := []domain.Control{{Label: "Новый отзыв", Action: domain.ActionStartReview}}
	if err := c.SendText(ctx, 42, "hello", controls); err != nil {
		t.Fatalf("send text: %v", err)
	}
	if err := c.SendPhoto(ctx, 42, "P1", "cap"); err != nil {
		t.Fatalf("send photo: %v", err)
	}
	if err := c.EditText(ctx, domain.MessageRef{Chat: 42, MessageID: 7}, "edited", nil); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if err := c.AckAction(ctx, "cb-1"); err != nil {
		t.Fatalf("ack: %v", err)
	}

	calls := f.recorded()
	if len(calls) != 4 {
		t.Fatalf("expected 4 calls, got %+v", calls)
	}
	if calls[0].method != "sendMessage" || calls[0].form["chat_id"] != "42" || calls[0].form["text"] != "hello" {
		t.Fatalf("sendMessage: %+v", calls[0])
	}
	if !strings.Contains(calls[0].form["reply_markup"], `"callback_data":"new_review"`) {
		t.Fatalf("missing keyboard: %s", calls[0].form["reply_markup"])
	}
	if calls[1].method != "sendPhoto" || calls[1].form["photo"] != "P1" || calls[1].form["caption"] != "cap" {
		t.Fatalf("sendPhoto: %+v", calls[1])
	}
	if calls[2].method != "editMessageText" || calls[2].form["message_id"] != "7" || calls[2].form["text"] != "edited" {
		t.Fatalf("editMessageText: %+v", calls[2])
	}
	if calls[3].method != "answerCallbackQuery" || calls[3].form["callback_query_id"] != "cb-1" {
		t.Fatalf("answerCallbackQuery: %+v", calls[3])
	}
}

func TestClient_ResolveIdentity(t *testing.T) {
	c := newClient(t, &fakeBotAPI{})
	id, err := c.ResolveIdentity(context.Background(), 42)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != (domain.Identity{UserID: 42, DisplayName: "Ann", Handle: "ann"}) {
		t.Fatalf("identity: %+v", id)
	}
}

func TestClient_APIErrorIsReturned(t *testing.T) {
	c := newClient(t, &fakeBotAPI{fail: map[string]bool{"sendMessage": true, "getChat": true}})
	if err := c.SendText(context.Background(), 42, "x", nil); err == nil || !strings.Contains(err.Error(), "sendMessage") {
		t.Fatalf("expected sendMessage error, got %v", err)
	}
	if _, err := c.ResolveIdentity(context.Background(), 42); err == nil {
		t.Fatalf("expected getChat error")
	}
}

func TestClient_CanceledContextSkipsCall(t *testing.T) {
	f := &fakeBotAPI{}
	c := newClient(t, f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.SendText(ctx, 42, "x", nil); err == nil {
		t.Fatalf("expected context error")
	}
	if n := len(f.recorded()); n != 0 {
		t.Fatalf("expected no calls, got %d", n)
	}
}

func TestNewWithEndpoint_RequiresToken(t *testing.T) {
	if _, err := telegram.NewWithEndpoint("", "http://unused/bot%s/%s", 1); err == nil {
		t.Fatalf("expected error for empty token")
	}
}
