package app_test

import (
	"context"
	"errors"
	"sync"

	"review_relay/internal/domain"
)

// ---- fakes ----

type sent struct {
	kind     string // text|photo|edit|ack
	to       domain.ChatID
	body     string // text body, photo handle, or callback id
	caption  string
	controls []domain.Control
}

type fakeMessenger struct {
	mu    sync.Mutex
	out   []sent
	fail map[string]bool // kind -> fail every call of that kind
}

func (m *fakeMessenger) record(s sent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.out = append(m.out, s)
	if m.fail[s.kind] {
		return errors.New("network down")
	}
	return nil
}

func (m *fakeMessenger) SendText(ctx context.Context, to domain.ChatID, body string, controls []domain.Control) error {
	return m.record(sent{kind: "text", to: to, body: body, controls: controls})
}

func (m *fakeMessenger) SendPhoto(ctx context.Context, to domain.ChatID, handle, caption string) error {
	return m.record(sent{kind: "photo", to: to, body: handle, caption: caption})
}

func (m *fakeMessenger) EditText(ctx context.Context, ref domain.MessageRef, body string, controls []domain.Control) error {
	return m.record(sent{kind: "edit", to: ref.Chat, body: body, controls: controls})
}

func (m *fakeMessenger) AckAction(ctx context.Context, callbackID string) error {
	return m.record(sent{kind: "ack", body: callbackID})
}

func (m *fakeMessenger) to(chat domain.ChatID) []sent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sent
	for _, s := range m.out {
		if s.kind != "ack" && s.to == chat {
			out = append(out, s)
		}
	}
	return out
}

func (m *fakeMessenger) reset() {
	m.mu.Lock()
	m.out = nil
	m.mu.Unlock()
}

type fakeResolver struct {
	mu    sync.Mutex
	ids   map[domain.UserID]domain.Identity
	err   error
	calls int
}

func (r *fakeResolver) ResolveIdentity(ctx context.Context, u domain.UserID) (domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return domain.Identity{}, r.err
	}
	if id, ok := r.ids[u]; ok {
		return id, nil
	}
	return domain.Identity{UserID: u, DisplayName: "Anon"}, nil
}

type fakeCache struct {
	mu     sync.Mutex
	store  map[string]domain.Identity
	getErr error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*dst.(*domain.Identity) = v
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]domain.Identity{}
	}
	c.store[key] = v.(domain.Identity)
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}
