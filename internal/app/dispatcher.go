package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_relay/internal/adapters/observability"
	"review_relay/internal/domain"
)

type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event) error
}

// Dispatcher serializes events per user and runs different users in parallel,
// at most `workers` handlers at a time.
type Dispatcher struct {
	h   EventHandler
	sem *semaphore.Weighted

	mu    sync.Mutex
	lanes map[domain.UserID]*lane
	wg    sync.WaitGroup
}

type lane struct {
	pending []queued
}

type queued struct {
	ctx context.Context
	ev  domain.Event
}

func NewDispatcher(h EventHandler, workers int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		h:     h,
		sem:   semaphore.NewWeighted(int64(workers)),
		lanes: make(map[domain.UserID]*lane),
	}
}

// Dispatch queues ev behind any earlier events from the same user. It never blocks.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.Event) {
	u := ev.Sender()

	d.mu.Lock()
	if l, ok := d.lanes[u]; ok {
		l.pending = append(l.pending, queued{ctx: ctx, ev: ev})
		d.mu.Unlock()
		return
	}
	l := &lane{pending: []queued{{ctx: ctx, ev: ev}}}
	d.lanes[u] = l
	d.wg.Add(1)
	d.mu.Unlock()

	go d.drain(u, l)
}

// Wait blocks until every queued event has been handled.
func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) drain(u domain.UserID, l *lane) {
	defer d.wg.Done()
	for {
		d.mu.Lock()
		if len(l.pending) == 0 {
			delete(d.lanes, u)
			d.mu.Unlock()
			return
		}
		next := l.pending[0]
		l.pending[0] = queued{}
		l.pending = l.pending[1:]
		d.mu.Unlock()

		d.run(next.ctx, next.ev)
	}
}

func (d *Dispatcher) run(ctx context.Context, ev domain.Event) {
	logger := log.With().
		Int64("user", int64(ev.Sender())).
		Str("event", observability.EventKind(ev)).
		Logger()

	if err := d.sem.Acquire(ctx, 1); err != nil {
		logger.Warn().Err(err).Msg("event dropped")
		return
	}
	defer d.sem.Release(1)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Err(fmt.Errorf("panic: %v", r)).Msg("event handler panicked")
		}
	}()

	observability.ObserveEvent(ev)
	if err := d.h.Handle(ctx, ev); err != nil {
		logger.Error().Err(err).Msg("event handling failed")
	}
}
