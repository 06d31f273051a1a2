package game

import (
	"context"
	"sync"
	"time"

	"countries-trivia/internal/domain"
)

// fakeClock is a manually advanced clock shared by the waiter, the
// runner and the fake messengers.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// timedMessenger exposes pre-stamped messages once the clock reaches
// their timestamp, mimicking the endpoint's accumulated update log.
// Used by the waiter tests.
type timedMessenger struct {
	mu       sync.Mutex
	clock    *fakeClock
	messages []domain.InboundMessage
}

func (m *timedMessenger) SendMessage(context.Context, domain.Address, string) error {
	return nil
}

func (m *timedMessenger) GetUpdates(_ context.Context, _ domain.Address) ([]domain.InboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.clock.Now()
	var visible []domain.InboundMessage
	for _, msg := range m.messages {
		if !msg.SentAt.After(now) {
			visible = append(visible, msg)
		}
	}
	return visible, nil
}

// queueMessenger pops one scripted reply per poll, stamped with the
// current fake time, and records every outbound message per chat. An
// exhausted queue makes the wait run into its timeout. Used by the
// session and orchestrator tests.
type queueMessenger struct {
	mu         sync.Mutex
	clock      *fakeClock
	replies    map[string][]string
	sent       map[string][]string
	sendErr    error
	updatesErr error
}

func newQueueMessenger(clock *fakeClock) *queueMessenger {
	return &queueMessenger{
		clock:   clock,
		replies: make(map[string][]string),
		sent:    make(map[string][]string),
	}
}

func (m *queueMessenger) queue(chatID string, replies ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[chatID] = append(m.replies[chatID], replies...)
}

func (m *queueMessenger) sentTo(chatID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent[chatID]))
	copy(out, m.sent[chatID])
	return out
}

func (m *queueMessenger) SendMessage(_ context.Context, addr domain.Address, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent[addr.ChatID] = append(m.sent[addr.ChatID], text)
	return nil
}

func (m *queueMessenger) GetUpdates(_ context.Context, addr domain.Address) ([]domain.InboundMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updatesErr != nil {
		return nil, m.updatesErr
	}
	queued := m.replies[addr.ChatID]
	if len(queued) == 0 {
		return nil, nil
	}
	m.replies[addr.ChatID] = queued[1:]
	return []domain.InboundMessage{{Text: queued[0], SentAt: m.clock.Now()}}, nil
}

// newTestWaiter wires a waiter to the fake clock; sleeping advances the
// clock instead of blocking.
func newTestWaiter(messenger Messenger, clock *fakeClock) *Waiter {
	w := NewWaiter(messenger, 500*time.Millisecond)
	w.now = clock.Now
	w.sleep = func(_ context.Context, d time.Duration) error {
		clock.Advance(d)
		return nil
	}
	return w
}

func newTestRunner(messenger Messenger, clock *fakeClock, initLimit, responseLimit time.Duration) *Runner {
	r := NewRunner(messenger, newTestWaiter(messenger, clock), initLimit, responseLimit)
	r.now = clock.Now
	return r
}

func player(name, chatID string) domain.Participant {
	return domain.Participant{Name: name, Address: domain.Address{Token: "token-" + name, ChatID: chatID}}
}
