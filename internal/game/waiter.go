package game

import (
	"context"
	"time"

	"countries-trivia/internal/domain"
)

const defaultPollInterval = 500 * time.Millisecond

// Waiter polls the messaging endpoint for a reply addressed to one
// participant. It is the only blocking point in a session.
type Waiter struct {
	messenger    Messenger
	pollInterval time.Duration
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
}

func NewWaiter(messenger Messenger, pollInterval time.Duration) *Waiter {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Waiter{
		messenger:    messenger,
		pollInterval: pollInterval,
		now:          time.Now,
		sleep:        sleepContext,
	}
}

// AwaitReply returns the most recent reply sent at or after since,
// polling until deadline elapses. The second return value is false on
// timeout. A transport failure that survived the client's retry bound
// is returned as an error.
func (w *Waiter) AwaitReply(ctx context.Context, addr domain.Address, since time.Time, deadline time.Duration) (domain.InboundMessage, bool, error) {
	start := w.now()
	for {
		messages, err := w.messenger.GetUpdates(ctx, addr)
		if err != nil {
			return domain.InboundMessage{}, false, err
		}
		if reply, ok := latestSince(messages, since); ok {
			return reply, true, nil
		}
		if w.now().Sub(start) > deadline {
			return domain.InboundMessage{}, false, nil
		}
		if err := w.sleep(ctx, w.pollInterval); err != nil {
			return domain.InboundMessage{}, false, err
		}
	}
}

// latestSince picks the most recent message not older than since,
// discarding stale replies left over from before the wait began.
func latestSince(messages []domain.InboundMessage, since time.Time) (domain.InboundMessage, bool) {
	var latest domain.InboundMessage
	found := false
	for _, msg := range messages {
		if msg.SentAt.Before(since) {
			continue
		}
		if !found || !msg.SentAt.Before(latest.SentAt) {
			latest = msg
			found = true
		}
	}
	return latest, found
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
