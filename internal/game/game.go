// Package game contains the competition core: the per-participant
// session state machine, the polling reply waiter, the concurrent
// orchestrator and the leaderboard reconciler.
package game

import (
	"context"

	"countries-trivia/internal/domain"
)

// Messenger abstracts the messaging endpoint that delivers questions
// and returns free-text replies (Telegram in production).
type Messenger interface {
	SendMessage(ctx context.Context, addr domain.Address, text string) error
	GetUpdates(ctx context.Context, addr domain.Address) ([]domain.InboundMessage, error)
}

// BankRepository loads the question bank (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context) ([]domain.Question, error)
}

// LeaderboardStore is the persistent scoring state: the classification
// table, its backup snapshot and the second-turn carry-over set.
type LeaderboardStore interface {
	ListEntries(ctx context.Context) ([]domain.LeaderboardEntry, error)
	UpsertEntry(ctx context.Context, player string, points int) error
	AddPoints(ctx context.Context, player string, delta int) error
	Snapshot(ctx context.Context) error
	ListCarryOver(ctx context.Context) ([]string, error)
	AddCarryOver(ctx context.Context, players []string) error
	ClearCarryOver(ctx context.Context) error
}
