package game

import (
	"context"
	"fmt"
	"log"

	"countries-trivia/internal/domain"
)

// Reconciler merges a run's outcomes into the leaderboard store. Store
// failures abort reconciliation; there is no partial retry.
type Reconciler struct {
	store LeaderboardStore
}

func NewReconciler(store LeaderboardStore) *Reconciler {
	return &Reconciler{store: store}
}

func (r *Reconciler) Reconcile(ctx context.Context, run domain.Run) error {
	if err := r.registerMissing(ctx, run); err != nil {
		return err
	}

	for _, outcome := range run.Outcomes {
		if outcome.Status != domain.Completed {
			continue
		}
		if err := r.store.AddPoints(ctx, outcome.Participant.Name, outcome.Points); err != nil {
			return fmt.Errorf("add points for %s: %w", outcome.Participant.Name, err)
		}
	}

	if err := r.store.Snapshot(ctx); err != nil {
		return fmt.Errorf("snapshot leaderboard: %w", err)
	}

	if run.SecondTurn {
		// The day's second chances are resolved regardless of outcome.
		if err := r.store.ClearCarryOver(ctx); err != nil {
			return fmt.Errorf("clear carry-over: %w", err)
		}
		return nil
	}

	var skipped []string
	for _, outcome := range run.Outcomes {
		if outcome.Status == domain.Abandoned {
			skipped = append(skipped, outcome.Participant.Name)
		}
	}
	if len(skipped) > 0 {
		log.Printf("reconcile: %d player(s) carried over to the second turn", len(skipped))
		if err := r.store.AddCarryOver(ctx, skipped); err != nil {
			return fmt.Errorf("add carry-over: %w", err)
		}
	}
	return nil
}

// registerMissing upserts a zero-point entry for every participant not
// yet on the leaderboard. A no-op for players already present, so
// running it twice never double-registers.
func (r *Reconciler) registerMissing(ctx context.Context, run domain.Run) error {
	entries, err := r.store.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	present := make(map[string]bool, len(entries))
	for _, entry := range entries {
		present[entry.Player] = true
	}
	for _, outcome := range run.Outcomes {
		name := outcome.Participant.Name
		if present[name] {
			continue
		}
		if err := r.store.UpsertEntry(ctx, name, 0); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		present[name] = true
	}
	return nil
}
