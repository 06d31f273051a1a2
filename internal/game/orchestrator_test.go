package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"countries-trivia/internal/domain"
	"countries-trivia/internal/infra/memory"
)

// Capitals that share the country's name keep the expected answer
// independent of the randomly drawn question direction.
var selfNamedBank = []domain.Question{
	{Country: "Monaco", Capital: "Monaco", Continent: "Europe"},
	{Country: "Singapore", Capital: "Singapore", Continent: "Asia"},
	{Country: "Luxembourg", Capital: "Luxembourg", Continent: "Europe"},
	{Country: "Djibouti", Capital: "Djibouti", Continent: "Africa"},
}

func newTestOrchestrator(t *testing.T, messenger *queueMessenger, clock *fakeClock, store LeaderboardStore, roster []domain.Participant, bankQuestions []domain.Question, numQuestions int) *Orchestrator {
	t.Helper()
	bank := memory.NewBankRepository(memory.NewStaticBankLoader(bankQuestions), time.Minute)
	runner := newTestRunner(messenger, clock, 30*time.Second, 10*time.Second)
	return NewOrchestrator(roster, runner, bank, store, messenger, numQuestions, 2, rand.New(rand.NewSource(42)))
}

func TestRunFirstTurnCollectsOutcomesAndCarryOver(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	messenger := newQueueMessenger(clock)
	store := memory.NewLeaderboardStore()
	roster := []domain.Participant{player("alice", "c1"), player("bob", "c2"), player("carol", "c3")}

	orchestrator := newTestOrchestrator(t, messenger, clock, store, roster, selfNamedBank, 2)

	// Alice and Carol confirm; bob stays silent the whole run. The
	// scripted answers deliberately stay blank so every answered
	// sub-question scores zero; the carry-over logic is what matters.
	messenger.queue("c1", "go", "", "", "", "")
	messenger.queue("c3", "go", "", "", "", "")

	run, err := orchestrator.Run(ctx, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(run.Outcomes) != 3 {
		t.Fatalf("expected one outcome per participant, got %d", len(run.Outcomes))
	}

	byName := map[string]domain.Outcome{}
	for _, outcome := range run.Outcomes {
		byName[outcome.Participant.Name] = outcome
	}
	if byName["alice"].Status != domain.Completed || byName["carol"].Status != domain.Completed {
		t.Fatalf("expected alice and carol to complete, got %+v", byName)
	}
	if byName["bob"].Status != domain.Abandoned {
		t.Fatalf("expected bob to abandon, got %+v", byName["bob"])
	}

	carryOver, err := store.ListCarryOver(ctx)
	if err != nil {
		t.Fatalf("list carry-over: %v", err)
	}
	if len(carryOver) != 1 || carryOver[0] != "bob" {
		t.Fatalf("expected carry-over {bob}, got %v", carryOver)
	}

	// First-turn runs never broadcast standings.
	for _, chat := range []string{"c1", "c2", "c3"} {
		for _, msg := range messenger.sentTo(chat) {
			if strings.Contains(msg, "STANDINGS") {
				t.Fatalf("unexpected standings broadcast on first turn to %s", chat)
			}
		}
	}
}

func TestRunScoresCorrectAnswers(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	messenger := newQueueMessenger(clock)
	store := memory.NewLeaderboardStore()
	roster := []domain.Participant{player("alice", "c1")}

	// A one-question bank keeps the drawn question known up front, and
	// the self-named capital answers either direction.
	bank := []domain.Question{{Country: "Monaco", Capital: "Monaco", Continent: "Europe"}}
	orchestrator := newTestOrchestrator(t, messenger, clock, store, roster, bank, 1)

	messenger.queue("c1", "go", "monaco", "europe")

	run, err := orchestrator.Run(ctx, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(run.Outcomes) != 1 || run.Outcomes[0].Status != domain.Completed || run.Outcomes[0].Points != 4 {
		t.Fatalf("expected completed with 4 points, got %+v", run.Outcomes)
	}

	entries, err := store.ListEntries(ctx)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Player != "alice" || entries[0].Points != 4 {
		t.Fatalf("expected alice with 4 points, got %+v", entries)
	}
}

func TestRunSecondTurnUsesCarryOverAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	messenger := newQueueMessenger(clock)
	store := memory.NewLeaderboardStore()
	if err := store.AddCarryOver(ctx, []string{"bob"}); err != nil {
		t.Fatalf("seed carry-over: %v", err)
	}
	roster := []domain.Participant{player("alice", "c1"), player("bob", "c2")}

	orchestrator := newTestOrchestrator(t, messenger, clock, store, roster, selfNamedBank, 2)

	// Bob stays silent again.
	run, err := orchestrator.Run(ctx, true)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(run.Outcomes) != 1 || run.Outcomes[0].Participant.Name != "bob" {
		t.Fatalf("second turn must only involve carried-over players, got %+v", run.Outcomes)
	}
	if run.Outcomes[0].Status != domain.Abandoned {
		t.Fatalf("expected bob to abandon again, got %+v", run.Outcomes[0])
	}

	// Cleared regardless of bob abandoning the second chance too.
	carryOver, err := store.ListCarryOver(ctx)
	if err != nil {
		t.Fatalf("list carry-over: %v", err)
	}
	if len(carryOver) != 0 {
		t.Fatalf("expected cleared carry-over, got %v", carryOver)
	}

	// Standings go to the whole roster, not just the second-turn players.
	for _, chat := range []string{"c1", "c2"} {
		var got bool
		for _, msg := range messenger.sentTo(chat) {
			if strings.Contains(msg, "STANDINGS") && strings.Contains(msg, "is in the lead") {
				got = true
			}
		}
		if !got {
			t.Fatalf("expected standings broadcast to %s", chat)
		}
	}
}

func TestRunEmptySecondTurnStillSnapshotsAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	messenger := newQueueMessenger(clock)
	store := memory.NewLeaderboardStore()
	if err := store.UpsertEntry(ctx, "alice", 0); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	if err := store.AddPoints(ctx, "alice", 8); err != nil {
		t.Fatalf("seed points: %v", err)
	}
	roster := []domain.Participant{player("alice", "c1")}

	// Everyone played the first turn, so the carry-over set is empty.
	orchestrator := newTestOrchestrator(t, messenger, clock, store, roster, selfNamedBank, 2)

	run, err := orchestrator.Run(ctx, true)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(run.Outcomes) != 0 {
		t.Fatalf("expected no outcomes on an empty turn, got %+v", run.Outcomes)
	}

	if backup := store.BackupEntries(); backup["alice"] != 8 {
		t.Fatalf("expected snapshot on an empty second turn, got %v", backup)
	}

	var standings bool
	for _, msg := range messenger.sentTo("c1") {
		if strings.Contains(msg, "STANDINGS") && strings.Contains(msg, "alice is in the lead") {
			standings = true
		}
	}
	if !standings {
		t.Fatalf("expected standings broadcast on an empty second turn, sent: %v", messenger.sentTo("c1"))
	}
}

func TestRunSecondTurnRejectsUnknownCarryOverName(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	messenger := newQueueMessenger(clock)
	store := memory.NewLeaderboardStore()
	if err := store.AddCarryOver(ctx, []string{"zoe"}); err != nil {
		t.Fatalf("seed carry-over: %v", err)
	}
	roster := []domain.Participant{player("alice", "c1")}

	orchestrator := newTestOrchestrator(t, messenger, clock, store, roster, selfNamedBank, 2)

	if _, err := orchestrator.Run(ctx, true); !errors.Is(err, domain.ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
	if len(messenger.sentTo("c1")) != 0 {
		t.Fatalf("no session may start on a configuration error")
	}
}

func TestRunSharesOneSampleAcrossParticipants(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	messenger := newQueueMessenger(clock)
	store := memory.NewLeaderboardStore()
	roster := []domain.Participant{player("alice", "c1"), player("carol", "c3")}

	orchestrator := newTestOrchestrator(t, messenger, clock, store, roster, selfNamedBank, 3)

	messenger.queue("c1", "go", "", "", "", "", "", "")
	messenger.queue("c3", "go", "", "", "", "", "", "")

	if _, err := orchestrator.Run(ctx, false); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got, want := questionLines(messenger.sentTo("c1")), questionLines(messenger.sentTo("c3")); !equalStrings(got, want) {
		t.Fatalf("participants saw different samples:\n%v\n%v", got, want)
	}
}

func TestRunPropagatesStoreError(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	messenger := newQueueMessenger(clock)
	store := failingSnapshotStore{memory.NewLeaderboardStore()}
	roster := []domain.Participant{player("alice", "c1")}

	orchestrator := newTestOrchestrator(t, messenger, clock, store, roster, selfNamedBank, 1)
	messenger.queue("c1", "go", "", "")

	if _, err := orchestrator.Run(ctx, false); err == nil {
		t.Fatalf("expected store error to abort the run")
	}
}

// questionLines filters the numbered primary questions out of a chat
// transcript, preserving order.
func questionLines(sent []string) []string {
	var lines []string
	for _, msg := range sent {
		if len(msg) > 1 && msg[0] >= '1' && msg[0] <= '9' && strings.HasPrefix(msg[1:], ". ") {
			lines = append(lines, msg)
		}
	}
	return lines
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
