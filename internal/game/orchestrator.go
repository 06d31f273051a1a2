package game

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"countries-trivia/internal/domain"
	"countries-trivia/internal/questions"
)

// Orchestrator runs one competition pass: it draws the shared question
// sample, fans out one session per participant bounded by the pool
// size, joins every outcome and drives reconciliation.
type Orchestrator struct {
	roster       []domain.Participant
	runner       *Runner
	bank         BankRepository
	store        LeaderboardStore
	reconciler   *Reconciler
	messenger    Messenger
	numQuestions int
	poolSize     int
	rnd          *rand.Rand
}

func NewOrchestrator(roster []domain.Participant, runner *Runner, bank BankRepository, store LeaderboardStore, messenger Messenger, numQuestions, poolSize int, rnd *rand.Rand) *Orchestrator {
	if poolSize <= 0 {
		poolSize = 4
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	shuffled := make([]domain.Participant, len(roster))
	copy(shuffled, roster)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return &Orchestrator{
		roster:       shuffled,
		runner:       runner,
		bank:         bank,
		store:        store,
		reconciler:   NewReconciler(store),
		messenger:    messenger,
		numQuestions: numQuestions,
		poolSize:     poolSize,
		rnd:          rnd,
	}
}

// Run executes a first-turn (secondTurn=false) or second-turn pass and
// returns the collected outcomes. Reconciliation happens only after
// every session has finished.
func (o *Orchestrator) Run(ctx context.Context, secondTurn bool) (domain.Run, error) {
	players, err := o.participants(ctx, secondTurn)
	if err != nil {
		return domain.Run{}, err
	}

	// An empty turn still reconciles (the snapshot runs every run) and,
	// on a second turn, still broadcasts the standings; only the
	// sessions themselves are skipped.
	outcomes := make([]domain.Outcome, len(players))
	if len(players) == 0 {
		log.Printf("orchestrator: no participants for this turn, second_turn=%v", secondTurn)
	} else {
		bank, err := o.bank.GetBank(ctx)
		if err != nil {
			return domain.Run{}, fmt.Errorf("load question bank: %w", err)
		}
		// One shared sample per run keeps the playing field level.
		prompts, err := questions.Sample(o.rnd, bank, o.numQuestions)
		if err != nil {
			return domain.Run{}, fmt.Errorf("draw sample: %w", err)
		}

		log.Printf("orchestrator: starting %d session(s), %d question(s), second_turn=%v", len(players), len(prompts), secondTurn)

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(o.poolSize)
		for i, player := range players {
			i, player := i, player
			group.Go(func() error {
				// Sessions never fail the group: the runner converts
				// every failure into an abandoned outcome.
				outcomes[i] = o.runner.Run(groupCtx, player, prompts, secondTurn)
				return nil
			})
		}
		_ = group.Wait()
	}

	run := domain.Run{Outcomes: outcomes, SecondTurn: secondTurn}
	if err := o.reconciler.Reconcile(ctx, run); err != nil {
		return domain.Run{}, err
	}

	if secondTurn {
		if err := o.broadcastStandings(ctx); err != nil {
			return domain.Run{}, err
		}
	}
	return run, nil
}

// participants resolves who plays this turn: the full roster, or the
// carried-over names mapped back to roster entries.
func (o *Orchestrator) participants(ctx context.Context, secondTurn bool) ([]domain.Participant, error) {
	if !secondTurn {
		return o.roster, nil
	}

	names, err := o.store.ListCarryOver(ctx)
	if err != nil {
		return nil, fmt.Errorf("list carry-over: %w", err)
	}
	byName := make(map[string]domain.Participant, len(o.roster))
	for _, player := range o.roster {
		byName[player.Name] = player
	}
	players := make([]domain.Participant, 0, len(names))
	for _, name := range names {
		player, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPlayer, name)
		}
		players = append(players, player)
	}
	return players, nil
}

// broadcastStandings sends the final leaderboard to the whole roster.
// Delivery failures are logged per player and do not abort the run.
func (o *Orchestrator) broadcastStandings(ctx context.Context) error {
	entries, err := o.store.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].Player < entries[j].Player
	})

	text := closingMessage(entries)
	for _, player := range o.roster {
		if err := o.messenger.SendMessage(ctx, player.Address, text); err != nil {
			log.Printf("orchestrator: standings not delivered to %s: %v", player.Name, err)
		}
	}
	return nil
}
