package memory

import (
	"context"
	"sort"
	"sync"

	"countries-trivia/internal/domain"
)

// LeaderboardStore is an in-memory implementation of
// game.LeaderboardStore, used for tests and storeless demo runs.
type LeaderboardStore struct {
	mu        sync.Mutex
	points    map[string]int
	backup    map[string]int
	carryOver []string
}

func NewLeaderboardStore() *LeaderboardStore {
	return &LeaderboardStore{
		points: make(map[string]int),
		backup: make(map[string]int),
	}
}

func (s *LeaderboardStore) ListEntries(_ context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]domain.LeaderboardEntry, 0, len(s.points))
	for player, points := range s.points {
		entries = append(entries, domain.LeaderboardEntry{Player: player, Points: points})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Player < entries[j].Player })
	return entries, nil
}

func (s *LeaderboardStore) UpsertEntry(_ context.Context, player string, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.points[player]; !ok {
		s.points[player] = points
	}
	return nil
}

func (s *LeaderboardStore) AddPoints(_ context.Context, player string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[player] += delta
	return nil
}

func (s *LeaderboardStore) Snapshot(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backup = make(map[string]int, len(s.points))
	for player, points := range s.points {
		s.backup[player] = points
	}
	return nil
}

func (s *LeaderboardStore) ListCarryOver(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.carryOver))
	copy(names, s.carryOver)
	return names, nil
}

func (s *LeaderboardStore) AddCarryOver(_ context.Context, players []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	present := make(map[string]bool, len(s.carryOver))
	for _, name := range s.carryOver {
		present[name] = true
	}
	for _, name := range players {
		if !present[name] {
			s.carryOver = append(s.carryOver, name)
			present[name] = true
		}
	}
	return nil
}

// ReplaceCarryOver swaps the whole set atomically, for operator
// corrections outside the normal append/clear cycle.
func (s *LeaderboardStore) ReplaceCarryOver(_ context.Context, players []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carryOver = nil
	present := make(map[string]bool, len(players))
	for _, name := range players {
		if !present[name] {
			s.carryOver = append(s.carryOver, name)
			present[name] = true
		}
	}
	return nil
}

func (s *LeaderboardStore) ClearCarryOver(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carryOver = nil
	return nil
}

// BackupEntries exposes the snapshot contents so tests can assert on it.
func (s *LeaderboardStore) BackupEntries() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.backup))
	for player, points := range s.backup {
		out[player] = points
	}
	return out
}
