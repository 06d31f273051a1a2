package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"countries-trivia/internal/domain"
)

// LeaderboardStore persists the classification table, its backup and
// the second-turn carry-over set in Postgres. All statements are
// parameterized. The store assumes it is the sole writer during a run.
type LeaderboardStore struct {
	pool *pgxpool.Pool
}

func NewLeaderboardStore(pool *pgxpool.Pool) *LeaderboardStore {
	return &LeaderboardStore{pool: pool}
}

// Close releases the underlying connection pool.
func (s *LeaderboardStore) Close() {
	s.pool.Close()
}

func (s *LeaderboardStore) ListEntries(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `SELECT player, points FROM classification ORDER BY points DESC, player`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.Player, &entry.Points); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *LeaderboardStore) UpsertEntry(ctx context.Context, player string, points int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO classification (player, points) VALUES ($1, $2) ON CONFLICT (player) DO NOTHING`,
		player, points)
	if err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// AddPoints reads the current total and writes it back increased by
// delta. The two statements are not wrapped in a transaction; the run
// is the only writer while it reconciles.
func (s *LeaderboardStore) AddPoints(ctx context.Context, player string, delta int) error {
	var current int
	err := s.pool.QueryRow(ctx, `SELECT points FROM classification WHERE player = $1`, player).Scan(&current)
	if err != nil {
		return fmt.Errorf("read points for %s: %w", player, err)
	}
	_, err = s.pool.Exec(ctx, `UPDATE classification SET points = $1 WHERE player = $2`, current+delta, player)
	if err != nil {
		return fmt.Errorf("update points for %s: %w", player, err)
	}
	return nil
}

// Snapshot replaces the backup table with a full copy of the
// classification table.
func (s *LeaderboardStore) Snapshot(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DROP TABLE IF EXISTS classification_backup`); err != nil {
		return fmt.Errorf("drop backup: %w", err)
	}
	if _, err := s.pool.Exec(ctx, `CREATE TABLE classification_backup AS SELECT * FROM classification`); err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) ListCarryOver(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT player FROM second_turn ORDER BY player`)
	if err != nil {
		return nil, fmt.Errorf("list carry-over: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan carry-over: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *LeaderboardStore) AddCarryOver(ctx context.Context, players []string) error {
	for _, player := range players {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO second_turn (player) VALUES ($1) ON CONFLICT (player) DO NOTHING`, player)
		if err != nil {
			return fmt.Errorf("add carry-over %s: %w", player, err)
		}
	}
	return nil
}

// ReplaceCarryOver swaps the whole set, for operator corrections
// outside the normal append/clear cycle.
func (s *LeaderboardStore) ReplaceCarryOver(ctx context.Context, players []string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM second_turn`); err != nil {
		return fmt.Errorf("replace carry-over: %w", err)
	}
	return s.AddCarryOver(ctx, players)
}

func (s *LeaderboardStore) ClearCarryOver(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM second_turn`); err != nil {
		return fmt.Errorf("clear carry-over: %w", err)
	}
	return nil
}
