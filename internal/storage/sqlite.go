// Package storage provides SQLite-based persistence for round and match history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-frogger/internal/frogger"
	"github.com/vovakirdan/tui-frogger/internal/multiplayer"
)

const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RoundEntry is one finished round as seen by the local board.
type RoundEntry struct {
	ID        int64
	Outcome   frogger.Outcome
	Ticks     int
	Seed      int64
	Peer      string // Link peer or opponent name; empty when unknown
	CreatedAt time.Time
}

// OnlineMatchResult represents the outcome of a match paired by the SSH server.
type OnlineMatchResult struct {
	ID             int64
	MatchID        string
	Code           string
	Player1Session string
	Player2Session string
	Wins1          int
	Wins2          int
	Rounds         int
	WinnerSession  string // Empty on a tie
	EndReason      string
	Duration       int // Duration in seconds
	CreatedAt      time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			outcome TEXT NOT NULL,
			ticks INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			peer TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_rounds_outcome ON rounds(outcome);

		CREATE TABLE IF NOT EXISTS online_matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			code TEXT NOT NULL,
			player1_session TEXT NOT NULL,
			player2_session TEXT NOT NULL,
			wins1 INTEGER NOT NULL DEFAULT 0,
			wins2 INTEGER NOT NULL DEFAULT 0,
			rounds INTEGER NOT NULL DEFAULT 0,
			winner_session TEXT,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player1 ON online_matches(player1_session);
		CREATE INDEX IF NOT EXISTS idx_online_matches_player2 ON online_matches(player2_session);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime handles both time.Time and the SQLite text form of created_at.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveRound records a finished round against peer.
// Returns the ID of the inserted record.
func (s *Store) SaveRound(peer string, r frogger.RoundResult) (int64, error) {
	if r.Outcome == frogger.OutcomeNone {
		return 0, errors.New("storage: round has no outcome")
	}
	result, err := s.db.Exec(
		"INSERT INTO rounds (outcome, ticks, seed, peer) VALUES (?, ?, ?, ?)",
		r.Outcome.String(), r.Ticks, r.Seed, peer,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save round: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecordRound records a round with no peer label.
func (s *Store) RecordRound(r frogger.RoundResult) error {
	_, err := s.SaveRound("", r)
	return err
}

var _ frogger.RoundRecorder = (*Store)(nil)

// PeerRecorder records rounds against a fixed peer label.
type PeerRecorder struct {
	store *Store
	peer  string
}

// ForPeer returns a recorder that tags every round with peer.
func (s *Store) ForPeer(peer string) *PeerRecorder {
	return &PeerRecorder{store: s, peer: peer}
}

// RecordRound implements frogger.RoundRecorder.
func (p *PeerRecorder) RecordRound(r frogger.RoundResult) error {
	_, err := p.store.SaveRound(p.peer, r)
	return err
}

// RecentRounds retrieves the most recent rounds, newest first.
func (s *Store) RecentRounds(limit int) ([]RoundEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, outcome, ticks, seed, peer, created_at
		 FROM rounds
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query rounds: %w", err)
	}
	defer rows.Close()

	var entries []RoundEntry
	for rows.Next() {
		var e RoundEntry
		var outcome string
		var createdAt any
		if err := rows.Scan(&e.ID, &outcome, &e.Ticks, &e.Seed, &e.Peer, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Outcome = frogger.ParseOutcome(outcome)
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// ClearRounds deletes all round history.
func (s *Store) ClearRounds() error {
	if _, err := s.db.Exec("DELETE FROM rounds"); err != nil {
		return fmt.Errorf("storage: cannot clear rounds: %w", err)
	}
	return nil
}

// RoundStats contains aggregated statistics over all recorded rounds.
type RoundStats struct {
	Rounds       int
	Wins         int
	OpponentWins int
	Deaths       int
	FastestWin   int // Fewest ticks in a won round; 0 without wins
	LastPlayed   time.Time
}

// WinRate returns the share of rounds won, or 0 with no rounds.
func (r RoundStats) WinRate() float64 {
	if r.Rounds == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Rounds)
}

// Stats retrieves aggregated round statistics.
func (s *Store) Stats() (*RoundStats, error) {
	stats := &RoundStats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(outcome = ?), 0),
		        COALESCE(SUM(outcome = ?), 0),
		        COALESCE(SUM(outcome = ?), 0),
		        COALESCE(MIN(CASE WHEN outcome = ? THEN ticks END), 0)
		 FROM rounds`,
		frogger.OutcomeWin.String(),
		frogger.OutcomeRemoteWin.String(),
		frogger.OutcomeDied.String(),
		frogger.OutcomeWin.String(),
	).Scan(&stats.Rounds, &stats.Wins, &stats.OpponentWins, &stats.Deaths, &stats.FastestWin)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get round stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(`SELECT created_at FROM rounds ORDER BY id DESC LIMIT 1`).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// SaveOnlineMatch records the result of a paired match.
func (s *Store) SaveOnlineMatch(result OnlineMatchResult) (int64, error) {
	var winner any
	if result.WinnerSession != "" {
		winner = result.WinnerSession
	}
	res, err := s.db.Exec(
		`INSERT INTO online_matches
		 (match_id, code, player1_session, player2_session, wins1, wins2, rounds, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID,
		result.Code,
		result.Player1Session,
		result.Player2Session,
		result.Wins1,
		result.Wins2,
		result.Rounds,
		winner,
		result.EndReason,
		result.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save online match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

const matchColumns = `id, match_id, code, player1_session, player2_session,
		        wins1, wins2, rounds, winner_session, end_reason, duration_secs, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (OnlineMatchResult, error) {
	var result OnlineMatchResult
	var winnerSession sql.NullString
	var createdAt any
	err := row.Scan(
		&result.ID,
		&result.MatchID,
		&result.Code,
		&result.Player1Session,
		&result.Player2Session,
		&result.Wins1,
		&result.Wins2,
		&result.Rounds,
		&winnerSession,
		&result.EndReason,
		&result.Duration,
		&createdAt,
	)
	if err != nil {
		return result, err
	}
	if winnerSession.Valid {
		result.WinnerSession = winnerSession.String
	}
	result.CreatedAt = parseTime(createdAt)
	return result, nil
}

// OnlineMatchByID retrieves a match by its ID. Returns nil if not found.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM online_matches WHERE match_id = ?`, matchID)
	result, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get online match: %w", err)
	}
	return &result, nil
}

// RecentOnlineMatches retrieves the most recent matches.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryMatches(
		`SELECT `+matchColumns+` FROM online_matches ORDER BY id DESC LIMIT ?`,
		limit,
	)
}

// PlayerMatchHistory retrieves match history for a player. The player is
// either an exact session ID or an SSH user name, whose sessions are
// named "<user>-<nanos>".
func (s *Store) PlayerMatchHistory(player string, limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	prefix := likeEscaper.Replace(player) + "-%"
	return s.queryMatches(
		`SELECT `+matchColumns+` FROM online_matches
		 WHERE player1_session = ? OR player2_session = ?
		    OR player1_session LIKE ? ESCAPE '\' OR player2_session LIKE ? ESCAPE '\'
		 ORDER BY id DESC LIMIT ?`,
		player, player, prefix, prefix, limit,
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (s *Store) queryMatches(query string, args ...any) ([]OnlineMatchResult, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query online matches: %w", err)
	}
	defer rows.Close()

	var results []OnlineMatchResult
	for rows.Next() {
		result, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return results, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveOnlineMatch(OnlineMatchResult{
		MatchID:        data.MatchID,
		Code:           data.Code,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Wins1:          data.Wins1,
		Wins2:          data.Wins2,
		Rounds:         data.Rounds,
		WinnerSession:  data.WinnerSession,
		EndReason:      data.EndReason,
		Duration:       data.DurationSecs,
	})
	return err
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)
