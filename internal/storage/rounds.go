package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openfelt/blackjack-table/internal/game"
)

// RoundRecord is one finished round as stored locally.
type RoundRecord struct {
	ID           int64
	SessionID    string
	PlayedAt     time.Time
	HandsPlayed  int
	TotalWagered int
	NetDelta     int
	Outcome      string
	EndChips     int
}

// RoundStore records and queries finished rounds. All rounds recorded by one
// store share a session id, so a session's net result can be totalled later.
type RoundStore struct {
	db        *DB
	sessionID string
}

// NewRoundStore creates a store with a fresh session identity.
func NewRoundStore(db *DB) *RoundStore {
	return &RoundStore{
		db:        db,
		sessionID: uuid.New().String(),
	}
}

// SessionID returns the store's session identity.
func (s *RoundStore) SessionID() string {
	return s.sessionID
}

// RecordSnapshot summarizes a round-over snapshot into a record and stores
// it. Hands without a main wager did not play and are not counted.
func (s *RoundStore) RecordSnapshot(ctx context.Context, snap *game.RoundSnapshot) (*RoundRecord, error) {
	handsPlayed := 0
	for i := range snap.PlayerHands {
		if snap.PlayerHands[i].MainBet > 0 {
			handsPlayed++
		}
	}

	rec := &RoundRecord{
		SessionID:    s.sessionID,
		PlayedAt:     time.Now().UTC(),
		HandsPlayed:  handsPlayed,
		TotalWagered: snap.TotalWagered(),
		NetDelta:     snap.NetDelta(),
		Outcome:      snap.RoundOutcome().String(),
		EndChips:     snap.PlayerChips,
	}
	if err := s.insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RoundStore) insert(ctx context.Context, rec *RoundRecord) error {
	result, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO rounds (session_id, played_at, hands_played, total_wagered, net_delta, outcome, end_chips)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.PlayedAt, rec.HandsPlayed, rec.TotalWagered, rec.NetDelta, rec.Outcome, rec.EndChips,
	)
	if err != nil {
		return fmt.Errorf("insert round: %w", err)
	}
	rec.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("read round id: %w", err)
	}
	return nil
}

// RecentRounds returns the most recent rounds across all sessions, newest
// first.
func (s *RoundStore) RecentRounds(ctx context.Context, limit int) ([]*RoundRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, session_id, played_at, hands_played, total_wagered, net_delta, outcome, end_chips
		FROM rounds
		ORDER BY played_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer func() {
		//nolint:errcheck // Ignore error on cleanup
		_ = rows.Close()
	}()

	var records []*RoundRecord
	for rows.Next() {
		rec := &RoundRecord{}
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.PlayedAt, &rec.HandsPlayed,
			&rec.TotalWagered, &rec.NetDelta, &rec.Outcome, &rec.EndChips); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}
	return records, nil
}

// SessionNet totals the net chip movement of the store's current session.
func (s *RoundStore) SessionNet(ctx context.Context) (int, error) {
	var net int
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(net_delta), 0) FROM rounds WHERE session_id = ?`,
		s.sessionID,
	).Scan(&net)
	if err != nil {
		return 0, fmt.Errorf("sum session net: %w", err)
	}
	return net, nil
}
