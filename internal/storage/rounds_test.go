package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfelt/blackjack-table/internal/game"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	config := DefaultConfig(":memory:")
	config.AutoMigrate = true
	db, err := Open(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func roundOver(winnings, mainBet, chips int) *game.RoundSnapshot {
	return &game.RoundSnapshot{
		GamePhase: game.PhaseRoundOver,
		PlayerHands: []game.HandSnapshot{{
			HandIndex: 0,
			MainBet:   mainBet,
			Winnings:  winnings,
		}},
		PlayerChips:            chips,
		CurrentActiveHandIndex: game.NoActiveHand,
	}
}

func TestRecordSnapshot(t *testing.T) {
	store := NewRoundStore(openTestDB(t))
	ctx := context.Background()

	rec, err := store.RecordSnapshot(ctx, roundOver(1250, 500, 5750))
	require.NoError(t, err)

	assert.NotZero(t, rec.ID)
	assert.Equal(t, store.SessionID(), rec.SessionID)
	assert.Equal(t, 1, rec.HandsPlayed)
	assert.Equal(t, 500, rec.TotalWagered)
	assert.Equal(t, 750, rec.NetDelta)
	assert.Equal(t, "win", rec.Outcome)
	assert.Equal(t, 5750, rec.EndChips)
}

func TestRecordSnapshotSkipsUnplayedHands(t *testing.T) {
	store := NewRoundStore(openTestDB(t))

	snap := roundOver(0, 500, 4500)
	snap.PlayerHands = append(snap.PlayerHands, game.HandSnapshot{HandIndex: 1})

	rec, err := store.RecordSnapshot(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.HandsPlayed)
}

func TestRecentRoundsNewestFirst(t *testing.T) {
	store := NewRoundStore(openTestDB(t))
	ctx := context.Background()

	_, err := store.RecordSnapshot(ctx, roundOver(0, 100, 900))
	require.NoError(t, err)
	_, err = store.RecordSnapshot(ctx, roundOver(200, 100, 1000))
	require.NoError(t, err)
	_, err = store.RecordSnapshot(ctx, roundOver(100, 100, 1000))
	require.NoError(t, err)

	records, err := store.RecentRounds(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "push", records[0].Outcome)
	assert.Equal(t, "win", records[1].Outcome)
}

func TestSessionNet(t *testing.T) {
	db := openTestDB(t)
	store := NewRoundStore(db)
	ctx := context.Background()

	_, err := store.RecordSnapshot(ctx, roundOver(0, 500, 4500))
	require.NoError(t, err)
	_, err = store.RecordSnapshot(ctx, roundOver(1250, 500, 5250))
	require.NoError(t, err)

	net, err := store.SessionNet(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, net)

	// A different session on the same database totals independently.
	other := NewRoundStore(db)
	net, err = other.SessionNet(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, net)
}

func TestRecentRoundsDefaultLimit(t *testing.T) {
	store := NewRoundStore(openTestDB(t))
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		_, err := store.RecordSnapshot(ctx, roundOver(100, 100, 1000+i))
		require.NoError(t, err)
	}

	records, err := store.RecentRounds(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 20)
}
