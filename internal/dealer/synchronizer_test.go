package dealer_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfelt/blackjack-table/internal/dealer"
	"github.com/openfelt/blackjack-table/internal/dealertest"
	"github.com/openfelt/blackjack-table/internal/game"
)

// renderRecorder counts render calls and remembers the snapshots, in order.
type renderRecorder struct {
	mu    sync.Mutex
	snaps []*game.RoundSnapshot
}

func (r *renderRecorder) render(snap *game.RoundSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, snap)
}

func (r *renderRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *renderRecorder) last() *game.RoundSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return nil
	}
	return r.snaps[len(r.snaps)-1]
}

func newTestSync(t *testing.T, scripted *dealertest.Dealer) (*dealer.Synchronizer, *renderRecorder) {
	t.Helper()
	server := httptest.NewServer(scripted.Handler())
	t.Cleanup(server.Close)

	recorder := &renderRecorder{}
	client := dealer.NewClient(dealer.DefaultClientConfig(server.URL))
	return dealer.NewSynchronizer(client, recorder.render), recorder
}

func TestStartRoundRendersOnce(t *testing.T) {
	scripted := dealertest.New()
	scripted.Queue(dealertest.StartRound, dealertest.OK(dealertest.BettingSnapshot(5000)))

	s, recorder := newTestSync(t, scripted)

	require.NoError(t, s.StartRound(context.Background()))
	assert.Equal(t, 1, recorder.count())
	require.NotNil(t, s.Current())
	assert.Equal(t, game.PhaseBetting, s.Current().GamePhase)
	assert.Equal(t, 5000, s.Current().PlayerChips)
}

func TestRejectionWithPartialSnapshotStillRenders(t *testing.T) {
	unchanged := dealertest.BettingSnapshot(100)
	scripted := dealertest.New()
	scripted.Queue(dealertest.PlaceBets, dealertest.Rejected("Insufficient chips.", unchanged))

	s, recorder := newTestSync(t, scripted)

	err := s.PlaceBets(context.Background(), []game.BetTriple{{MainBet: 500}})
	var rejected *dealer.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Insufficient chips.", rejected.Message)

	// The partial snapshot is truth like any other and must be rendered.
	assert.Equal(t, 1, recorder.count())
	require.NotNil(t, s.Current())
	assert.Equal(t, 100, s.Current().PlayerChips)
}

func TestRejectionWithoutSnapshotRendersNothing(t *testing.T) {
	scripted := dealertest.New()
	scripted.Queue(dealertest.StartRound, dealertest.Rejected("table closed", nil))

	s, recorder := newTestSync(t, scripted)

	err := s.StartRound(context.Background())
	var rejected *dealer.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, 0, recorder.count())
	assert.Nil(t, s.Current())
}

func TestTransportErrorKeepsLastKnownGood(t *testing.T) {
	scripted := dealertest.New()
	scripted.Queue(dealertest.StartRound, dealertest.OK(dealertest.BettingSnapshot(5000)))

	server := httptest.NewServer(scripted.Handler())
	recorder := &renderRecorder{}
	client := dealer.NewClient(dealer.DefaultClientConfig(server.URL))
	s := dealer.NewSynchronizer(client, recorder.render)

	require.NoError(t, s.StartRound(context.Background()))
	server.Close()

	err := s.PlaceBets(context.Background(), []game.BetTriple{{MainBet: 500}})
	var transport *dealer.TransportError
	require.ErrorAs(t, err, &transport)

	// No render on failure; the betting snapshot stays current.
	assert.Equal(t, 1, recorder.count())
	require.NotNil(t, s.Current())
	assert.Equal(t, game.PhaseBetting, s.Current().GamePhase)
}

func TestInFlightGuard(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"game_state":{"game_phase":"betting","player_hands":[],"player_chips":5000,"current_active_hand_index":-1}}`))
	}))
	defer server.Close()

	client := dealer.NewClient(dealer.DefaultClientConfig(server.URL))
	s := dealer.NewSynchronizer(client, nil)

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- s.StartRound(context.Background())
	}()

	<-arrived
	err := s.Rebet(context.Background())
	assert.ErrorIs(t, err, dealer.ErrRequestInFlight)

	close(release)
	require.NoError(t, <-firstDone)
}

func TestPlaceBetsValidationSendsNoRequest(t *testing.T) {
	scripted := dealertest.New()
	s, recorder := newTestSync(t, scripted)

	err := s.PlaceBets(context.Background(), []game.BetTriple{{Side213: 500, SidePP: 300}})
	var validation *dealer.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, 0, scripted.CallCount(dealertest.PlaceBets))
	assert.Equal(t, 0, recorder.count())
}

func TestPlaceBetsNormalizesOnTheWire(t *testing.T) {
	scripted := dealertest.New()
	scripted.Queue(dealertest.PlaceBets, dealertest.OK(dealertest.BettingSnapshot(4200)))

	s, _ := newTestSync(t, scripted)

	bets := []game.BetTriple{
		{MainBet: 500, Side213: 100},
		{Side213: 200, SidePP: 100}, // no main bet: side bets dropped
	}
	require.NoError(t, s.PlaceBets(context.Background(), bets))

	calls := scripted.PlaceBetsCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []game.BetTriple{
		{MainBet: 500, Side213: 100},
		{},
	}, calls[0])
}

func TestPlayerActionValidation(t *testing.T) {
	scripted := dealertest.New()
	s, _ := newTestSync(t, scripted)

	tests := []struct {
		name      string
		action    string
		handIndex int
	}{
		{"Unknown action", "fold", 0},
		{"No active hand", dealer.ActionHit, game.NoActiveHand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.PlayerAction(context.Background(), tt.action, tt.handIndex)
			var validation *dealer.ValidationError
			require.ErrorAs(t, err, &validation)
		})
	}
	assert.Equal(t, 0, scripted.CallCount(dealertest.PlayerAction))
}

func TestPlayerActionOnTheWire(t *testing.T) {
	scripted := dealertest.New()
	scripted.Queue(dealertest.PlayerAction, dealertest.OK(dealertest.BettingSnapshot(5000)))

	s, _ := newTestSync(t, scripted)

	require.NoError(t, s.PlayerAction(context.Background(), dealer.ActionDouble, 1))
	calls := scripted.PlayerActionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, dealertest.PlayerActionCall{Action: "double", HandIndex: 1}, calls[0])
}

func TestRebetRecordsLastBets(t *testing.T) {
	scripted := dealertest.New()
	scripted.Queue(dealertest.Rebet, dealer.Envelope{
		Success:   true,
		GameState: dealertest.BettingSnapshot(4500),
		LastBets:  []game.BetTriple{{MainBet: 500, SidePP: 25}},
	})

	s, recorder := newTestSync(t, scripted)

	require.NoError(t, s.Rebet(context.Background()))
	assert.Equal(t, 1, recorder.count())
	assert.Equal(t, []game.BetTriple{{MainBet: 500, SidePP: 25}}, s.LastBets())
}

func TestCollectBonusDoubleClickBackstop(t *testing.T) {
	scripted := dealertest.New()
	scripted.Queue(dealertest.CollectBonus, dealertest.OK(dealertest.BettingSnapshot(6000)))

	s, _ := newTestSync(t, scripted)

	require.NoError(t, s.CollectBonus(context.Background()))
	err := s.CollectBonus(context.Background())
	assert.ErrorIs(t, err, dealer.ErrTooSoon)
	assert.Equal(t, 1, scripted.CallCount(dealertest.CollectBonus))
}

// One scripted round end to end: bet, deal, hit, stand, lose. Every call
// renders exactly once and the final snapshot is the authoritative truth.
func TestScriptedRoundEndToEnd(t *testing.T) {
	scripted := dealertest.New()
	dealertest.LoadPracticeScript(scripted)

	s, recorder := newTestSync(t, scripted)
	ctx := context.Background()

	require.NoError(t, s.StartRound(ctx))
	require.NoError(t, s.PlaceBets(ctx, []game.BetTriple{{MainBet: 500}}))
	require.Equal(t, game.PhasePlayerTurns, s.Current().GamePhase)

	require.NoError(t, s.PlayerAction(ctx, dealer.ActionHit, 0))
	require.Len(t, s.Current().PlayerHands[0].Cards, 3)

	require.NoError(t, s.PlayerAction(ctx, dealer.ActionStand, 0))
	final := s.Current()
	require.Equal(t, game.PhaseRoundOver, final.GamePhase)
	assert.Equal(t, "9_of_diamonds.png", final.DealerHand[1].Filename)
	assert.Equal(t, game.OutcomeLose, final.RoundOutcome())

	assert.Equal(t, 4, recorder.count())
	assert.Same(t, final, recorder.last())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "Transport error",
			err:  &dealer.TransportError{Path: "/api/place_bets", Err: errors.New("connection refused")},
			want: "Network error: the dealer could not be reached. Try again.",
		},
		{
			name: "Rejection",
			err:  &dealer.RejectedError{Message: "Insufficient chips."},
			want: "Error: Insufficient chips.",
		},
		{
			name: "Validation",
			err:  &dealer.ValidationError{Message: "You must place a main bet on at least one hand."},
			want: "You must place a main bet on at least one hand.",
		},
		{
			name: "In flight",
			err:  dealer.ErrRequestInFlight,
			want: "Hold on, the previous action is still being resolved.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dealer.UserMessage(tt.err))
		})
	}
}
