package dealer

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/openfelt/blackjack-table/internal/game"
)

// RenderFunc receives each authoritative snapshot exactly once, in the order
// the dealer produced them. It is the only path allowed to mutate visible
// table state.
type RenderFunc func(*game.RoundSnapshot)

// Synchronizer is the single funnel for state-changing requests. It owns the
// current-snapshot reference and never predicts outcomes locally: the table's
// notion of "current state" is always exactly what the dealer last returned.
//
// Concurrency discipline: one state-mutating request at a time. Controls are
// disabled at dispatch by the front end; the in-flight guard here rejects
// anything that slips through, and a small rate limiter backstops
// double-clicks on irreversible actions like bonus collection.
type Synchronizer struct {
	client *Client
	render RenderFunc

	mu       sync.Mutex
	inFlight bool
	current  *game.RoundSnapshot
	lastBets []game.BetTriple

	collectLimiter *rate.Limiter
}

// NewSynchronizer creates a synchronizer over the given client. render is
// invoked exactly once per completed call that carried a snapshot, including
// rejections bundled with partial state.
func NewSynchronizer(client *Client, render RenderFunc) *Synchronizer {
	return &Synchronizer{
		client:         client,
		render:         render,
		collectLimiter: rate.NewLimiter(rate.Limit(1), 1),
	}
}

// Current returns the last snapshot the dealer produced, or nil before the
// first round starts.
func (s *Synchronizer) Current() *game.RoundSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// LastBets returns the previous round's bets as reported by the most recent
// rebet response, for repopulating the inputs.
func (s *Synchronizer) LastBets() []game.BetTriple {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBets
}

// StartRound requests the initial snapshot for a fresh table.
func (s *Synchronizer) StartRound(ctx context.Context) error {
	return s.perform(ctx, func(ctx context.Context) (*Envelope, error) {
		return s.client.StartRound(ctx)
	})
}

// PlaceBets validates and normalizes the bets client-side, then deals the
// round. A hand without a main wager has its side bets forced to zero before
// the request is sent; a table with no main bet anywhere never reaches the
// network.
func (s *Synchronizer) PlaceBets(ctx context.Context, bets []game.BetTriple) error {
	normalized := game.NormalizeBets(bets)
	if !game.HasMainBet(normalized) {
		return &ValidationError{Message: "You must place a main bet on at least one hand."}
	}
	return s.perform(ctx, func(ctx context.Context) (*Envelope, error) {
		return s.client.PlaceBets(ctx, normalized)
	})
}

// Valid player_action values.
const (
	ActionHit    = "hit"
	ActionStand  = "stand"
	ActionDouble = "double"
	ActionSplit  = "split"
)

// PlayerAction performs hit, stand, double or split on the given hand.
func (s *Synchronizer) PlayerAction(ctx context.Context, action string, handIndex int) error {
	switch action {
	case ActionHit, ActionStand, ActionDouble, ActionSplit:
	default:
		return &ValidationError{Message: fmt.Sprintf("unknown player action %q", action)}
	}
	if handIndex == game.NoActiveHand {
		return &ValidationError{Message: "No active hand to act on."}
	}
	return s.perform(ctx, func(ctx context.Context) (*Envelope, error) {
		return s.client.PlayerAction(ctx, action, handIndex)
	})
}

// Rebet restores the previous round's bets and records last_bets from the
// response for the front end to repopulate its inputs.
func (s *Synchronizer) Rebet(ctx context.Context) error {
	return s.perform(ctx, func(ctx context.Context) (*Envelope, error) {
		return s.client.Rebet(ctx)
	})
}

// CollectBonus claims the periodic bonus. Collection is irreversible, so on
// top of the in-flight guard a one-per-second limiter swallows double-clicks.
func (s *Synchronizer) CollectBonus(ctx context.Context) error {
	if !s.collectLimiter.Allow() {
		return ErrTooSoon
	}
	return s.perform(ctx, func(ctx context.Context) (*Envelope, error) {
		return s.client.CollectBonus(ctx)
	})
}

// perform runs one state-mutating request end to end: in-flight acquisition,
// the request itself, snapshot replacement and the single render pass.
func (s *Synchronizer) perform(ctx context.Context, call func(context.Context) (*Envelope, error)) error {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return ErrRequestInFlight
	}
	s.inFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	envelope, err := call(ctx)
	if err != nil {
		// Transport failure: last-known-good state stays on the table.
		return err
	}

	if envelope.GameState != nil {
		s.mu.Lock()
		s.current = envelope.GameState
		if envelope.LastBets != nil {
			s.lastBets = envelope.LastBets
		}
		s.mu.Unlock()

		if s.render != nil {
			s.render(envelope.GameState)
		}
	}

	if !envelope.Success {
		return &RejectedError{Message: envelope.Message, State: envelope.GameState}
	}
	return nil
}
