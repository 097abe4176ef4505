// Package reconcile turns an authoritative round snapshot into a render plan:
// the exact set of visual changes a front end must apply to move from what it
// last showed to what the snapshot describes. The planner is a pure function
// of (snapshot, previous render state); it never assumes monotonic change
// between snapshots. Hand counts can shrink, grow or reorder, and the plan
// expresses each case explicitly so the applier never has to diff anything
// itself.
package reconcile

import (
	"time"

	"github.com/openfelt/blackjack-table/internal/game"
)

// State is the ephemeral bookkeeping carried between renders. It is a cache
// of the previous render, never game data: everything in it can be rebuilt
// from scratch by rendering one snapshot with a zero State.
type State struct {
	// DealerCards is the number of dealer cards shown by the last render.
	DealerCards int

	// HandCards maps hand index to the card count shown by the last render.
	// An index present here has a materialized container in the front end.
	HandCards map[int]int

	// OutcomeCued records that the current round's outcome cue has fired.
	// Cleared when the phase returns to betting.
	OutcomeCued bool
}

// NewState returns an empty render state for a fresh table.
func NewState() State {
	return State{HandCards: make(map[int]int)}
}

// CardOps describes how a single card row (one hand, or the dealer) must
// change. Cards holds the full target sequence. When Reset is set the row is
// cleared and redrawn from empty without dealing animation. Otherwise cards
// at positions [DealFrom, len(Cards)) are newly dealt and fly in staggered;
// positions before DealFrom keep their existing elements, with the applier
// swapping an image in place wherever the target filename differs from what
// is displayed (the dealer hole-card reveal).
type CardOps struct {
	Cards    []game.Card
	Reset    bool
	DealFrom int
}

// Dealt returns the newly appended suffix to animate.
func (c CardOps) Dealt() []game.Card {
	if c.Reset || c.DealFrom >= len(c.Cards) {
		return nil
	}
	return c.Cards[c.DealFrom:]
}

// HandPlan is the per-hand slice of a render plan.
type HandPlan struct {
	Index  int
	Cards  CardOps
	Total  int
	Result string
	Active bool

	// Committed bets, baked into the zone displays outside the betting phase.
	MainBet int
	Side213 int
	SidePP  int

	// ShowInputs selects numeric inputs (betting) over committed displays.
	ShowInputs bool
	// ZonesClickable gates the betting-zone buttons.
	ZonesClickable bool
}

// Buttons is the enablement of every table control, derived purely from the
// snapshot's phase and active hand.
type Buttons struct {
	Deal         bool
	Hit          bool
	Stand        bool
	Double       bool
	Split        bool
	ClearBets    bool
	Rebet        bool
	CollectBonus bool
}

// Cue is a one-shot audio cue requested by a plan.
type Cue int

const (
	CueNone Cue = iota
	CueWin
	CueLose
	CuePush
)

// Plan is everything a front end must apply for one reconciliation pass.
// Applying the same plan twice must be visually idempotent; the planner
// guarantees a second Build of the same snapshot emits no deals and no cue.
type Plan struct {
	Phase       game.Phase
	Dealer      CardOps
	DealerTotal int

	// Hands has one entry per hand present in the snapshot. HideHands lists
	// previously materialized indexes absent from it; their containers are
	// hidden, never destroyed, so they remain stable anchors if the index
	// returns in a later snapshot.
	Hands     []HandPlan
	HideHands []int

	Buttons  Buttons
	Chips    int
	Message  string
	TotalBet int

	Cue Cue

	// Countdown, when set, asks the applier to run a one-second countdown to
	// the bonus availability time. Re-derived fresh on every pass; any
	// previously running countdown is superseded.
	Countdown  *time.Time
	BonusLabel string
}

// Build computes the render plan for a snapshot against the previous render
// state, and the state a front end holds after applying it. It reads prev and
// returns a replacement; it never mutates prev.
func Build(snap *game.RoundSnapshot, prev State) (Plan, State) {
	next := State{
		HandCards:   make(map[int]int, len(snap.PlayerHands)),
		OutcomeCued: prev.OutcomeCued,
	}

	plan := Plan{
		Phase:       snap.GamePhase,
		DealerTotal: snap.DealerTotal,
		Chips:       snap.PlayerChips,
		Message:     snap.GameMessage,
		TotalBet:    snap.TotalWagered(),
	}

	plan.Dealer = diffCards(prev.DealerCards, snap.DealerHand)
	next.DealerCards = len(snap.DealerHand)

	betting := snap.GamePhase == game.PhaseBetting
	for i := range snap.PlayerHands {
		hand := &snap.PlayerHands[i]
		prevCount, seen := prev.HandCards[hand.HandIndex]
		if !seen {
			prevCount = 0
		}
		plan.Hands = append(plan.Hands, HandPlan{
			Index:          hand.HandIndex,
			Cards:          diffCards(prevCount, hand.Cards),
			Total:          hand.Total,
			Result:         hand.ResultMessage,
			Active:         hand.IsActive && snap.GamePhase == game.PhasePlayerTurns,
			MainBet:        hand.MainBet,
			Side213:        hand.SideBet213,
			SidePP:         hand.SideBetPerfectPair,
			ShowInputs:     betting,
			ZonesClickable: betting,
		})
		next.HandCards[hand.HandIndex] = len(hand.Cards)
	}

	for index := range prev.HandCards {
		if _, present := next.HandCards[index]; !present {
			plan.HideHands = append(plan.HideHands, index)
		}
	}

	plan.Buttons = buttonsFor(snap)

	if snap.GamePhase == game.PhaseBetting {
		next.OutcomeCued = false
	}
	if snap.GamePhase == game.PhaseRoundOver && !next.OutcomeCued {
		plan.Cue = cueFor(snap.RoundOutcome())
		next.OutcomeCued = true
	}

	plan.BonusLabel = snap.BonusCooldownMessage
	if !snap.CanCollectBonus && snap.NextBonusTime != nil {
		plan.Countdown = snap.NextBonusTime
	}

	return plan, next
}

// diffCards compares the target card sequence against the previously rendered
// count. Fewer cards than before signals a round reset: clear and redraw.
// More cards means the suffix was just dealt and should animate in. Equal
// lengths leave existing elements alone apart from in-place image patches
// the applier derives from Cards.
func diffCards(prevCount int, cards []game.Card) CardOps {
	ops := CardOps{Cards: cards}
	switch {
	case len(cards) < prevCount:
		ops.Reset = true
	default:
		ops.DealFrom = prevCount
	}
	return ops
}

func buttonsFor(snap *game.RoundSnapshot) Buttons {
	betting := snap.GamePhase == game.PhaseBetting
	playerTurns := snap.GamePhase == game.PhasePlayerTurns
	roundOver := snap.GamePhase == game.PhaseRoundOver

	active, hasActive := snap.ActiveHand()

	b := Buttons{
		Deal:      betting,
		Hit:       playerTurns && hasActive,
		Stand:     playerTurns && hasActive,
		ClearBets: betting || roundOver,
		Rebet:     betting || roundOver,
		// Bonus availability is driven solely by the dealer's flag, not the
		// phase; the cooldown countdown re-enables it the moment it expires.
		CollectBonus: snap.CanCollectBonus,
	}
	if hasActive {
		b.Double = playerTurns && active.CanDouble
		b.Split = playerTurns && active.CanSplit
	}
	return b
}

func cueFor(outcome game.Outcome) Cue {
	switch outcome {
	case game.OutcomeWin:
		return CueWin
	case game.OutcomeLose:
		return CueLose
	default:
		return CuePush
	}
}
