// Package game defines the authoritative table state pushed by the dealer
// service, and the pure bet arithmetic performed on it client-side. The
// client never derives game outcomes itself; every value here is either
// decoded straight from a dealer response or computed from one.
package game

import "time"

// Phase is the dealer-reported stage of the current round. Every piece of
// control enablement and input visibility in the client derives from it.
type Phase string

const (
	PhaseBetting     Phase = "betting"
	PhasePlayerTurns Phase = "player_turns"
	PhaseRoundOver   Phase = "round_over"
)

// NoActiveHand is the sentinel the dealer sends when no hand accepts actions.
const NoActiveHand = -1

// Card is a single dealt card. Filename is its visual identity; the renderer
// keys all image work off it. Rank and suit feed accessibility text only.
type Card struct {
	Rank     string `json:"rank"`
	Suit     string `json:"suit"`
	Filename string `json:"filename"`
}

// AltText returns the accessibility description for a card image.
func (c Card) AltText() string {
	return c.Rank + c.Suit
}

// HandSnapshot is one player hand as reported by the dealer. HandIndex is the
// stable identity across renders; hand counts can change between any two
// snapshots (splits, round resets), so the index is the only safe anchor.
type HandSnapshot struct {
	HandIndex          int    `json:"hand_index"`
	Cards              []Card `json:"hand"`
	Total              int    `json:"total"`
	ResultMessage      string `json:"result_message"`
	MainBet            int    `json:"main_bet"`
	SideBet213         int    `json:"side_bet_21_3"`
	SideBetPerfectPair int    `json:"side_bet_perfect_pair"`
	Winnings           int    `json:"winnings"`
	CanDouble          bool   `json:"can_double"`
	CanSplit           bool   `json:"can_split"`
	IsActive           bool   `json:"is_active"`
}

// TotalWagered returns the hand's committed main plus side bets.
func (h *HandSnapshot) TotalWagered() int {
	return h.MainBet + h.SideBet213 + h.SideBetPerfectPair
}

// RoundSnapshot is the full authoritative table state returned on every
// dealer response. Each snapshot wholly supersedes the previous one; the
// client never merges two snapshots.
type RoundSnapshot struct {
	GamePhase              Phase          `json:"game_phase"`
	DealerHand             []Card         `json:"dealer_hand"`
	DealerTotal            int            `json:"dealer_total"`
	PlayerHands            []HandSnapshot `json:"player_hands"`
	PlayerChips            int            `json:"player_chips"`
	CurrentActiveHandIndex int            `json:"current_active_hand_index"`
	GameMessage            string         `json:"game_message"`
	CanCollectBonus        bool           `json:"can_collect_bonus"`
	NextBonusTime          *time.Time     `json:"next_bonus_time"`
	BonusCooldownMessage   string         `json:"bonus_cooldown_message"`
}

// ActiveHand returns the hand currently accepting player actions, if any.
func (s *RoundSnapshot) ActiveHand() (*HandSnapshot, bool) {
	if s.CurrentActiveHandIndex == NoActiveHand {
		return nil, false
	}
	for i := range s.PlayerHands {
		if s.PlayerHands[i].HandIndex == s.CurrentActiveHandIndex {
			return &s.PlayerHands[i], true
		}
	}
	return nil, false
}

// Hand returns the hand with the given index, if present in this snapshot.
func (s *RoundSnapshot) Hand(index int) (*HandSnapshot, bool) {
	for i := range s.PlayerHands {
		if s.PlayerHands[i].HandIndex == index {
			return &s.PlayerHands[i], true
		}
	}
	return nil, false
}

// TotalWagered sums the committed bets across all hands.
func (s *RoundSnapshot) TotalWagered() int {
	total := 0
	for i := range s.PlayerHands {
		total += s.PlayerHands[i].TotalWagered()
	}
	return total
}

// NetDelta is the round's chip movement as reported by the dealer: winnings
// returned minus amounts wagered. Meaningful once the round is over.
func (s *RoundSnapshot) NetDelta() int {
	delta := 0
	for i := range s.PlayerHands {
		delta += s.PlayerHands[i].Winnings
	}
	return delta - s.TotalWagered()
}

// Outcome classifies a finished round by its net chip delta.
type Outcome int

const (
	OutcomePush Outcome = iota
	OutcomeWin
	OutcomeLose
)

// String returns the storage/display name of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLose:
		return "lose"
	default:
		return "push"
	}
}

// RoundOutcome classifies this snapshot's net delta.
func (s *RoundSnapshot) RoundOutcome() Outcome {
	switch delta := s.NetDelta(); {
	case delta > 0:
		return OutcomeWin
	case delta < 0:
		return OutcomeLose
	default:
		return OutcomePush
	}
}
