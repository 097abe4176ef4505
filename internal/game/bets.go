package game

import "fmt"

// Zone identifies one of the three betting regions on a hand.
type Zone int

const (
	ZoneMain Zone = iota
	Zone213
	ZonePerfectPair
)

// String returns the display name of the zone.
func (z Zone) String() string {
	switch z {
	case Zone213:
		return "21+3"
	case ZonePerfectPair:
		return "perfect pair"
	default:
		return "main"
	}
}

// BetTriple is the wager for a single hand, in the positional wire shape the
// dealer's place_bets endpoint expects.
type BetTriple struct {
	MainBet int `json:"main_bet"`
	Side213 int `json:"side_21_3"`
	SidePP  int `json:"side_pp"`
}

// Total returns the combined wager of the triple.
func (b BetTriple) Total() int {
	return b.MainBet + b.Side213 + b.SidePP
}

// Zone returns the amount staked on the given zone.
func (b BetTriple) Zone(z Zone) int {
	switch z {
	case Zone213:
		return b.Side213
	case ZonePerfectPair:
		return b.SidePP
	default:
		return b.MainBet
	}
}

// SetZone returns a copy of the triple with the given zone replaced.
func (b BetTriple) SetZone(z Zone, amount int) BetTriple {
	switch z {
	case Zone213:
		b.Side213 = amount
	case ZonePerfectPair:
		b.SidePP = amount
	default:
		b.MainBet = amount
	}
	return b
}

// TotalCommitted sums every zone of every hand.
func TotalCommitted(bets []BetTriple) int {
	total := 0
	for _, b := range bets {
		total += b.Total()
	}
	return total
}

// HasMainBet reports whether at least one hand carries a main wager.
func HasMainBet(bets []BetTriple) bool {
	for _, b := range bets {
		if b.MainBet > 0 {
			return true
		}
	}
	return false
}

// NormalizeBets zeroes the side bets of any hand without a main wager. Side
// bets are invalid without a main bet; this mirrors the dealer's own rule so
// a rejected request is never sent in the first place.
func NormalizeBets(bets []BetTriple) []BetTriple {
	normalized := make([]BetTriple, len(bets))
	for i, b := range bets {
		if b.MainBet == 0 {
			b.Side213 = 0
			b.SidePP = 0
		}
		normalized[i] = b
	}
	return normalized
}

// ErrInsufficientChips is returned by ApplyChip when the candidate total
// across all zones would exceed the player's balance.
type ErrInsufficientChips struct {
	Balance   int
	Committed int
	Chip      int
}

func (e *ErrInsufficientChips) Error() string {
	return fmt.Sprintf("not enough chips: balance %d, bets already total %d, cannot add %d", e.Balance, e.Committed, e.Chip)
}

// ApplyChip adds a chip denomination to one zone of one hand, guarded by the
// player's balance: the total committed across all zones of all hands, with
// the candidate value substituted for the zone being edited, must not exceed
// chips. On rejection the input bets are returned unchanged.
func ApplyChip(bets []BetTriple, hand int, zone Zone, denom, chips int) ([]BetTriple, error) {
	if hand < 0 || hand >= len(bets) {
		return bets, fmt.Errorf("no betting zone for hand %d", hand)
	}
	if denom <= 0 {
		return bets, fmt.Errorf("invalid chip denomination %d", denom)
	}

	candidate := bets[hand].SetZone(zone, bets[hand].Zone(zone)+denom)
	total := 0
	for i, b := range bets {
		if i == hand {
			total += candidate.Total()
			continue
		}
		total += b.Total()
	}
	if total > chips {
		return bets, &ErrInsufficientChips{Balance: chips, Committed: TotalCommitted(bets), Chip: denom}
	}

	updated := make([]BetTriple, len(bets))
	copy(updated, bets)
	updated[hand] = candidate
	return updated, nil
}
