package dealertest

import (
	"time"

	"github.com/openfelt/blackjack-table/internal/dealer"
	"github.com/openfelt/blackjack-table/internal/game"
)

// Card builders for scripts. HoleCard is the face-down dealer card; scripts
// reveal it by re-sending the same position with the real filename.
func Card(rank, suit, filename string) game.Card {
	return game.Card{Rank: rank, Suit: suit, Filename: filename}
}

// HoleCard returns the face-down dealer card.
func HoleCard() game.Card {
	return game.Card{Rank: "?", Suit: "?", Filename: "card_back.png"}
}

// OK wraps a snapshot in a successful envelope.
func OK(snap *game.RoundSnapshot) dealer.Envelope {
	return dealer.Envelope{Success: true, GameState: snap}
}

// Rejected wraps a message (and optional partial snapshot) in a failed
// envelope.
func Rejected(message string, snap *game.RoundSnapshot) dealer.Envelope {
	return dealer.Envelope{Success: false, Message: message, GameState: snap}
}

// BettingSnapshot returns a fresh betting-phase table with one empty hand.
func BettingSnapshot(chips int) *game.RoundSnapshot {
	return &game.RoundSnapshot{
		GamePhase:              game.PhaseBetting,
		PlayerHands:            []game.HandSnapshot{{HandIndex: 0}},
		PlayerChips:            chips,
		CurrentActiveHandIndex: game.NoActiveHand,
		GameMessage:            "Place your bets.",
	}
}

// LoadPracticeScript queues a small self-contained session: one round that
// is dealt, hit once, stood, and lost to the dealer, followed by a rebet
// round won with a blackjack, plus a collectable bonus. All card sequences
// and totals are authored here, not computed.
func LoadPracticeScript(d *Dealer) {
	nextBonus := time.Now().Add(90 * time.Second).UTC()

	d.Queue(StartRound, OK(BettingSnapshot(5000)))

	dealt := &game.RoundSnapshot{
		GamePhase:   game.PhasePlayerTurns,
		DealerHand:  []game.Card{Card("K", "♠", "king_of_spades.png"), HoleCard()},
		DealerTotal: 10,
		PlayerHands: []game.HandSnapshot{{
			HandIndex: 0,
			Cards: []game.Card{
				Card("9", "♥", "9_of_hearts.png"),
				Card("5", "♣", "5_of_clubs.png"),
			},
			Total:     14,
			MainBet:   500,
			CanDouble: true,
			IsActive:  true,
		}},
		PlayerChips:            4500,
		CurrentActiveHandIndex: 0,
		GameMessage:            "Your move.",
		NextBonusTime:          &nextBonus,
		BonusCooldownMessage:   "Next bonus in",
	}
	d.Queue(PlaceBets, OK(dealt))

	hit := &game.RoundSnapshot{
		GamePhase:   game.PhasePlayerTurns,
		DealerHand:  dealt.DealerHand,
		DealerTotal: 10,
		PlayerHands: []game.HandSnapshot{{
			HandIndex: 0,
			Cards: append(append([]game.Card{}, dealt.PlayerHands[0].Cards...),
				Card("4", "♦", "4_of_diamonds.png")),
			Total:    18,
			MainBet:  500,
			IsActive: true,
		}},
		PlayerChips:            4500,
		CurrentActiveHandIndex: 0,
		GameMessage:            "Your move.",
	}

	lost := &game.RoundSnapshot{
		GamePhase: game.PhaseRoundOver,
		DealerHand: []game.Card{
			Card("K", "♠", "king_of_spades.png"),
			Card("9", "♦", "9_of_diamonds.png"),
		},
		DealerTotal: 19,
		PlayerHands: []game.HandSnapshot{{
			HandIndex:     0,
			Cards:         hit.PlayerHands[0].Cards,
			Total:         18,
			ResultMessage: "Dealer wins 19 to 18.",
			MainBet:       500,
		}},
		PlayerChips:            4500,
		CurrentActiveHandIndex: game.NoActiveHand,
		GameMessage:            "Round over.",
	}
	d.Queue(PlayerAction, OK(hit), OK(lost))

	rebetDeal := &game.RoundSnapshot{
		GamePhase:   game.PhaseRoundOver,
		DealerHand:  []game.Card{Card("7", "♣", "7_of_clubs.png"), Card("10", "♥", "10_of_hearts.png")},
		DealerTotal: 17,
		PlayerHands: []game.HandSnapshot{{
			HandIndex: 0,
			Cards: []game.Card{
				Card("A", "♠", "ace_of_spades.png"),
				Card("J", "♦", "jack_of_diamonds.png"),
			},
			Total:         21,
			ResultMessage: "Blackjack! Pays 3:2.",
			MainBet:       500,
			Winnings:      1250,
		}},
		PlayerChips:            5250,
		CurrentActiveHandIndex: game.NoActiveHand,
		GameMessage:            "Blackjack!",
	}
	d.Queue(Rebet, dealer.Envelope{
		Success:   true,
		GameState: rebetDeal,
		LastBets:  []game.BetTriple{{MainBet: 500}},
	})

	collected := BettingSnapshot(6250)
	collected.GameMessage = "Bonus collected."
	d.Queue(CollectBonus, OK(collected))
}
