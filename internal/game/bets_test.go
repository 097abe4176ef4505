package game

import (
	"errors"
	"testing"
)

func TestNormalizeBets(t *testing.T) {
	tests := []struct {
		name string
		bets []BetTriple
		want []BetTriple
	}{
		{
			name: "Side bets without main bet are zeroed",
			bets: []BetTriple{{MainBet: 0, Side213: 500, SidePP: 300}},
			want: []BetTriple{{MainBet: 0, Side213: 0, SidePP: 0}},
		},
		{
			name: "Side bets with main bet survive",
			bets: []BetTriple{{MainBet: 100, Side213: 500, SidePP: 300}},
			want: []BetTriple{{MainBet: 100, Side213: 500, SidePP: 300}},
		},
		{
			name: "Hands are normalized independently",
			bets: []BetTriple{
				{MainBet: 100, Side213: 50},
				{MainBet: 0, SidePP: 25},
				{MainBet: 200},
			},
			want: []BetTriple{
				{MainBet: 100, Side213: 50},
				{},
				{MainBet: 200},
			},
		},
		{
			name: "Empty input",
			bets: []BetTriple{},
			want: []BetTriple{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBets(tt.bets)
			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeBets() returned %d hands, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("hand %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalizeBetsDoesNotMutateInput(t *testing.T) {
	bets := []BetTriple{{MainBet: 0, Side213: 500}}
	NormalizeBets(bets)
	if bets[0].Side213 != 500 {
		t.Errorf("input mutated: Side213 = %d, want 500", bets[0].Side213)
	}
}

func TestApplyChip(t *testing.T) {
	tests := []struct {
		name    string
		bets    []BetTriple
		hand    int
		zone    Zone
		denom   int
		chips   int
		want    []BetTriple
		wantErr bool
	}{
		{
			name:  "Chip lands on empty main zone",
			bets:  []BetTriple{{}},
			hand:  0,
			zone:  ZoneMain,
			denom: 100,
			chips: 1000,
			want:  []BetTriple{{MainBet: 100}},
		},
		{
			name:  "Chip stacks on existing amount",
			bets:  []BetTriple{{MainBet: 100}},
			hand:  0,
			zone:  ZoneMain,
			denom: 25,
			chips: 1000,
			want:  []BetTriple{{MainBet: 125}},
		},
		{
			name:  "Chip on side zone of second hand",
			bets:  []BetTriple{{MainBet: 100}, {MainBet: 50}},
			hand:  1,
			zone:  Zone213,
			denom: 25,
			chips: 1000,
			want:  []BetTriple{{MainBet: 100}, {MainBet: 50, Side213: 25}},
		},
		{
			name:    "Balance guard rejects chip exceeding chips",
			bets:    []BetTriple{{MainBet: 500}, {MainBet: 300}},
			hand:    0,
			zone:    Zone213,
			denom:   500,
			chips:   1000,
			wantErr: true,
		},
		{
			name:  "Chip exactly reaching the balance is allowed",
			bets:  []BetTriple{{MainBet: 500}},
			hand:  0,
			zone:  ZonePerfectPair,
			denom: 500,
			chips: 1000,
			want:  []BetTriple{{MainBet: 500, SidePP: 500}},
		},
		{
			name:    "Unknown hand rejected",
			bets:    []BetTriple{{}},
			hand:    3,
			zone:    ZoneMain,
			denom:   100,
			chips:   1000,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := make([]BetTriple, len(tt.bets))
			copy(before, tt.bets)

			got, err := ApplyChip(tt.bets, tt.hand, tt.zone, tt.denom, tt.chips)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				// Rejection must leave the bets untouched.
				for i := range got {
					if got[i] != before[i] {
						t.Errorf("rejected ApplyChip mutated hand %d: %+v", i, got[i])
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyChip() error: %v", err)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("hand %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestApplyChipBalanceGuardError(t *testing.T) {
	_, err := ApplyChip([]BetTriple{{MainBet: 800}}, 0, ZoneMain, 500, 1000)
	var insufficient *ErrInsufficientChips
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %v, want *ErrInsufficientChips", err)
	}
	if insufficient.Balance != 1000 || insufficient.Chip != 500 {
		t.Errorf("error fields = %+v", insufficient)
	}
}

func TestTotalCommitted(t *testing.T) {
	bets := []BetTriple{
		{MainBet: 100, Side213: 25, SidePP: 10},
		{MainBet: 200},
	}
	if got := TotalCommitted(bets); got != 335 {
		t.Errorf("TotalCommitted() = %d, want 335", got)
	}
}

func TestHasMainBet(t *testing.T) {
	if HasMainBet([]BetTriple{{Side213: 100}, {SidePP: 50}}) {
		t.Error("HasMainBet() = true for side bets only")
	}
	if !HasMainBet([]BetTriple{{}, {MainBet: 5}}) {
		t.Error("HasMainBet() = false with a main bet present")
	}
}
