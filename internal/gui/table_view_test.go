package gui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/openfelt/blackjack-table/internal/cards"
	"github.com/openfelt/blackjack-table/internal/config"
	"github.com/openfelt/blackjack-table/internal/game"
	"github.com/openfelt/blackjack-table/internal/reconcile"
)

// newTestTable builds a table view against a stub app: no dealer, no sound,
// no history, animations off. Good enough to drive Render directly.
func newTestTable(t *testing.T) *TableView {
	t.Helper()
	test.NewApp()

	cfg := config.DefaultConfig()
	cfg.Table.Animations = false
	a := &App{
		cfg:     cfg,
		images:  cards.NewImageCache("http://127.0.0.1:1"),
		timeout: time.Second,
	}
	return NewTableView(a)
}

func cardRow(filenames ...string) []game.Card {
	row := make([]game.Card, len(filenames))
	for i, f := range filenames {
		row[i] = game.Card{Rank: "?", Suit: "?", Filename: f}
	}
	return row
}

// A hand index that was hidden by a round reset must come back showing only
// the new round's cards.
func TestHiddenHandReturnsRepopulated(t *testing.T) {
	v := newTestTable(t)

	twoHands := &game.RoundSnapshot{
		GamePhase: game.PhasePlayerTurns,
		PlayerHands: []game.HandSnapshot{
			{HandIndex: 0, Cards: cardRow("a.png", "b.png")},
			{HandIndex: 1, Cards: cardRow("c.png", "d.png")},
		},
		CurrentActiveHandIndex: 0,
	}
	v.Render(twoHands)

	second, ok := v.hands[1]
	if !ok {
		t.Fatal("hand 1 was not materialized")
	}
	if got := len(second.cardsRow.Objects); got != 2 {
		t.Fatalf("hand 1 shows %d cards, want 2", got)
	}

	betting := &game.RoundSnapshot{
		GamePhase:              game.PhaseBetting,
		PlayerHands:            []game.HandSnapshot{{HandIndex: 0}},
		CurrentActiveHandIndex: game.NoActiveHand,
	}
	v.Render(betting)

	if second.box.Visible() {
		t.Error("hand 1 still visible after disappearing from the snapshot")
	}
	if got := len(second.cardsRow.Objects); got != 0 {
		t.Errorf("hidden hand 1 keeps %d card objects, want 0", got)
	}

	split := &game.RoundSnapshot{
		GamePhase: game.PhasePlayerTurns,
		PlayerHands: []game.HandSnapshot{
			{HandIndex: 0, Cards: cardRow("a.png", "g.png")},
			{HandIndex: 1, Cards: cardRow("b.png", "h.png")},
		},
		CurrentActiveHandIndex: 0,
	}
	v.Render(split)

	if !second.box.Visible() {
		t.Error("returning hand 1 not shown")
	}
	if got := len(second.cardsRow.Objects); got != 2 {
		t.Errorf("returning hand 1 shows %d cards, want 2", got)
	}
	want := []string{"b.png", "h.png"}
	if len(second.filenames) != len(want) {
		t.Fatalf("filenames = %v, want %v", second.filenames, want)
	}
	for i := range want {
		if second.filenames[i] != want[i] {
			t.Errorf("filenames[%d] = %q, want %q", i, second.filenames[i], want[i])
		}
	}
}

// Rendering the same snapshot twice must leave the card rows unchanged.
func TestRenderTwiceKeepsCardRows(t *testing.T) {
	v := newTestTable(t)

	snap := &game.RoundSnapshot{
		GamePhase:  game.PhasePlayerTurns,
		DealerHand: cardRow("k.png", "back.png"),
		PlayerHands: []game.HandSnapshot{
			{HandIndex: 0, Cards: cardRow("a.png", "b.png")},
		},
		CurrentActiveHandIndex: 0,
	}
	v.Render(snap)
	v.Render(snap)

	if got := len(v.dealerRow.Objects); got != 2 {
		t.Errorf("dealer row shows %d cards, want 2", got)
	}
	if got := len(v.hands[0].cardsRow.Objects); got != 2 {
		t.Errorf("hand 0 shows %d cards, want 2", got)
	}
}

// A countdown superseded by a newer reconciliation must not touch the collect
// control, even if its last tick was already queued.
func TestSupersededCountdownLeavesCollectAlone(t *testing.T) {
	v := newTestTable(t)

	past := time.Now().Add(-time.Second)
	v.applyCountdown(reconcile.Plan{Countdown: &past, BonusLabel: "Next bonus in"})

	// The next snapshot says the bonus is not collectable and has no
	// cooldown; whatever the old ticker does afterwards must not re-enable
	// the control.
	v.applyCountdown(reconcile.Plan{})
	v.collectBtn.Disable()

	time.Sleep(1300 * time.Millisecond)
	if !v.collectBtn.Disabled() {
		t.Error("superseded countdown re-enabled the collect control")
	}
}
