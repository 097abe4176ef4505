package gui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/openfelt/blackjack-table/internal/game"
	"github.com/openfelt/blackjack-table/internal/reconcile"
)

// betEntry is a numeric bet input that reports focus, so chip-rail clicks
// know which zone they feed.
type betEntry struct {
	widget.Entry
	onFocus func()
}

func newBetEntry(onFocus func()) *betEntry {
	e := &betEntry{onFocus: onFocus}
	e.ExtendBaseWidget(e)
	e.SetText("0")
	return e
}

func (e *betEntry) FocusGained() {
	e.Entry.FocusGained()
	if e.onFocus != nil {
		e.onFocus()
	}
}

func (e *betEntry) amount() int {
	value, err := strconv.Atoi(e.Text)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// betZone is one of the three wager regions of a hand: a numeric input shown
// during betting and a committed-amount display shown otherwise.
type betZone struct {
	zone      game.Zone
	entry     *betEntry
	committed *widget.Label
	row       fyne.CanvasObject
}

func newBetZone(v *TableView, handIndex int, zone game.Zone, label string) *betZone {
	z := &betZone{zone: zone}
	z.entry = newBetEntry(func() {
		v.activeHand = handIndex
		v.activeZone = zone
		v.hasActive = true
	})
	z.committed = widget.NewLabel("$0")
	z.committed.Hide()
	z.row = container.NewBorder(nil, nil, widget.NewLabel(label), nil,
		container.NewStack(z.entry, z.committed))
	return z
}

func (z *betZone) showInputs(show bool) {
	if show {
		z.committed.Hide()
		z.entry.Show()
	} else {
		z.entry.Hide()
		z.committed.Show()
	}
}

// handElements is the lazily materialized visual container for one hand
// index. Created once, reused for the lifetime of the window; absent indexes
// are hidden, never destroyed, so reappearing indexes land back in the same
// container.
type handElements struct {
	view  *TableView
	index int

	box         *fyne.Container
	cardsRow    *fyne.Container
	filenames   []string
	totalLabel  *widget.Label
	resultLabel *widget.Label
	activeLabel *widget.Label

	zones [3]*betZone
}

func newHandElements(v *TableView, index int) *handElements {
	h := &handElements{view: v, index: index}

	h.cardsRow = container.NewHBox()
	h.totalLabel = widget.NewLabel("Total: 0")
	h.resultLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	h.activeLabel = widget.NewLabelWithStyle("▶ Your turn", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	h.activeLabel.Hide()

	h.zones = [3]*betZone{
		newBetZone(v, index, game.ZoneMain, "Main"),
		newBetZone(v, index, game.Zone213, "21+3"),
		newBetZone(v, index, game.ZonePerfectPair, "Pair"),
	}

	h.box = container.NewVBox(
		widget.NewLabelWithStyle(fmt.Sprintf("Hand %d", index+1), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		h.activeLabel,
		h.cardsRow,
		h.totalLabel,
		h.resultLabel,
		widget.NewSeparator(),
		h.zones[0].row,
		h.zones[1].row,
		h.zones[2].row,
	)
	return h
}

// apply projects one hand plan onto the widgets.
func (h *handElements) apply(hp reconcile.HandPlan) {
	h.filenames = h.view.applyCards(h.cardsRow, h.filenames, hp.Cards)
	h.totalLabel.SetText(fmt.Sprintf("Total: %d", hp.Total))
	h.resultLabel.SetText(hp.Result)

	if hp.Active {
		h.activeLabel.Show()
	} else {
		h.activeLabel.Hide()
	}

	amounts := [3]int{hp.MainBet, hp.Side213, hp.SidePP}
	for i, z := range h.zones {
		z.showInputs(hp.ShowInputs)
		z.committed.SetText(fmt.Sprintf("$%d", amounts[i]))
		if hp.ShowInputs {
			z.entry.Enable()
		} else {
			z.entry.Disable()
		}
	}
}

// hide conceals the container and forgets its rendered cards. The planner
// drops hidden indexes from its card-count state, so a returning index is
// planned from zero; the row must match, or the fresh deal would append to
// a stale round's cards.
func (h *handElements) hide() {
	h.box.Hide()
	h.cardsRow.RemoveAll()
	h.filenames = nil
}

func (h *handElements) betTriple() game.BetTriple {
	return game.BetTriple{
		MainBet: h.zones[0].entry.amount(),
		Side213: h.zones[1].entry.amount(),
		SidePP:  h.zones[2].entry.amount(),
	}
}

func (h *handElements) setBetTriple(b game.BetTriple) {
	h.zones[0].entry.SetText(strconv.Itoa(b.MainBet))
	h.zones[1].entry.SetText(strconv.Itoa(b.Side213))
	h.zones[2].entry.SetText(strconv.Itoa(b.SidePP))
}

func (h *handElements) setZoneValue(zone game.Zone, amount int) {
	for _, z := range h.zones {
		if z.zone == zone {
			z.entry.SetText(strconv.Itoa(amount))
			return
		}
	}
}

func (h *handElements) clearInputs() {
	h.setBetTriple(game.BetTriple{})
}
