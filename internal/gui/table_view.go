package gui

import (
	"context"
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/openfelt/blackjack-table/internal/dealer"
	"github.com/openfelt/blackjack-table/internal/game"
	"github.com/openfelt/blackjack-table/internal/reconcile"
)

// TableView owns the live table: dealer row, lazily materialized hand
// containers, action buttons, chip rail and the bonus control. All mutation
// happens on the UI thread inside Render, which applies one reconcile plan
// per authoritative snapshot.
type TableView struct {
	app *App

	state reconcile.State

	dealerRow       *fyne.Container
	dealerFilenames []string
	dealerTotal     *widget.Label

	hands    map[int]*handElements
	handsRow *fyne.Container

	chipsLabel    *widget.Label
	totalBetLabel *widget.Label
	messageLabel  *widget.Label

	dealBtn    *widget.Button
	hitBtn     *widget.Button
	standBtn   *widget.Button
	doubleBtn  *widget.Button
	splitBtn   *widget.Button
	clearBtn   *widget.Button
	rebetBtn   *widget.Button
	collectBtn *widget.Button
	bonusLabel *widget.Label

	// Active betting zone for chip-rail clicks: whichever input last gained
	// focus.
	activeHand int
	activeZone game.Zone
	hasActive  bool

	countdownCancel context.CancelFunc

	content fyne.CanvasObject
}

// NewTableView builds an empty table.
func NewTableView(a *App) *TableView {
	v := &TableView{
		app:   a,
		state: reconcile.NewState(),
		hands: make(map[int]*handElements),
	}

	v.dealerRow = container.NewHBox()
	v.dealerTotal = widget.NewLabel("Dealer: 0")
	v.handsRow = container.NewHBox()

	v.chipsLabel = widget.NewLabelWithStyle("Balance: $0", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.totalBetLabel = widget.NewLabel("Total Bet: $0")
	v.messageLabel = widget.NewLabelWithStyle("Connecting to the dealer...", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	v.dealBtn = widget.NewButton("Deal", v.onDeal)
	v.hitBtn = widget.NewButton("Hit", func() { v.onPlayerAction(dealer.ActionHit, v.hitBtn) })
	v.standBtn = widget.NewButton("Stand", func() { v.onPlayerAction(dealer.ActionStand, v.standBtn) })
	v.doubleBtn = widget.NewButton("Double", func() { v.onPlayerAction(dealer.ActionDouble, v.doubleBtn) })
	v.splitBtn = widget.NewButton("Split", func() { v.onPlayerAction(dealer.ActionSplit, v.splitBtn) })
	v.clearBtn = widget.NewButton("Clear Bets", v.onClearBets)
	v.rebetBtn = widget.NewButton("Re-Bet", v.onRebet)
	v.collectBtn = widget.NewButton("Collect Bonus", v.onCollectBonus)
	v.bonusLabel = widget.NewLabel("")
	v.disableAll()

	actionBar := container.NewHBox(
		v.dealBtn, v.hitBtn, v.standBtn, v.doubleBtn, v.splitBtn,
		widget.NewSeparator(),
		v.clearBtn, v.rebetBtn,
		widget.NewSeparator(),
		v.collectBtn, v.bonusLabel,
	)

	top := container.NewVBox(
		container.NewBorder(nil, nil, v.chipsLabel, v.totalBetLabel, v.messageLabel),
		widget.NewSeparator(),
		container.NewHBox(widget.NewLabel("Dealer"), v.dealerTotal),
		v.dealerRow,
		widget.NewSeparator(),
	)

	v.content = container.NewBorder(
		top,
		container.NewVBox(widget.NewSeparator(), v.chipRail(), actionBar),
		nil, nil,
		container.NewScroll(v.handsRow),
	)
	return v
}

// Content returns the table's root canvas object.
func (v *TableView) Content() fyne.CanvasObject {
	return v.content
}

// ShowMessage sets the table message line.
func (v *TableView) ShowMessage(message string) {
	v.messageLabel.SetText(message)
}

// Render reconciles the widgets against an authoritative snapshot. Must run
// on the UI thread. Rendering the same snapshot twice is a visual no-op.
func (v *TableView) Render(snap *game.RoundSnapshot) {
	plan, next := reconcile.Build(snap, v.state)
	v.state = next
	v.apply(plan, snap)
}

func (v *TableView) apply(plan reconcile.Plan, snap *game.RoundSnapshot) {
	v.dealerFilenames = v.applyCards(v.dealerRow, v.dealerFilenames, plan.Dealer)
	v.dealerTotal.SetText(fmt.Sprintf("Dealer: %d", plan.DealerTotal))

	for _, hp := range plan.Hands {
		v.handFor(hp.Index).apply(hp)
	}
	for _, index := range plan.HideHands {
		if h, ok := v.hands[index]; ok {
			h.hide()
		}
	}

	v.chipsLabel.SetText(fmt.Sprintf("Balance: $%d", plan.Chips))
	v.totalBetLabel.SetText(fmt.Sprintf("Total Bet: $%d", plan.TotalBet))
	v.messageLabel.SetText(plan.Message)

	v.applyButtons(plan.Buttons)
	v.applyCountdown(plan)
	v.playCue(plan.Cue)

	if plan.Cue != reconcile.CueNone && v.app.history != nil {
		go v.recordRound(snap)
	}
}

func (v *TableView) applyButtons(b reconcile.Buttons) {
	setEnabled(v.dealBtn, b.Deal)
	setEnabled(v.hitBtn, b.Hit)
	setEnabled(v.standBtn, b.Stand)
	setEnabled(v.doubleBtn, b.Double)
	setEnabled(v.splitBtn, b.Split)
	setEnabled(v.clearBtn, b.ClearBets)
	setEnabled(v.rebetBtn, b.Rebet)
	setEnabled(v.collectBtn, b.CollectBonus)
}

func (v *TableView) disableAll() {
	v.applyButtons(reconcile.Buttons{})
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (v *TableView) playCue(cue reconcile.Cue) {
	switch cue {
	case reconcile.CueWin:
		v.app.sound.Win()
	case reconcile.CueLose:
		v.app.sound.Lose()
	case reconcile.CuePush:
		v.app.sound.Push()
	}
}

func (v *TableView) recordRound(snap *game.RoundSnapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := v.app.history.RecordSnapshot(ctx, snap); err != nil {
		log.Printf("[Table] Record round: %v", err)
	}
}

// handFor is the single creation path for hand containers: created once per
// index on first sight, looked up and reshown thereafter.
func (v *TableView) handFor(index int) *handElements {
	if h, ok := v.hands[index]; ok {
		h.box.Show()
		return h
	}
	h := newHandElements(v, index)
	v.hands[index] = h
	v.handsRow.Add(h.box)
	return h
}

// chipRail builds the row of chip buttons. A click adds the denomination to
// whichever bet input last gained focus, guarded by the balance.
func (v *TableView) chipRail() fyne.CanvasObject {
	rail := container.NewHBox(widget.NewLabel("Chips:"))
	for _, denom := range v.app.cfg.Table.ChipDenominations {
		denom := denom
		rail.Add(widget.NewButton(fmt.Sprintf("$%d", denom), func() {
			v.onChip(denom)
		}))
	}
	return rail
}

func (v *TableView) onChip(denom int) {
	snap := v.app.sync.Current()
	if snap == nil || snap.GamePhase != game.PhaseBetting {
		return
	}
	if !v.hasActive {
		v.messageLabel.SetText("Select a betting zone first.")
		v.app.sound.Reject()
		return
	}

	order, bets := v.collectBets()
	slot, ok := order[v.activeHand]
	if !ok {
		return
	}
	updated, err := game.ApplyChip(bets, slot, v.activeZone, denom, snap.PlayerChips)
	if err != nil {
		v.messageLabel.SetText(dealer.UserMessage(&dealer.ValidationError{Message: friendlyChipError(err)}))
		v.app.sound.Reject()
		return
	}

	if h, ok := v.hands[v.activeHand]; ok {
		h.setZoneValue(v.activeZone, updated[slot].Zone(v.activeZone))
	}
	v.totalBetLabel.SetText(fmt.Sprintf("Total Bet: $%d", game.TotalCommitted(updated)))
	v.app.sound.Chip()
}

func friendlyChipError(err error) string {
	if _, ok := err.(*game.ErrInsufficientChips); ok {
		return "Not enough chips for that bet."
	}
	return err.Error()
}

// collectBets reads every visible hand's inputs, positionally ordered by
// hand index as the place_bets wire format requires. The returned map gives
// each hand index its slot in the slice.
func (v *TableView) collectBets() (map[int]int, []game.BetTriple) {
	snap := v.app.sync.Current()
	order := make(map[int]int)
	var bets []game.BetTriple
	if snap == nil {
		return order, bets
	}
	for i := range snap.PlayerHands {
		index := snap.PlayerHands[i].HandIndex
		order[index] = len(bets)
		if h, ok := v.hands[index]; ok {
			bets = append(bets, h.betTriple())
		} else {
			bets = append(bets, game.BetTriple{})
		}
	}
	return order, bets
}

func (v *TableView) onDeal() {
	_, bets := v.collectBets()
	v.dispatch(v.dealBtn, nil, func(ctx context.Context) error {
		return v.app.sync.PlaceBets(ctx, bets)
	})
}

func (v *TableView) onPlayerAction(action string, btn *widget.Button) {
	snap := v.app.sync.Current()
	if snap == nil {
		return
	}
	index := snap.CurrentActiveHandIndex
	v.dispatch(btn, nil, func(ctx context.Context) error {
		return v.app.sync.PlayerAction(ctx, action, index)
	})
}

// onClearBets is local-only: no dealer request, just zeroed inputs.
func (v *TableView) onClearBets() {
	for _, h := range v.hands {
		h.clearInputs()
	}
	v.totalBetLabel.SetText("Total Bet: $0")
	v.messageLabel.SetText("Bets cleared.")
}

func (v *TableView) onRebet() {
	v.dispatch(v.rebetBtn, func() {
		v.populateBets(v.app.sync.LastBets())
	}, func(ctx context.Context) error {
		return v.app.sync.Rebet(ctx)
	})
}

func (v *TableView) onCollectBonus() {
	// Collection is irreversible: the control goes dark the instant it is
	// clicked and only a render or an error brings it back.
	v.dispatch(v.collectBtn, nil, func(ctx context.Context) error {
		return v.app.sync.CollectBonus(ctx)
	})
}

// populateBets fills the inputs from a positional bet list (the rebet
// response's last_bets).
func (v *TableView) populateBets(bets []game.BetTriple) {
	snap := v.app.sync.Current()
	if snap == nil {
		return
	}
	for i := range snap.PlayerHands {
		if i >= len(bets) {
			break
		}
		if h, ok := v.hands[snap.PlayerHands[i].HandIndex]; ok {
			h.setBetTriple(bets[i])
		}
	}
}

// dispatch runs one state-mutating call off the UI thread. The triggering
// control is disabled immediately; a successful response re-enables controls
// through the render pass, and a failure restores them by re-rendering the
// last-known-good snapshot (idempotent, so nothing replays).
func (v *TableView) dispatch(trigger *widget.Button, onSuccess func(), call func(context.Context) error) {
	if trigger != nil {
		trigger.Disable()
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), v.app.timeout)
		defer cancel()
		err := call(ctx)
		fyne.Do(func() {
			if err != nil {
				v.messageLabel.SetText(dealer.UserMessage(err))
				if snap := v.app.sync.Current(); snap != nil {
					v.Render(snap)
				}
				return
			}
			if onSuccess != nil {
				onSuccess()
			}
		})
	}()
}

// applyCards reconciles one card row against its ops and returns the row's
// new filename bookkeeping. Reset redraws from empty without dealing
// animation; appended cards fly in staggered; an existing position whose
// filename changed gets its art swapped in place without re-animating.
func (v *TableView) applyCards(row *fyne.Container, shown []string, ops reconcile.CardOps) []string {
	if ops.Reset {
		row.RemoveAll()
		shown = shown[:0]
		for _, card := range ops.Cards {
			img := v.newCardImage(card)
			row.Add(img)
			shown = append(shown, card.Filename)
		}
		row.Refresh()
		return shown
	}

	// Patch the stable prefix in place.
	for i := 0; i < ops.DealFrom && i < len(shown) && i < len(ops.Cards); i++ {
		if shown[i] == ops.Cards[i].Filename {
			continue
		}
		shown[i] = ops.Cards[i].Filename
		if img, ok := row.Objects[i].(*canvas.Image); ok {
			v.loadCardArt(img, ops.Cards[i])
		}
	}

	// Deal the appended suffix.
	for i, card := range ops.Dealt() {
		img := v.newCardImage(card)
		row.Add(img)
		shown = append(shown, card.Filename)
		v.animateDeal(img, i)
	}
	if len(ops.Dealt()) > 0 {
		row.Refresh()
	}
	return shown
}
