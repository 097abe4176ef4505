package gui

import (
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/openfelt/blackjack-table/internal/game"
)

const (
	cardWidth  = 88
	cardHeight = 128

	dealDuration = 220 * time.Millisecond
)

// Offset from a card's slot back toward the draw pile, the shared origin
// every dealt card flies in from.
const (
	deckOffsetX float32 = -160
	deckOffsetY float32 = -90
)

// newCardImage creates a card slot and starts loading its art. The image
// shows empty until the fetch lands; the slot keeps its size either way.
func (v *TableView) newCardImage(card game.Card) *canvas.Image {
	img := canvas.NewImageFromResource(nil)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(cardWidth, cardHeight))
	v.loadCardArt(img, card)
	return img
}

// loadCardArt fetches the card's art off the UI thread and swaps it in.
// Used both for freshly dealt cards and for in-place patches such as the
// dealer hole-card reveal.
func (v *TableView) loadCardArt(img *canvas.Image, card game.Card) {
	go func() {
		res, err := v.app.images.Resource(card.Filename)
		if err != nil {
			log.Printf("[Table] Card art %s: %v", card.Filename, err)
			return
		}
		fyne.Do(func() {
			img.Resource = res
			img.Refresh()
		})
	}()
}

// animateDeal flies a newly dealt card in from the draw-pile anchor,
// staggered by its position in the dealt suffix. The timers are
// fire-and-forget: if a newer reconciliation removes the card's container
// mid-flight, the animation finishes against a detached object, which is
// harmless.
func (v *TableView) animateDeal(img *canvas.Image, staggerIndex int) {
	if !v.app.cfg.Table.Animations {
		return
	}
	stagger := 180 * time.Millisecond
	if s, err := v.app.cfg.GetDealStagger(); err == nil {
		stagger = s
	}

	img.Translucency = 1
	time.AfterFunc(stagger*time.Duration(staggerIndex), func() {
		fyne.Do(func() {
			slot := img.Position()
			from := slot.AddXY(deckOffsetX, deckOffsetY)
			anim := fyne.NewAnimation(dealDuration, func(done float32) {
				img.Translucency = float64(1 - done)
				img.Move(fyne.NewPos(
					from.X+(slot.X-from.X)*done,
					from.Y+(slot.Y-from.Y)*done,
				))
				canvas.Refresh(img)
			})
			anim.Curve = fyne.AnimationEaseOut
			anim.Start()
		})
	})
}
