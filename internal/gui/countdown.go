package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"

	"github.com/openfelt/blackjack-table/internal/reconcile"
)

// applyCountdown drives the bonus cooldown label. Every reconciliation
// supersedes whatever countdown was running before; no timer state survives
// a render pass. When the countdown reaches zero the collect control is
// enabled on the spot, without waiting for the next snapshot.
func (v *TableView) applyCountdown(plan reconcile.Plan) {
	if v.countdownCancel != nil {
		v.countdownCancel()
		v.countdownCancel = nil
	}

	if plan.Countdown == nil {
		if plan.Buttons.CollectBonus {
			v.bonusLabel.SetText("Bonus ready!")
		} else {
			v.bonusLabel.SetText(plan.BonusLabel)
		}
		return
	}

	target := *plan.Countdown
	label := plan.BonusLabel
	if label == "" {
		label = "Next bonus in"
	}
	v.bonusLabel.SetText(formatCountdown(label, time.Until(target)))

	ctx, cancel := context.WithCancel(context.Background())
	v.countdownCancel = cancel
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				remaining := time.Until(target)
				fyne.Do(func() {
					// A newer reconciliation may have superseded this
					// countdown after the tick was queued.
					if ctx.Err() != nil {
						return
					}
					if remaining <= 0 {
						v.bonusLabel.SetText("Bonus ready!")
						v.collectBtn.Enable()
						return
					}
					v.bonusLabel.SetText(formatCountdown(label, remaining))
				})
				if remaining <= 0 {
					return
				}
			}
		}
	}()
}

func formatCountdown(label string, remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	remaining = remaining.Round(time.Second)
	minutes := int(remaining.Minutes())
	seconds := int(remaining.Seconds()) % 60
	return fmt.Sprintf("%s %d:%02d", label, minutes, seconds)
}
