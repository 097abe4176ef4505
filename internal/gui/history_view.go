package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// createHistoryView creates the recent-rounds view.
func (a *App) createHistoryView() fyne.CanvasObject {
	if a.history == nil {
		return widget.NewLabel("Round history is disabled.")
	}

	label := widget.NewLabel("")
	label.Wrapping = fyne.TextWrapWord
	label.TextStyle = fyne.TextStyle{Monospace: true}

	refresh := func() {
		label.SetText(a.historyText())
	}
	refresh()

	refreshBtn := widget.NewButton("Refresh", refresh)
	return container.NewBorder(nil, refreshBtn, nil, nil, container.NewScroll(label))
}

func (a *App) historyText() string {
	ctx := context.Background()

	rounds, err := a.history.RecentRounds(ctx, 20)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if len(rounds) == 0 {
		return "No rounds recorded yet."
	}

	sessionNet, err := a.history.SessionNet(ctx)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	content := "Recent Rounds\n"
	content += "=============\n\n"
	for _, rec := range rounds {
		marker := "="
		switch rec.Outcome {
		case "win":
			marker = "W"
		case "lose":
			marker = "L"
		}
		content += fmt.Sprintf("%s | %s | %d hand(s) | wagered $%d | net %+d | balance $%d\n",
			marker,
			rec.PlayedAt.Local().Format("2006-01-02 15:04"),
			rec.HandsPlayed,
			rec.TotalWagered,
			rec.NetDelta,
			rec.EndChips,
		)
	}
	content += fmt.Sprintf("\nThis session: %+d chips\n", sessionNet)
	return content
}
