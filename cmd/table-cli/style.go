package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/openfelt/blackjack-table/internal/game"
	"github.com/openfelt/blackjack-table/internal/reconcile"
)

func cardString(c game.Card) string {
	return c.Rank + c.Suit
}

func handString(cards []game.Card) string {
	if len(cards) == 0 {
		return "(no cards)"
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = cardString(c)
	}
	return strings.Join(parts, "  ")
}

func dealerPanel(snap *game.RoundSnapshot) pterm.Panel {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	body := pterm.Sprintfln("%s", handString(snap.DealerHand))
	body += pterm.Sprintfln("Total: %d", snap.DealerTotal)
	return pterm.Panel{Data: pbox.WithTitle(pterm.LightRed("|DEALER|")).WithTitleTopCenter().Sprint(body)}
}

func handTitle(index int, active bool) string {
	if active {
		return fmt.Sprintf("|HAND %d - YOUR TURN|", index+1)
	}
	return fmt.Sprintf("|HAND %d|", index+1)
}

func handPanel(h *game.HandSnapshot, active bool) pterm.Panel {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	title := handTitle(h.HandIndex, active)
	body := pterm.Sprintfln("%s", handString(h.Cards))
	body += pterm.Sprintfln("Total: %d", h.Total)
	body += pterm.Sprintfln("Bets: main %d / 21+3 %d / pair %d", h.MainBet, h.SideBet213, h.SideBetPerfectPair)
	if h.ResultMessage != "" {
		body += pterm.Sprintfln("%s", pterm.LightYellow(h.ResultMessage))
	}
	styledTitle := pterm.LightCyan(title)
	if active {
		styledTitle = pterm.LightGreen(title)
	}
	return pterm.Panel{Data: pbox.WithTitle(styledTitle).WithTitleTopCenter().Sprint(body)}
}

func printTable(snap *game.RoundSnapshot) {
	var handRow []pterm.Panel
	for i := range snap.PlayerHands {
		h := &snap.PlayerHands[i]
		handRow = append(handRow, handPanel(h, h.IsActive && snap.GamePhase == game.PhasePlayerTurns))
	}

	panels := pterm.Panels{
		{dealerPanel(snap)},
		handRow,
	}
	if err := pterm.DefaultPanel.WithPanels(panels).Render(); err != nil {
		pterm.Error.Printfln("render table: %v", err)
	}

	pterm.Info.Printfln("Balance: $%d | Total bet: $%d | Phase: %s", snap.PlayerChips, snap.TotalWagered(), snap.GamePhase)
	if snap.GameMessage != "" {
		pterm.Println(pterm.LightYellow(snap.GameMessage))
	}
	if snap.BonusCooldownMessage != "" && !snap.CanCollectBonus {
		pterm.Println(pterm.Gray(snap.BonusCooldownMessage))
	}
}

func cueText(cue reconcile.Cue, net int) string {
	switch cue {
	case reconcile.CueWin:
		return fmt.Sprintf("Round won (+%d chips)", net)
	case reconcile.CueLose:
		return fmt.Sprintf("Round lost (%d chips)", net)
	case reconcile.CuePush:
		return "Push: bets returned"
	default:
		return ""
	}
}

func printCue(cue reconcile.Cue, net int) {
	text := cueText(cue, net)
	switch cue {
	case reconcile.CueWin:
		pterm.Success.Println(text)
	case reconcile.CueLose:
		pterm.Error.Println(text)
	case reconcile.CuePush:
		pterm.Info.Println(text)
	}
}
