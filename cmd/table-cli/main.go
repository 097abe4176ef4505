// Command table-cli is the headless blackjack client: the same synchronizer
// and reconciliation core as the desktop app, projected onto the terminal.
// Useful for playing over SSH and for debugging snapshot sequences.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"github.com/openfelt/blackjack-table/internal/config"
	"github.com/openfelt/blackjack-table/internal/dealer"
	"github.com/openfelt/blackjack-table/internal/dealertest"
	"github.com/openfelt/blackjack-table/internal/game"
	"github.com/openfelt/blackjack-table/internal/reconcile"
	"github.com/openfelt/blackjack-table/internal/version"
)

var (
	serverURL    = flag.String("server", "", "Dealer service base URL (overrides config)")
	practiceMode = flag.Bool("practice", false, "Play against a local scripted dealer")
	showVersion  = flag.Bool("version", false, "Print the version and exit")
)

type cli struct {
	sync  *dealer.Synchronizer
	state reconcile.State
}

func main() {
	flag.Parse()
	if *showVersion {
		pterm.Printfln("table-cli %s", version.GetVersion())
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}

	if *practiceMode {
		scripted := dealertest.New()
		dealertest.LoadPracticeScript(scripted)
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Start practice dealer: %v", err)
		}
		go func() {
			//nolint:errcheck // Server runs for process lifetime
			_ = http.Serve(listener, scripted.Handler())
		}()
		cfg.Server.BaseURL = "http://" + listener.Addr().String()
	}

	clientConfig := dealer.DefaultClientConfig(cfg.Server.BaseURL)
	if timeout, err := cfg.GetTimeout(); err == nil {
		clientConfig.Timeout = timeout
	}

	c := &cli{state: reconcile.NewState()}
	c.sync = dealer.NewSynchronizer(dealer.NewClient(clientConfig), c.render)

	pterm.DefaultHeader.Println("Blackjack Table")

	ctx := context.Background()
	if err := c.perform(ctx, c.sync.StartRound); err != nil {
		log.Fatalf("Start round: %v", err)
	}

	for c.prompt(ctx) {
	}
}

// render applies each authoritative snapshot: full table reprint plus the
// one-shot outcome line, with the same fires-exactly-once guarantee as the
// desktop renderer.
func (c *cli) render(snap *game.RoundSnapshot) {
	plan, next := reconcile.Build(snap, c.state)
	c.state = next

	printTable(snap)
	printCue(plan.Cue, snap.NetDelta())
}

func (c *cli) perform(ctx context.Context, call func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return call(callCtx)
}

// prompt offers the actions the current snapshot enables and dispatches the
// chosen one. Returns false when the player quits.
func (c *cli) prompt(ctx context.Context) bool {
	snap := c.sync.Current()
	if snap == nil {
		return false
	}
	plan, _ := reconcile.Build(snap, c.state)

	choice, err := pterm.DefaultInteractiveSelect.WithOptions(actionOptions(plan.Buttons)).Show("Your move")
	if err != nil {
		return false
	}

	switch choice {
	case "Deal":
		bets := c.promptBets(snap)
		err = c.perform(ctx, func(ctx context.Context) error {
			return c.sync.PlaceBets(ctx, bets)
		})
	case "Hit", "Stand", "Double", "Split":
		action := map[string]string{
			"Hit": dealer.ActionHit, "Stand": dealer.ActionStand,
			"Double": dealer.ActionDouble, "Split": dealer.ActionSplit,
		}[choice]
		err = c.perform(ctx, func(ctx context.Context) error {
			return c.sync.PlayerAction(ctx, action, snap.CurrentActiveHandIndex)
		})
	case "Clear Bets":
		// Local-only, like the desktop button: no dealer request. The
		// terminal flow re-prompts wagers on Deal, so there is nothing
		// persistent to wipe beyond confirming.
		pterm.Info.Println("Bets cleared.")
	case "Re-Bet":
		err = c.perform(ctx, c.sync.Rebet)
	case "Collect Bonus":
		err = c.perform(ctx, c.sync.CollectBonus)
	case "Quit":
		return false
	}

	if err != nil {
		pterm.Error.Println(dealer.UserMessage(err))
	}
	return true
}

// actionOptions lists one menu entry per control the plan enables, in table
// order, plus Quit.
func actionOptions(b reconcile.Buttons) []string {
	var options []string
	add := func(enabled bool, name string) {
		if enabled {
			options = append(options, name)
		}
	}
	add(b.Deal, "Deal")
	add(b.Hit, "Hit")
	add(b.Stand, "Stand")
	add(b.Double, "Double")
	add(b.Split, "Split")
	add(b.ClearBets, "Clear Bets")
	add(b.Rebet, "Re-Bet")
	add(b.CollectBonus, "Collect Bonus")
	return append(options, "Quit")
}

// promptBets asks for each hand's wagers. Normalization and the no-main-bet
// check happen in the synchronizer, exactly as in the desktop client.
func (c *cli) promptBets(snap *game.RoundSnapshot) []game.BetTriple {
	bets := make([]game.BetTriple, len(snap.PlayerHands))
	for i := range snap.PlayerHands {
		pterm.Printfln("Hand %d", snap.PlayerHands[i].HandIndex+1)
		bets[i] = game.BetTriple{
			MainBet: promptAmount("  Main bet"),
			Side213: promptAmount("  21+3 side bet"),
			SidePP:  promptAmount("  Perfect-pair side bet"),
		}
	}
	return bets
}

func promptAmount(label string) int {
	text, err := pterm.DefaultInteractiveTextInput.WithDefaultValue("0").Show(label)
	if err != nil {
		return 0
	}
	amount, err := strconv.Atoi(text)
	if err != nil || amount < 0 {
		return 0
	}
	return amount
}
