// Package gui is the Fyne front end: it projects render plans produced by
// the reconcile planner onto widgets. Nothing in here decides what the table
// should look like; it only applies plans and forwards player input to the
// synchronizer.
package gui

import (
	"context"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"github.com/openfelt/blackjack-table/internal/audio"
	"github.com/openfelt/blackjack-table/internal/cards"
	"github.com/openfelt/blackjack-table/internal/config"
	"github.com/openfelt/blackjack-table/internal/dealer"
	"github.com/openfelt/blackjack-table/internal/game"
	"github.com/openfelt/blackjack-table/internal/storage"
)

// App represents the GUI application.
type App struct {
	app    fyne.App
	window fyne.Window

	cfg     *config.Config
	sync    *dealer.Synchronizer
	images  *cards.ImageCache
	sound   *audio.Player
	history *storage.RoundStore

	table   *TableView
	timeout time.Duration
}

// NewApp creates the GUI application. history may be nil when local round
// recording is disabled.
func NewApp(cfg *config.Config, client *dealer.Client, sound *audio.Player, history *storage.RoundStore) *App {
	a := &App{
		app:     app.New(),
		cfg:     cfg,
		images:  cards.NewImageCache(client.GetBaseURL()),
		sound:   sound,
		history: history,
		timeout: 10 * time.Second,
	}
	if timeout, err := cfg.GetTimeout(); err == nil {
		a.timeout = timeout
	}

	// The synchronizer calls back from network goroutines; renders must hop
	// onto the UI thread.
	a.sync = dealer.NewSynchronizer(client, func(snap *game.RoundSnapshot) {
		fyne.Do(func() {
			a.table.Render(snap)
		})
	})

	a.sound.SetMuted(cfg.Sound.Muted || !cfg.Sound.Enabled)
	return a
}

// Run builds the window and starts the table. Blocks until the window
// closes.
func (a *App) Run() {
	a.window = a.app.NewWindow("Blackjack Table")
	a.window.Resize(fyne.NewSize(1100, 760))

	a.table = NewTableView(a)

	tabs := container.NewAppTabs(
		container.NewTabItem("Table", a.table.Content()),
		container.NewTabItem("History", a.createHistoryView()),
		container.NewTabItem("Settings", a.createSettingsView()),
	)
	a.window.SetContent(tabs)

	// Config hot reload: presentation settings apply without a restart.
	watcher, err := config.Watch(func(cfg *config.Config) {
		fyne.Do(func() {
			a.applyConfig(cfg)
		})
	})
	if err != nil {
		log.Printf("[App] Config watch unavailable: %v", err)
	} else {
		a.window.SetOnClosed(func() {
			//nolint:errcheck // Ignore error on cleanup
			_ = watcher.Close()
		})
	}

	// Ask the dealer for the opening snapshot once the window is up.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()
		if err := a.sync.StartRound(ctx); err != nil {
			log.Printf("[App] Start round: %v", err)
			fyne.Do(func() {
				a.table.ShowMessage(dealer.UserMessage(err))
			})
		}
	}()

	a.window.ShowAndRun()
}

func (a *App) applyConfig(cfg *config.Config) {
	a.cfg = cfg
	a.sound.SetMuted(cfg.Sound.Muted || !cfg.Sound.Enabled)
	log.Printf("[App] Config reloaded (muted=%v animations=%v)", cfg.Sound.Muted, cfg.Table.Animations)
}
