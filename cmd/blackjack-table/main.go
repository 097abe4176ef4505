package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/openfelt/blackjack-table/internal/audio"
	"github.com/openfelt/blackjack-table/internal/config"
	"github.com/openfelt/blackjack-table/internal/dealer"
	"github.com/openfelt/blackjack-table/internal/dealertest"
	"github.com/openfelt/blackjack-table/internal/gui"
	"github.com/openfelt/blackjack-table/internal/storage"
	"github.com/openfelt/blackjack-table/internal/version"
)

var (
	serverURL      = flag.String("server", "", "Dealer service base URL (overrides config)")
	practiceMode   = flag.Bool("practice", false, "Play against a local scripted dealer instead of a live one")
	muted          = flag.Bool("muted", false, "Start with sound cues muted")
	noHistory      = flag.Bool("no-history", false, "Disable local round-history recording")
	debugMode      = flag.Bool("debug-mode", false, "Enable verbose debug logging")
	debugModeShort = flag.Bool("d", false, "Enable debug logging (shorthand for -debug-mode)")
	showVersion    = flag.Bool("version", false, "Print the version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Printf("blackjack-table %s\n", version.GetVersion())
		return
	}
	if *debugModeShort {
		*debugMode = true
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
	}
	if *muted {
		cfg.Sound.Muted = true
	}
	if *debugMode {
		cfg.App.DebugMode = true
	}

	if *practiceMode {
		baseURL, err := startPracticeDealer()
		if err != nil {
			log.Fatalf("Start practice dealer: %v", err)
		}
		cfg.Server.BaseURL = baseURL
		log.Printf("[Main] Practice dealer listening at %s", baseURL)
	}

	clientConfig := dealer.DefaultClientConfig(cfg.Server.BaseURL)
	if timeout, err := cfg.GetTimeout(); err == nil {
		clientConfig.Timeout = timeout
	}
	client := dealer.NewClient(clientConfig)

	var history *storage.RoundStore
	if cfg.History.Enabled && !*noHistory {
		history = openHistory(cfg)
	}

	sound := audio.NewPlayer()

	app := gui.NewApp(cfg, client, sound, history)
	app.Run()
}

// openHistory opens the round-history store. History is a convenience, not a
// requirement: failure to open it degrades to playing without recording.
func openHistory(cfg *config.Config) *storage.RoundStore {
	path := cfg.History.DBPath
	if path == "" {
		var err error
		path, err = storage.DefaultPath()
		if err != nil {
			log.Printf("[Main] History disabled: %v", err)
			return nil
		}
	}

	dbConfig := storage.DefaultConfig(path)
	dbConfig.AutoMigrate = true
	db, err := storage.Open(dbConfig)
	if err != nil {
		log.Printf("[Main] History disabled: %v", err)
		return nil
	}
	return storage.NewRoundStore(db)
}

// startPracticeDealer serves the scripted dealer on a loopback port and
// returns its base URL.
func startPracticeDealer() (string, error) {
	scripted := dealertest.New()
	dealertest.LoadPracticeScript(scripted)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	go func() {
		if err := http.Serve(listener, scripted.Handler()); err != nil {
			log.Printf("[Main] Practice dealer stopped: %v", err)
		}
	}()
	return "http://" + listener.Addr().String(), nil
}
