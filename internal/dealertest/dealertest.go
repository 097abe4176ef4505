// Package dealertest provides a scripted dealer service for tests and the
// client's practice mode. It is not a rules engine: every response is a
// pre-authored envelope replayed in order, which keeps blackjack rules on
// the real dealer's side and makes client behavior fully deterministic.
package dealertest

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openfelt/blackjack-table/internal/dealer"
	"github.com/openfelt/blackjack-table/internal/game"
)

// Endpoint names accepted by Queue.
const (
	StartRound   = "start_round"
	PlaceBets    = "place_bets"
	PlayerAction = "player_action"
	Rebet        = "rebet"
	CollectBonus = "collect_bonus"
)

// PlayerActionCall is one recorded player_action request.
type PlayerActionCall struct {
	Action    string `json:"action"`
	HandIndex int    `json:"hand_index"`
}

// Dealer replays scripted envelopes per endpoint and records the payloads it
// received, so tests can assert exactly what went over the wire.
type Dealer struct {
	mu     sync.Mutex
	queues map[string][]dealer.Envelope

	placeBetsCalls    [][]game.BetTriple
	playerActionCalls []PlayerActionCall
	callCounts        map[string]int
}

// New creates an empty scripted dealer.
func New() *Dealer {
	return &Dealer{
		queues:     make(map[string][]dealer.Envelope),
		callCounts: make(map[string]int),
	}
}

// Queue appends scripted responses for an endpoint. When a queue runs down
// to its last envelope, that envelope is repeated for further calls.
func (d *Dealer) Queue(endpoint string, envelopes ...dealer.Envelope) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queues[endpoint] = append(d.queues[endpoint], envelopes...)
}

// PlaceBetsCalls returns the recorded place_bets payloads in call order.
func (d *Dealer) PlaceBetsCalls() [][]game.BetTriple {
	d.mu.Lock()
	defer d.mu.Unlock()
	calls := make([][]game.BetTriple, len(d.placeBetsCalls))
	copy(calls, d.placeBetsCalls)
	return calls
}

// PlayerActionCalls returns the recorded player_action payloads in call order.
func (d *Dealer) PlayerActionCalls() []PlayerActionCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	calls := make([]PlayerActionCall, len(d.playerActionCalls))
	copy(calls, d.playerActionCalls)
	return calls
}

// CallCount returns how many times an endpoint was hit.
func (d *Dealer) CallCount(endpoint string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.callCounts[endpoint]
}

// Handler returns the dealer's HTTP handler.
func (d *Dealer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/api/{endpoint}", d.handle)
	return r
}

func (d *Dealer) handle(w http.ResponseWriter, r *http.Request) {
	endpoint := chi.URLParam(r, "endpoint")

	d.mu.Lock()
	d.callCounts[endpoint]++
	switch endpoint {
	case PlaceBets:
		var payload struct {
			Bets []game.BetTriple `json:"bets"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			d.placeBetsCalls = append(d.placeBetsCalls, payload.Bets)
		}
	case PlayerAction:
		var call PlayerActionCall
		if err := json.NewDecoder(r.Body).Decode(&call); err == nil {
			d.playerActionCalls = append(d.playerActionCalls, call)
		}
	}

	queue := d.queues[endpoint]
	var envelope dealer.Envelope
	switch len(queue) {
	case 0:
		envelope = dealer.Envelope{Success: false, Message: "no scripted response for " + endpoint}
	case 1:
		envelope = queue[0]
	default:
		envelope = queue[0]
		d.queues[endpoint] = queue[1:]
	}
	d.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		log.Printf("[DealerTest] Encode response for %s: %v", endpoint, err)
	}
}
