// Package dealer talks to the remote dealer service. The Client issues the
// raw HTTP requests; the Synchronizer layered on top owns the single current
// snapshot and guarantees exactly one render per completed action.
package dealer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/openfelt/blackjack-table/internal/game"
)

// ClientConfig holds configuration for the dealer HTTP client.
type ClientConfig struct {
	// BaseURL is the base URL of the dealer service (e.g., "http://localhost:8080")
	BaseURL string

	// Timeout is the timeout for individual requests
	Timeout time.Duration
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
func DefaultClientConfig(baseURL string) *ClientConfig {
	return &ClientConfig{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Client is an HTTP client for the dealer API. Every endpoint answers with
// the same envelope; decoding failures and transport errors are wrapped as
// *TransportError so callers can keep last-known-good state on them.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new dealer HTTP client.
func NewClient(config *ClientConfig) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// Envelope is the dealer's uniform response shape. A failed action may still
// carry a partial GameState (e.g., an unchanged table bundled with an
// insufficient-chips message); callers must reconcile it anyway.
type Envelope struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message,omitempty"`
	GameState *game.RoundSnapshot `json:"game_state,omitempty"`
	LastBets  []game.BetTriple    `json:"last_bets,omitempty"`
}

// StartRound begins a fresh round and returns the initial snapshot.
func (c *Client) StartRound(ctx context.Context) (*Envelope, error) {
	return c.post(ctx, "/api/start_round", nil)
}

// placeBetsRequest is the wire payload for place_bets; bets are positional
// by hand index.
type placeBetsRequest struct {
	Bets []game.BetTriple `json:"bets"`
}

// PlaceBets commits the bets and deals the round.
func (c *Client) PlaceBets(ctx context.Context, bets []game.BetTriple) (*Envelope, error) {
	return c.post(ctx, "/api/place_bets", placeBetsRequest{Bets: bets})
}

// playerActionRequest is the wire payload for player_action.
type playerActionRequest struct {
	Action    string `json:"action"`
	HandIndex int    `json:"hand_index"`
}

// PlayerAction performs hit, stand, double or split on the given hand.
func (c *Client) PlayerAction(ctx context.Context, action string, handIndex int) (*Envelope, error) {
	return c.post(ctx, "/api/player_action", playerActionRequest{Action: action, HandIndex: handIndex})
}

// Rebet restores the previous round's bets; the response carries last_bets
// for repopulating the inputs.
func (c *Client) Rebet(ctx context.Context) (*Envelope, error) {
	return c.post(ctx, "/api/rebet", nil)
}

// CollectBonus claims the periodic chip bonus.
func (c *Client) CollectBonus(ctx context.Context) (*Envelope, error) {
	return c.post(ctx, "/api/collect_bonus", nil)
}

// post issues a single POST and decodes the envelope. There is no retry
// here: a failed action must stay failed until the player re-triggers it.
func (c *Client) post(ctx context.Context, path string, payload any) (*Envelope, error) {
	url := c.config.BaseURL + path

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return nil, fmt.Errorf("encode request for %s: %w", path, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}
	defer func() {
		//nolint:errcheck // Ignore error on cleanup
		_ = resp.Body.Close()
	}()

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &TransportError{Path: path, Err: fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)}
	}

	return &envelope, nil
}

// SetBaseURL updates the base URL for the client.
func (c *Client) SetBaseURL(url string) {
	c.config.BaseURL = url
}

// GetBaseURL returns the current base URL.
func (c *Client) GetBaseURL() string {
	return c.config.BaseURL
}
