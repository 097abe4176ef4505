package dealer

import (
	"errors"
	"fmt"

	"github.com/openfelt/blackjack-table/internal/game"
)

// ErrRequestInFlight is returned when an action is dispatched while another
// state-mutating request is still outstanding. The triggering control should
// already be disabled; this is the backstop.
var ErrRequestInFlight = errors.New("a table action is already in flight")

// ErrTooSoon is returned when the dispatch rate limiter rejects a repeated
// submission of an irreversible action.
var ErrTooSoon = errors.New("action repeated too quickly")

// TransportError wraps a network or decoding failure. The table keeps its
// last-known-good state; the player may simply retry.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("dealer unreachable (%s): %v", e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectedError carries an application-level rejection from the dealer
// (success:false). State, when non-nil, is the partial snapshot bundled with
// the rejection and has already been rendered by the time callers see this.
type RejectedError struct {
	Message string
	State   *game.RoundSnapshot
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "dealer rejected the action"
	}
	return e.Message
}

// ValidationError is a client-side pre-validation failure. No request was
// sent; the table is untouched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UserMessage translates any synchronizer error into the line shown in the
// table's message area.
func UserMessage(err error) string {
	var transport *TransportError
	if errors.As(err, &transport) {
		return "Network error: the dealer could not be reached. Try again."
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return "Error: " + rejected.Message
	}
	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	if errors.Is(err, ErrRequestInFlight) || errors.Is(err, ErrTooSoon) {
		return "Hold on, the previous action is still being resolved."
	}
	return fmt.Sprintf("Error: %v", err)
}
