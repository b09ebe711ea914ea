package negotiation

import "errors"

// ErrEmptyInput is returned when a submitted utterance is empty after
// trimming. The log and state are left unchanged.
var ErrEmptyInput = errors.New("utterance text is empty")

// ErrRequestInFlight is returned when an opponent utterance is
// submitted while a recommendation request is still outstanding.
var ErrRequestInFlight = errors.New("recommendation request already in flight")

// ErrInvalidState is returned when an operation is not valid in the
// session's current state.
var ErrInvalidState = errors.New("operation not valid in current session state")

// ErrUnknownRecommendation is returned when an accepted item does not
// belong to the live recommendation set.
var ErrUnknownRecommendation = errors.New("recommendation does not belong to the live set")

// ErrSuperseded is returned when a recommendation response arrives
// after the session was reset; the stale result is discarded.
var ErrSuperseded = errors.New("recommendation request superseded by session reset")

// ErrEmptySession is returned when archiving is attempted with an
// empty conversation log.
var ErrEmptySession = errors.New("cannot archive an empty session")

// ErrConfirmationRequired is returned when a reset would discard a
// non-empty log without the caller confirming intent.
var ErrConfirmationRequired = errors.New("reset requires confirmation while the log is non-empty")
