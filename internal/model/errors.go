package model

import "errors"

// Closed error kinds. Callers discriminate retryable vs terminal vs
// locally-recoverable failures with errors.Is against these sentinels.
var (
	// ErrUnparsedAnswer: closed question, no classification rule matched.
	// Recovered locally by re-sending the same question.
	ErrUnparsedAnswer = errors.New("answer could not be mapped to an option")

	// ErrConflict: a concurrent writer changed the session between read
	// and write. The losing worker must re-read and replay the event.
	ErrConflict = errors.New("session was modified concurrently")

	// ErrRateLimited: external API throttled the call; retryable with
	// backoff.
	ErrRateLimited = errors.New("external service rate limited")

	// ErrPermanent: auth/permission/model-unavailable class failure; never
	// retried.
	ErrPermanent = errors.New("external service permanent error")

	// ErrInvalidCommand: malformed operator command, e.g. out-of-range
	// step jump.
	ErrInvalidCommand = errors.New("invalid operator command")

	// ErrNoActiveSession: respondent has no active session for the
	// requested operation.
	ErrNoActiveSession = errors.New("no active session")
)
