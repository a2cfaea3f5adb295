package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNodeNotFound is returned when a question or result referenced by the graph does not exist.
var ErrNodeNotFound = errors.New("node not found")

// ErrGraphUnavailable is returned when the navigator graph could not be loaded.
// Retrying is always a fresh start action.
var ErrGraphUnavailable = errors.New("navigator graph unavailable")

// ErrInvalidOption is returned when an answer references an option outside the question's list.
var ErrInvalidOption = errors.New("invalid option index")

// ErrQuestionMismatch is returned when an answer targets a question other than the current one.
var ErrQuestionMismatch = errors.New("answer does not match current question")

// ErrNotStarted is returned when an action requires a started session.
var ErrNotStarted = errors.New("navigator not started")

// ErrStaleLoad is returned to a load that was superseded by a newer start or restart.
var ErrStaleLoad = errors.New("graph load superseded")

// ErrCacheMiss is returned by video caches when no entry is stored.
var ErrCacheMiss = errors.New("cache miss")

// NodeKind distinguishes the two node tables of the graph.
type NodeKind string

const (
	KindQuestion NodeKind = "question"
	KindResult   NodeKind = "result"
)

// NodeError reports a malformed reference inside the graph.
type NodeError struct {
	Kind NodeKind
	ID   string
	From string // question that pointed at ID, if any
}

func (e *NodeError) Error() string {
	if e.From != "" {
		return fmt.Sprintf("%s %q (referenced by %q) not found", e.Kind, e.ID, e.From)
	}
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Unwrap lets errors.Is match ErrNodeNotFound.
func (e *NodeError) Unwrap() error {
	return ErrNodeNotFound
}
