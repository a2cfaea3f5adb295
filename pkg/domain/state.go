package domain

// Phase defines where a navigator session currently is.
type Phase string

const (
	PhaseNotStarted    Phase = "not_started"
	PhaseAwaitingGraph Phase = "awaiting_graph" // Graph load in flight
	PhaseAtQuestion    Phase = "at_question"
	PhaseAtResult      Phase = "at_result" // Sink state until restart
)

// Decision records one answered question.
type Decision struct {
	QuestionID  string `json:"question_id"`
	OptionIndex int    `json:"option_index"`
	NextID      string `json:"next_id"`
}

// Session is the snapshot of one navigator run.
type Session struct {
	ID string `json:"id"`

	Phase Phase `json:"phase"`

	// CurrentID is the question or result being shown. Empty before the first question.
	CurrentID string `json:"current_id,omitempty"`

	// Path is append-only for the life of the session and cleared on restart.
	Path []Decision `json:"path"`

	// LoadFailed is the retry indicator surfaced after a failed graph load.
	LoadFailed bool   `json:"load_failed,omitempty"`
	LoadError  string `json:"load_error,omitempty"`

	// Sealed carries the encrypted session when the store is wrapped by an
	// encrypting middleware. Only the envelope's ID and Phase stay readable.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates a session that has not been started.
func NewSession(id string) *Session {
	return &Session{
		ID:    id,
		Phase: PhaseNotStarted,
		Path:  []Decision{},
	}
}

// Snapshot returns a deep copy safe for independent mutation.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	next := *s
	next.Path = make([]Decision, len(s.Path))
	copy(next.Path, s.Path)
	return &next
}

// Started reports whether a question or result is being shown.
func (s *Session) Started() bool {
	return s.Phase == PhaseAtQuestion || s.Phase == PhaseAtResult
}

// Terminated reports whether the session reached a result.
func (s *Session) Terminated() bool {
	return s.Phase == PhaseAtResult
}
