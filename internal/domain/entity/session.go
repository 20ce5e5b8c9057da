package entity

type Outcome string

const (
	OutcomeRunning   Outcome = "running"
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeExhausted Outcome = "exhausted"
)

// SessionState tracks one run. Once it leaves OutcomeRunning it never
// changes again.
type SessionState struct {
	Steps   int
	Outcome Outcome
	Message string
}

func NewSessionState() *SessionState {
	return &SessionState{Outcome: OutcomeRunning}
}

func (s *SessionState) Running() bool {
	return s.Outcome == OutcomeRunning
}

func (s *SessionState) Declare(d Declaration) {
	if !s.Running() {
		return
	}
	switch d.Outcome {
	case OutcomeCompleted, OutcomeFailed:
		s.Outcome = d.Outcome
		s.Message = d.Message
	}
}

func (s *SessionState) Exhaust(message string) {
	if !s.Running() {
		return
	}
	s.Outcome = OutcomeExhausted
	s.Message = message
}

func (s *SessionState) Report() *RunReport {
	return &RunReport{
		Outcome: s.Outcome,
		Message: s.Message,
		Steps:   s.Steps,
	}
}

type RunReport struct {
	RunID   string
	Outcome Outcome
	Message string
	Steps   int
}
