package llm

// Phase is the coarse lifecycle label of a stream session.
type Phase string

const (
	PhaseNone       Phase = ""
	PhaseConnecting Phase = "connecting"
	PhaseThinking   Phase = "thinking"
	PhaseGenerating Phase = "generating"
	PhaseComplete   Phase = "complete"
	PhaseError      Phase = "error"
)

func (p Phase) rank() int {
	switch p {
	case PhaseConnecting:
		return 1
	case PhaseThinking:
		return 2
	case PhaseGenerating:
		return 3
	case PhaseComplete:
		return 4
	case PhaseError:
		return 5
	default:
		return 0
	}
}

// Terminal reports whether no further transitions can follow p.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseError
}

// PhaseMachine tracks one session's phase. It only moves forward: a request
// to go back (generating to thinking, say) is dropped, and nothing leaves
// complete or error.
type PhaseMachine struct {
	current Phase
}

func (m *PhaseMachine) Current() Phase {
	return m.current
}

// Advance moves to p if p is later than the current phase and reports whether
// the phase changed. Error cannot be entered this way; use Fail.
func (m *PhaseMachine) Advance(p Phase) bool {
	if p == PhaseError || m.current.Terminal() {
		return false
	}
	if p.rank() <= m.current.rank() {
		return false
	}
	m.current = p
	return true
}

// Fail enters the error phase unless the session already finished.
func (m *PhaseMachine) Fail() bool {
	if m.current.Terminal() {
		return false
	}
	m.current = PhaseError
	return true
}
