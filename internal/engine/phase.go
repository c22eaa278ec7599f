package engine

// Phase is the state of the turn state machine.
type Phase int

const (
	// PhaseIdle means no game has been started or restored.
	PhaseIdle Phase = iota
	// PhaseAwaitingFirstTurn means the game exists but has no opening scene yet.
	PhaseAwaitingFirstTurn
	PhaseAwaitingAction
	PhaseTurnInFlight
	// PhaseDead is terminal; only Reset leaves it.
	PhaseDead
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingFirstTurn:
		return "awaiting_first_turn"
	case PhaseAwaitingAction:
		return "awaiting_action"
	case PhaseTurnInFlight:
		return "turn_in_flight"
	case PhaseDead:
		return "dead"
	}
	return "unknown"
}
