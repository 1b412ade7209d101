package model

// TurnPhase represents the current phase of a turn
type TurnPhase string

const (
	TurnPhaseActive TurnPhase = "active" // Dice may be rolled and locked
	TurnPhaseEnded  TurnPhase = "ended"  // Group committed to history, waiting for a new turn
)

// TurnState is the controller's view of the current turn
type TurnState struct {
	Phase TurnPhase
	Group *DiceGroup
}

// Active returns true if dice may be rolled and locked
func (s TurnState) Active() bool {
	return s.Phase == TurnPhaseActive
}
