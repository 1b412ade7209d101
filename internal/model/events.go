package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Die events
	EventDieRolled          EventType = "die_rolled"
	EventDieLockChanged     EventType = "die_lock_changed"
	EventAnimationStarted   EventType = "animation_started"
	EventAnimationStep      EventType = "animation_step"
	EventAnimationFinished  EventType = "animation_finished"
	EventGroupRollCompleted EventType = "group_roll_completed"

	// Turn events
	EventTurnStarted EventType = "turn_started"
	EventTurnEnded   EventType = "turn_ended"

	// History events
	EventHistoryCleared EventType = "history_cleared"
	EventHistoryDeleted EventType = "history_deleted"
)

// Event is the base structure for all change notifications
type Event struct {
	Type      EventType
	Timestamp time.Time
	GroupID   string // Empty for single-die events
	DieID     string // Empty for group, turn and history events
	Payload   any    // Type-specific data
}

// Notifier receives change notifications from the core.
// Implementations must not block the caller.
type Notifier interface {
	Notify(event Event)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(event Event)

// Notify calls f(event)
func (f NotifierFunc) Notify(event Event) {
	f(event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(Event) {}

// DieRolledPayload contains data for die rolled events
type DieRolledPayload struct {
	Value int
	Sides int
}

// DieLockChangedPayload contains data for lock changed events
type DieLockChangedPayload struct {
	Locked bool
}

// AnimationStartedPayload contains the randomized timing of an animated roll
type AnimationStartedPayload struct {
	StartDelay time.Duration
	Duration   time.Duration
	Steps      int
}

// AnimationStepPayload contains a cosmetic face shown mid-animation.
// The value is not the die's result and must not be recorded.
type AnimationStepPayload struct {
	Step  int
	Value int
}

// AnimationFinishedPayload contains the die's true result
type AnimationFinishedPayload struct {
	Value     int
	Cancelled bool
}

// TurnStartedPayload contains data for turn started events
type TurnStartedPayload struct {
	DiceCount int
	Sides     int
}

// GroupRolledPayload contains the true faces after a group roll
type GroupRolledPayload struct {
	Values []int
	Total  int
}

// TurnEndedPayload contains data for turn ended events
type TurnEndedPayload struct {
	Values []int
	Total  int
}

// HistoryClearedPayload contains data for history cleared events
type HistoryClearedPayload struct {
	Removed int
}
