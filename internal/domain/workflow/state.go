package workflow

// State is a stage of a document run
type State string

const (
	StateCreated    State = "CREATED"
	StatePlanned    State = "PLANNED"
	StateExecuting  State = "EXECUTING"
	StateFinalizing State = "FINALIZING"
	StateCompleted  State = "COMPLETED"
	StateFailed     State = "FAILED"
)

var validStates = map[State]bool{
	StateCreated:    true,
	StatePlanned:    true,
	StateExecuting:  true,
	StateFinalizing: true,
	StateCompleted:  true,
	StateFailed:     true,
}

var terminalStates = map[State]bool{
	StateCompleted: true,
	StateFailed:    true,
}

// IsTerminal reports whether no transition leaves the state
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid reports whether s is a known state
func (s State) IsValid() bool {
	return validStates[s]
}

func (s State) String() string {
	return string(s)
}
