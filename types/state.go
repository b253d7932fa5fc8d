package types

// State represents the clerk session lifecycle state.
//
// Normal progression:
//
//	StateInit → StateNoAssignment ↔ StateHasAssignment → StateShutdown
//
// The awaiting-reconciliation and cooldown conditions are orthogonal to this
// state and exposed as derived booleans on the coordinator; they gate
// admission of the next assignment without being states of their own.
type State int

const (
	// StateInit is the initial state before the coordinator is started.
	StateInit State = iota

	// StateNoAssignment indicates the clerk holds no work item.
	StateNoAssignment

	// StateHasAssignment indicates the clerk holds exactly one work item.
	StateHasAssignment

	// StateShutdown indicates the session has been torn down.
	StateShutdown
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateNoAssignment:
		return "NoAssignment"
	case StateHasAssignment:
		return "HasAssignment"
	case StateShutdown:
		return "Shutdown"
	default:
		return "Unknown"
	}
}
