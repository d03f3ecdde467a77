package pipeline

// State is the lifecycle state of a stage.
type State int32

const (
	// Open stages accept submissions.
	Open State = iota
	// Draining stages do not accept submissions and process the items already queued.
	Draining
	// Completed stages processed every submitted item.
	Completed
	// Faulted stages stopped on a fault and dropped their queued items.
	Faulted
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Draining:
		return "draining"
	case Completed:
		return "completed"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no transition can leave the state.
func (s State) Terminal() bool {
	return s == Completed || s == Faulted
}
