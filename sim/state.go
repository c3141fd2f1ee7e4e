package sim

import "time"

// State is the lifecycle state of a Simulator.
type State int32

// The lifecycle states.
const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateRunning:
		return "Running"
	default:
		return "Unknown"
	}
}

// Stats is a point-in-time summary of a Simulator.
type Stats struct {
	State        State         `json:"state"`
	Frames       uint64        `json:"frames"`
	Ticks        uint64        `json:"ticks"`
	DroppedTicks uint64        `json:"dropped_ticks"`
	SimTime      time.Duration `json:"sim_time"`
	Particles    int           `json:"particles"`
	Forces       int           `json:"forces"`
	Constraints  int           `json:"constraints"`
	Bodies       int           `json:"bodies"`
	PendingAdds  int           `json:"pending_adds"`
}
