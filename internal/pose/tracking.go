package pose

// TrackingState indicates whether a tracked face's pose is currently being
// actively estimated.
type TrackingState uint8

const (
	Stopped TrackingState = iota
	Paused
	Tracking
)

func (s TrackingState) String() string {
	switch s {
	case Tracking:
		return "TRACKING"
	case Paused:
		return "PAUSED"
	case Stopped:
		return "STOPPED"
	}
	return "UNKNOWN"
}
