package pose

// InvalidInputError reports a malformed pose or offset: a degenerate or
// denormalized quaternion, or a non-finite component. It is the only error
// kind this package surfaces; callers skip the affected draw for the frame
// and carry on, since the next frame brings a fresh pose.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "pose: invalid input: " + e.Reason
}
