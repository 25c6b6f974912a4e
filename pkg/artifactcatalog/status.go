package artifactcatalog

import "fmt"

// canApprove checks whether an artifact can transition to approved based on
// its current status. Returns true if the transition is legal, false with an
// error otherwise.
func canApprove(status ArtifactStatus) (bool, error) {
	switch status {
	case ArtifactStatusPending:
		return true, nil
	case ArtifactStatusApproved:
		return false, fmt.Errorf("%w: artifact is already approved (status: %s)", ErrInvalidTransition, status)
	default:
		return false, fmt.Errorf("%w: unknown status %s", ErrInvalidTransition, status)
	}
}
