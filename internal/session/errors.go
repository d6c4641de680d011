package session

import (
	"errors"
	"fmt"

	"league-admin-service/internal/domain"
)

var (
	// ErrMatchNotFound reports that no schedule entry matches the
	// given identifier.
	ErrMatchNotFound = errors.New("session: match not found")

	// ErrVenueExists reports an attempt to add a venue that is
	// already registered.
	ErrVenueExists = errors.New("session: venue already exists")

	// ErrVenueNotFound reports that a venue is not registered.
	ErrVenueNotFound = errors.New("session: venue not found")

	// ErrUnsupportedImage reports a statistics upload with an
	// extension outside the accepted set.
	ErrUnsupportedImage = errors.New("session: unsupported image type")
)

// ValidationError reports one rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("session: invalid %s: %s", e.Field, e.Reason)
}

// VenueInUseError blocks deleting a venue that scheduled matches still
// reference. Matches carries the offending entries for display.
type VenueInUseError struct {
	Venue   string
	Matches []domain.ScheduledMatch
}

func (e *VenueInUseError) Error() string {
	return fmt.Sprintf("session: venue %q is referenced by %d scheduled matches", e.Venue, len(e.Matches))
}
