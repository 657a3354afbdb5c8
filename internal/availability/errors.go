package availability

import (
	"errors"
	"fmt"
)

// AmbiguousAvailabilityError reports a table that cannot be reduced to the
// supported guard forms.
type AmbiguousAvailabilityError struct {
	Socket   string
	Property string // empty when the problem spans several properties
	Reason   string
}

func (e *AmbiguousAvailabilityError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("ambiguous availability for socket %q: property %q: %s", e.Socket, e.Property, e.Reason)
	}
	return fmt.Sprintf("ambiguous availability for socket %q: %s", e.Socket, e.Reason)
}

// IsAmbiguous reports whether err is an AmbiguousAvailabilityError.
func IsAmbiguous(err error) bool {
	var ae *AmbiguousAvailabilityError
	return errors.As(err, &ae)
}
