package layout

import (
	"errors"
	"fmt"
)

// OverflowError reports a property that does not fit the inline slots.
//
// DecideStorage rejects every property list that would overflow, so this
// error signals a caller that skipped the storage decision.
type OverflowError struct {
	Property string
	Class    SlotClass // zero for kinds that can never be stored inline
	Capacity int
}

func (e *OverflowError) Error() string {
	if e.Class == 0 {
		return fmt.Sprintf("inline overflow: property %q cannot be stored in an inline slot", e.Property)
	}
	return fmt.Sprintf("inline overflow: property %q does not fit the %s slots (capacity %d)", e.Property, e.Class, e.Capacity)
}

// IsOverflow reports whether err is an inline slot overflow.
// Uses errors.As to handle wrapped errors.
func IsOverflow(err error) bool {
	var oe *OverflowError
	return errors.As(err, &oe)
}
