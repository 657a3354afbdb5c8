package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/nodegen/internal/availability"
	"github.com/roach88/nodegen/internal/ir"
	"github.com/roach88/nodegen/internal/layout"
	"github.com/roach88/nodegen/internal/packing"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrInvalidSchema = "E100" // schema violation with no narrower code

	// Declaration errors (E101-E109)
	ErrNodeNameEmpty   = "E101" // node name is required
	ErrInvalidProperty = "E102" // bad options, default, size or range
	ErrInvalidSocket   = "E103" // bad direction or kind
	ErrDuplicateName   = "E105" // duplicate property or socket name

	// Availability errors (E110-E119)
	ErrInvalidAvailability   = "E110" // table names an unknown socket or property
	ErrAmbiguousAvailability = "E111" // table cannot be reduced to a guard

	// Capacity errors (E120-E129)
	ErrStorageOverflow = "E120" // properties do not fit the chosen storage
	ErrHeaderOverflow  = "E121" // header items need more than three words
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"` // source line, when known
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled schema against every invariant the generators
// rely on. Returns all errors found (does not fail-fast).
//
// Declaration errors are reported first. Availability reduction and the
// storage and header capacity checks only run on a schema whose
// declarations are sound.
func Validate(s *ir.NodeSchema) []ValidationError {
	var errs []ValidationError
	for _, se := range ir.Validate(s) {
		errs = append(errs, ValidationError{
			Field:   se.Field,
			Message: se.Message,
			Code:    schemaErrorCode(se),
		})
	}
	if len(errs) > 0 {
		return errs
	}

	for i, dep := range s.Dependencies {
		if _, err := availability.Reduce(s, dep); err != nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("availability[%d]", i),
				Message: err.Error(),
				Code:    availabilityErrorCode(err),
			})
		}
	}

	if _, err := layout.Plan(s); err != nil {
		errs = append(errs, ValidationError{
			Field:   "properties",
			Message: err.Error(),
			Code:    ErrStorageOverflow,
		})
	}

	if _, err := packing.Pack(packing.Items(s)); err != nil {
		errs = append(errs, ValidationError{
			Field:   "header",
			Message: err.Error(),
			Code:    ErrHeaderOverflow,
		})
	}

	return errs
}

func schemaErrorCode(se *ir.SchemaError) string {
	switch {
	case strings.Contains(se.Message, "duplicate"):
		return ErrDuplicateName
	case se.Field == "name":
		return ErrNodeNameEmpty
	case strings.HasPrefix(se.Field, "properties"):
		return ErrInvalidProperty
	case strings.HasPrefix(se.Field, "sockets"):
		return ErrInvalidSocket
	case strings.HasPrefix(se.Field, "availability"):
		return ErrInvalidAvailability
	default:
		return ErrInvalidSchema
	}
}

func availabilityErrorCode(err error) string {
	var se *ir.SchemaError
	if errors.As(err, &se) {
		return ErrInvalidAvailability
	}
	return ErrAmbiguousAvailability
}
