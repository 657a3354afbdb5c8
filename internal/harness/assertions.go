package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/nodegen/internal/emit"
	"github.com/roach88/nodegen/internal/packing"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Node     string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s (node %q)\n", e.Type, e.Node)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

func assertStorage(gen *emit.Result, a Assertion) error {
	got := gen.Plan.Layout.Strategy.String()
	if got == a.Expect {
		return nil
	}
	return &AssertionError{Type: AssertStorage, Expected: a.Expect, Actual: got}
}

func assertWords(gen *emit.Result, a Assertion) error {
	got := packing.Encode(gen.Plan.Words)
	if slices.Equal(got, a.Words) {
		return nil
	}
	return &AssertionError{
		Type:     AssertWords,
		Expected: strings.Join(a.Words, " | "),
		Actual:   strings.Join(got, " | "),
	}
}

// assertGuard renders the guard of the dependency on a.Socket.
func assertGuard(gen *emit.Result, a Assertion) error {
	p := gen.Plan
	for i, dep := range p.Schema.Dependencies {
		if dep.Socket != a.Socket {
			continue
		}
		got := p.Guards[i].Render(p.Literals())
		if got == a.Expect {
			return nil
		}
		return &AssertionError{Type: AssertGuard, Expected: a.Expect, Actual: got}
	}
	return &AssertionError{
		Type:     AssertGuard,
		Expected: fmt.Sprintf("guard for socket %q", a.Socket),
		Actual:   "socket has no availability table",
	}
}

func assertFragmentContains(gen *emit.Result, a Assertion) error {
	f, ok := gen.Fragment(a.Fragment)
	if !ok {
		return &AssertionError{
			Type:     AssertFragmentContains,
			Expected: fmt.Sprintf("fragment %s containing %q", a.Fragment, a.Text),
			Actual:   "fragment not generated",
		}
	}
	if strings.Contains(f.Text, a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertFragmentContains,
		Expected: fmt.Sprintf("fragment %s containing %q", a.Fragment, a.Text),
		Actual:   f.Text,
	}
}

func assertFragmentAbsent(gen *emit.Result, a Assertion) error {
	if _, ok := gen.Fragment(a.Fragment); !ok {
		return nil
	}
	return &AssertionError{
		Type:     AssertFragmentAbsent,
		Expected: fmt.Sprintf("no fragment %s", a.Fragment),
		Actual:   "fragment generated",
	}
}

// assertError checks the generation failure. An error assertion is the
// only assertion of its scenario.
func assertError(result *Result, a Assertion) error {
	if result.GenerateError == nil {
		return &AssertionError{Type: AssertError, Expected: fmt.Sprintf("error containing %q", a.Expect), Actual: "generation succeeded"}
	}
	if strings.Contains(result.GenerateError.Error(), a.Expect) {
		return nil
	}
	return &AssertionError{
		Type:     AssertError,
		Expected: fmt.Sprintf("error containing %q", a.Expect),
		Actual:   result.GenerateError.Error(),
	}
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a list of error messages (empty if all pass).
//
// A generation failure fails every assertion except error.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, a := range assertions {
		var err error
		switch {
		case a.Type == AssertError:
			err = assertError(result, a)
		case result.Generation == nil:
			err = &AssertionError{Type: a.Type, Expected: "generation to succeed", Actual: fmt.Sprint(result.GenerateError)}
		default:
			switch a.Type {
			case AssertStorage:
				err = assertStorage(result.Generation, a)
			case AssertWords:
				err = assertWords(result.Generation, a)
			case AssertGuard:
				err = assertGuard(result.Generation, a)
			case AssertFragmentContains:
				err = assertFragmentContains(result.Generation, a)
			case AssertFragmentAbsent:
				err = assertFragmentAbsent(result.Generation, a)
			default:
				err = fmt.Errorf("unknown assertion type %q", a.Type)
			}
		}

		if err != nil {
			if ae, ok := err.(*AssertionError); ok {
				ae.Node = result.Node
			}
			errors = append(errors, fmt.Sprintf("assertion %d: %s", i, err))
		}
	}

	return errors
}
