package harness

import "github.com/roach88/nodegen/internal/emit"

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// Node is the display name of the node under test.
	Node string `json:"node"`

	// Generation is the generator output. Nil when generation failed.
	Generation *emit.Result `json:"-"`

	// GenerateError is the generation failure, if any.
	GenerateError error `json:"-"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(node string) *Result {
	return &Result{
		Pass:   true,
		Node:   node,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
