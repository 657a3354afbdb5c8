package queryir

import "fmt"

// Validate checks q against the history tables and returns every problem
// found. An empty result means the query can be compiled.
//
// Validate is a pure function with no side effects.
func Validate(q Query) []string {
	v := &validator{}
	v.validateQuery(q)
	return v.problems
}

type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case Select:
		v.validateSelect(query)
	case *Select:
		if query == nil {
			v.addProblem("nil query")
			return
		}
		v.validateSelect(*query)
	case nil:
		v.addProblem("nil query")
	default:
		v.addProblem("unknown query type %T", q)
	}
}

func (v *validator) validateSelect(sel Select) {
	if sel.From != TableRuns {
		v.addProblem("unknown table %q", sel.From)
	}
	for _, c := range sel.Columns {
		if _, ok := fields[c]; !ok && c != "id" && c != "options" {
			v.addProblem("unknown column %q", c)
		}
	}
	if sel.Order != Ascending && sel.Order != Descending {
		v.addProblem("unknown order %d", sel.Order)
	}
	if sel.Limit < 0 {
		v.addProblem("negative limit %d", sel.Limit)
	}
	if sel.Filter != nil {
		v.validatePredicate(sel.Filter)
	}
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case Equals:
		v.validateEquals(pred)
	case *Equals:
		v.validateEquals(*pred)
	case AtLeast:
		v.validateAtLeast(pred)
	case *AtLeast:
		v.validateAtLeast(*pred)
	case And:
		v.validateAnd(pred)
	case *And:
		v.validateAnd(*pred)
	default:
		v.addProblem("unknown predicate type %T", p)
	}
}

func (v *validator) validateEquals(eq Equals) {
	integer, ok := fields[eq.Field]
	if !ok {
		v.addProblem("unknown field %q", eq.Field)
		return
	}
	switch eq.Value.(type) {
	case string:
		if integer {
			v.addProblem("field %q compares integers, got a string", eq.Field)
		}
	case int, int64:
		if !integer {
			v.addProblem("field %q compares strings, got an integer", eq.Field)
		}
	case nil:
		v.addProblem("field %q compared to null", eq.Field)
	default:
		v.addProblem("field %q: unsupported value type %T", eq.Field, eq.Value)
	}
}

func (v *validator) validateAtLeast(al AtLeast) {
	integer, ok := fields[al.Field]
	if !ok {
		v.addProblem("unknown field %q", al.Field)
		return
	}
	if !integer {
		v.addProblem("field %q is not an integer", al.Field)
	}
}

func (v *validator) validateAnd(and And) {
	for _, sub := range and.Predicates {
		v.validatePredicate(sub)
	}
}
