// Package availability turns per-socket availability tables into the
// boolean guards evaluated by the host UI whenever a property changes.
//
// A table lists, for one output socket, whether the socket is available for
// each literal value of each property that influences it. The socket is
// available when every property's current value is marked available, so a
// table reduces to a conjunction of one clause per constrained property.
// Each clause is written over the smaller of the two literal sets: the
// values that disable the socket (p != a && p != b) or the values that
// enable it (p == a || p == b).
package availability
