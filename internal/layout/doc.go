// Package layout decides how a node's properties are stored in the host
// application's node record.
//
// Small property sets live in the generic record's inline slots: two
// int-like fields (custom1, custom2) and two float-like fields (custom3,
// custom4). Booleans share one int-like slot as individual bits. Anything
// larger, any string, and every texture node gets a dedicated struct whose
// size is padded to an 8-byte boundary.
//
// All functions are pure. Slot assignment threads its cursor explicitly and
// keeps no package state.
package layout
