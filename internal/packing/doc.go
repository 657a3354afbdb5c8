// Package packing lays node parameters out in the bytecode instruction
// header and renders the matching encode and decode code.
//
// The header carries at most three 32-bit words (node.y, node.z, node.w).
// Enum, int and boolean properties need one byte each and are packed four
// to a word; float properties and socket stack offsets need a whole word.
// Packing never truncates: a node that needs a fourth word is rejected with
// *OverflowError.
package packing
