// Package patch splices generated fragments into existing host source files.
//
// Insertion points are found by Locate, which matches an anchor pattern and
// returns an explicit Position. Splice is a pure function of its inputs.
// Apply drives both from a manifest and writes files only after every edit
// has been located, so a failing anchor leaves the tree untouched.
package patch
