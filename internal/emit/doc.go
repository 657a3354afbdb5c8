// Package emit renders the source fragments that plug one node into each
// host backend.
//
// A Plan fixes the storage layout, the packed header words and the
// availability guards once; the backend emitters then render from it:
//
//   - Bytecode: compile-side encoding, kernel-side decoding, node type
//     registration and dispatch for the word-based virtual machine.
//   - Shading: shader source and parameter binding for the text shading
//     language compiler.
//   - Native: the fixed-layout storage struct and enum constants.
//   - Update: the UI init and update callbacks, including socket
//     availability.
//
// Generate runs every stage and returns either all fragments or an error,
// never a partial result.
package emit
