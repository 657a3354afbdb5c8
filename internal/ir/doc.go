// Package ir provides the schema model for generated shader-graph nodes.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Property is a sealed interface; every kind is a distinct Go type and
//     consumers use exhaustive type switches instead of string tags.
//   - Declaration order of properties and sockets is significant and is
//     never reordered by any consumer.
//   - A NodeSchema is read-only once compiled.
package ir
