// Package ext implements the extensible object runtime.
//
// This package contains:
//   - Operation descriptors declared at runtime and upgraded in place
//   - Per-object layer stacks with onion-style dispatch
//   - Generation tracking so upgraded operations keep older layers working
//   - Hand-off state threaded between non-adjacent layers
//   - Instance (delegating) and fork (independent) derivation with ancestry queries
//
// A call to an operation enters at the most recently pushed layer. Each layer
// either implements the operation, in which case it receives a *Call and may
// continue down the stack through Call.Next, or it does not, in which case the
// call passes through it untouched.
//
// Objects are not safe for concurrent mutation. Declare, Upgrade and Use must
// not be interleaved with dispatch from other goroutines; use Fork to obtain an
// independently extensible copy.
package ext
