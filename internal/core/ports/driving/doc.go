// Package driving defines the interfaces through which the outside
// world drives the core (primary/inbound ports).
//
// The CLI adapter and any future HTTP surface call these interfaces;
// core services implement them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
