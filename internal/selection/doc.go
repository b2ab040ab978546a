// Package selection implements the cascading country, state and city
// selection state machine.
//
// The [Machine] is synchronous and does no I/O. Operations that need data
// return [Request] values; the driver (the picker's event loop or
// [Resolve]) performs them and feeds each outcome back through
// [Machine.Settle]. Every request carries a per-level token and a
// context. Changing a selection cancels the context of every dependent
// request and bumps the token, so a superseded result is discarded no
// matter when it arrives.
//
// Each level tracks its load status with its own finite state machine:
//
//	idle --start--> loading --succeed--> loaded
//	                   |
//	                   +-----fail------> failed
//
//	loading|loaded|failed --reset--> idle
package selection
