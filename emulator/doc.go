// Package emulator provides the device layer of the ballast emulator: the
// GPIO line abstraction, boot-time operating-mode selection, tick sources,
// and the per-mode run loops that drive the ushio protocol engine.
//
// A [Device] models the emulator board: one receive input, one transmit
// output, a sync input and two ID inputs. At construction the two ID lines
// are decoded into a 2-bit [Mode]; Run then commits to that mode's loop until
// the context is cancelled.
//
// All protocol state is owned by the single goroutine running the loop. One
// tick from the [TickSource] triggers exactly one quantum of work, strictly
// serialized, so the ring buffers and state machines need no locking. The
// only values shared with other goroutines are atomic metrics and the flag
// mode's observable lamp/dim states.
package emulator
