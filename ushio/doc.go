// Package ushio implements the software (bit-banged) UART engine that emulates
// the Ushio projector-lamp ballast serial protocol.
//
// The engine exists so that lamp-control electronics can be developed and tested
// without genuine ballast hardware: it answers the projector's query byte
// sequences with the canned replies a real ballast would produce.
//
// # Protocol Overview
//
// The Ushio link is a 2400 baud half-duplex serial bus idling high. Each byte is
// framed as:
//
//   - 1 start bit (low)
//   - 8 data bits, least-significant bit first
//   - 1 even parity bit (set when the data byte has an odd number of 1-bits)
//   - 1 stop bit (high)
//
// The engine is driven by a periodic tick at 4x the bit rate, so one bit spans
// 4 quanta. Every call to [Engine.Tick] performs exactly one quantum of work:
// sample the receive line, advance the receive and transmit state machines, run
// the command matcher when the receiver is idle with pending bytes, and return
// the level to drive onto the transmit line.
//
// # Command Matching
//
// Received bytes accumulate in a 16-byte ring buffer. Whenever the receiver is
// idle, the buffered bytes are compared against an ordered table of known
// queries ([Table]). On a full match the paired reply is appended to the
// transmit ring buffer and the receive buffer is cleared. A partial command may
// linger for at most the command timeout (480 quanta, 50 ms) before it is
// discarded.
//
// # Error Handling
//
// Nothing in this package is fatal. Framing glitches, parity mismatches,
// missing stop bits, timeouts and buffer overflows all degrade to "drop and
// resynchronize on the next clean frame"; each anomaly is counted in
// [EngineMetrics] but deliberately triggers no corrective action on the bus.
package ushio
