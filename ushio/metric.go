package ushio

import (
	"sync/atomic"
)

// EngineMetrics contains atomic metrics for a protocol engine.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
//
// All anomaly counters are purely observational: the engine detects parity,
// framing and overflow conditions without acting on them, matching the
// original ballast behavior.
type EngineMetrics struct {
	// ByteRecvCount indicates the number of data bytes decoded from the line.
	ByteRecvCount atomic.Uint64
	// ByteSendCount indicates the number of data bytes serialized onto the line.
	ByteSendCount atomic.Uint64
	// MatchCount indicates the number of fully matched queries.
	MatchCount atomic.Uint64

	// GlitchCount indicates the number of falling edges rejected as unstable
	// start bits.
	GlitchCount atomic.Uint64
	// ParityErrCount indicates the number of parity mismatches observed.
	ParityErrCount atomic.Uint64
	// FramingErrCount indicates the number of missing stop bits observed.
	FramingErrCount atomic.Uint64

	// RecvDropCount indicates the number of decoded bytes dropped because the
	// receive buffer was full.
	RecvDropCount atomic.Uint64
	// ReplyDropCount indicates the number of replies dropped because the
	// transmit buffer lacked space.
	ReplyDropCount atomic.Uint64
	// TimeoutCount indicates the number of partial commands discarded by the
	// command timeout.
	TimeoutCount atomic.Uint64
}

func (m *EngineMetrics) incByteRecvCount() {
	m.ByteRecvCount.Add(1)
}

func (m *EngineMetrics) incByteSendCount() {
	m.ByteSendCount.Add(1)
}

func (m *EngineMetrics) incMatchCount() {
	m.MatchCount.Add(1)
}

func (m *EngineMetrics) incGlitchCount() {
	m.GlitchCount.Add(1)
}

func (m *EngineMetrics) incParityErrCount() {
	m.ParityErrCount.Add(1)
}

func (m *EngineMetrics) incFramingErrCount() {
	m.FramingErrCount.Add(1)
}

func (m *EngineMetrics) incRecvDropCount() {
	m.RecvDropCount.Add(1)
}

func (m *EngineMetrics) incReplyDropCount() {
	m.ReplyDropCount.Add(1)
}

func (m *EngineMetrics) incTimeoutCount() {
	m.TimeoutCount.Add(1)
}
