package ushio

// Capacity is the fixed size of each direction's ring buffer, matching the
// 16-byte buffers of the original ballast firmware.
const Capacity = 16

// capMask wraps buffer indices; Capacity must stay a power of two.
const capMask = Capacity - 1

// RingBuffer is a fixed-capacity circular byte buffer with wrap-around
// indices. It is used once per direction: the receiver pushes decoded bytes,
// the matcher reads them; the matcher appends replies, the transmitter drains
// them bit by bit.
//
// Overflow never panics and never blocks: Push and Append report rejection
// and leave the buffer unchanged. RingBuffer is not goroutine-safe; the
// protocol loop is the only writer and reader.
type RingBuffer struct {
	data  [Capacity]byte
	read  uint8
	write uint8
}

// Len returns the number of unread bytes.
func (b *RingBuffer) Len() int {
	// Free-running uint8 indices; the difference wraps correctly as long as
	// the buffer is never overfilled, which Push and Append guarantee.
	return int(b.write - b.read)
}

// Free returns the number of bytes that can still be pushed.
func (b *RingBuffer) Free() int {
	return Capacity - b.Len()
}

// Empty reports whether no unread bytes remain.
func (b *RingBuffer) Empty() bool {
	return b.read == b.write
}

// Full reports whether the buffer holds Capacity unread bytes.
func (b *RingBuffer) Full() bool {
	return b.Len() == Capacity
}

// Push appends one byte. It reports false and leaves the buffer unchanged
// when the buffer is full.
func (b *RingBuffer) Push(v byte) bool {
	if b.Full() {
		return false
	}

	b.data[b.write&capMask] = v
	b.write++

	return true
}

// Append appends all bytes of p, or none of them: it reports false and
// leaves the buffer unchanged when the free space is insufficient.
func (b *RingBuffer) Append(p []byte) bool {
	if len(p) > b.Free() {
		return false
	}

	for _, v := range p {
		b.data[b.write&capMask] = v
		b.write++
	}

	return true
}

// Peek returns the oldest unread byte without consuming it.
func (b *RingBuffer) Peek() (byte, bool) {
	if b.Empty() {
		return 0, false
	}

	return b.data[b.read&capMask], true
}

// Pop consumes and returns the oldest unread byte.
func (b *RingBuffer) Pop() (byte, bool) {
	if b.Empty() {
		return 0, false
	}

	v := b.data[b.read&capMask]
	b.read++

	return v, true
}

// At returns the i-th unread byte, with 0 addressing the oldest.
// The caller must ensure i < Len().
func (b *RingBuffer) At(i int) byte {
	return b.data[(b.read+uint8(i))&capMask] //nolint:gosec // i < Len() <= Capacity
}

// Reset discards all content and rewinds both indices to zero.
// Resetting an already-empty buffer is a no-op beyond the rewind.
func (b *RingBuffer) Reset() {
	b.read = 0
	b.write = 0
}

// Bytes returns a copy of the unread bytes in order, oldest first.
func (b *RingBuffer) Bytes() []byte {
	out := make([]byte, b.Len())
	for i := range out {
		out[i] = b.At(i)
	}

	return out
}
