package ushio

import (
	"fmt"

	"github.com/zanppa/ballast-emulator/internal/util"
)

// MaxSequenceLen is the longest query or reply byte sequence the protocol
// defines.
const MaxSequenceLen = 5

// QueryEntry pairs a projector query byte sequence with the canned reply a
// real ballast would send. Entries are immutable once loaded into an Engine.
type QueryEntry struct {
	Query []byte
	Reply []byte
}

// Table is an ordered list of query/reply pairs. The matcher scans entries
// first to last and stops at the first full match.
type Table []QueryEntry

// DefaultTable returns the canonical Ushio query table as reverse-engineered
// from bus captures.
//
// Entries 1 and 4 carry the same lamp status query and reply. The reply of
// the last entry was captured with low confidence and is kept exactly as
// observed rather than guessed at.
func DefaultTable() Table {
	return Table{
		{Query: []byte{0x51, 0x0D}, Reply: []byte{0x51, 0x32, 0x0D}},
		{Query: []byte{0x4C, 0x46, 0x0D}, Reply: []byte{0x41, 0x0D}},
		{Query: []byte{0x50, 0x0D}, Reply: []byte{0x50, 0x46, 0x0D}},
		{Query: []byte{0x51, 0x0D}, Reply: []byte{0x51, 0x32, 0x0D}},
		{Query: []byte{0x4C, 0x45, 0x0D}, Reply: []byte{0x41, 0x0D}},
	}
}

// Validate checks that the table is usable: non-empty, with every query and
// reply between 1 and MaxSequenceLen bytes.
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}

	for i, e := range t {
		if len(e.Query) == 0 || len(e.Query) > MaxSequenceLen {
			return fmt.Errorf("%w: entry %d query is %d bytes, want 1-%d",
				ErrInvalidSequence, i, len(e.Query), MaxSequenceLen)
		}
		if len(e.Reply) == 0 || len(e.Reply) > MaxSequenceLen {
			return fmt.Errorf("%w: entry %d reply is %d bytes, want 1-%d",
				ErrInvalidSequence, i, len(e.Reply), MaxSequenceLen)
		}
	}

	return nil
}

// Clone returns a deep copy of the table so callers cannot mutate an engine's
// entries after construction.
func (t Table) Clone() Table {
	clone := make(Table, len(t))
	for i, e := range t {
		clone[i] = QueryEntry{
			Query: util.CloneSlice(e.Query, 0),
			Reply: util.CloneSlice(e.Reply, 0),
		}
	}

	return clone
}

// match compares the buffer's leading bytes against each entry in table
// order. It returns the reply of the first fully matched entry, whether a
// match was found, and whether some entry still needs more bytes than the
// buffer currently holds (in which case the buffer should be left to
// accumulate, up to the command timeout).
func (t Table) match(buf *RingBuffer) (reply []byte, matched, morePossible bool) {
	n := buf.Len()

	for _, e := range t {
		if n < len(e.Query) {
			// Not enough bytes yet; this entry could still match later.
			morePossible = true
			continue
		}

		ok := true
		for j, q := range e.Query {
			if buf.At(j) != q {
				ok = false
				break
			}
		}

		if ok {
			return e.Reply, true, morePossible
		}
	}

	return nil, false, morePossible
}
