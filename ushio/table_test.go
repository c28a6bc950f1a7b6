package ushio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	tbl := DefaultTable()

	require.Len(t, tbl, 5)
	require.NoError(t, tbl.Validate())

	// Entries 1 and 4 are the duplicated lamp status query, preserved as
	// captured from the bus.
	assert.Equal(t, tbl[0], tbl[3])

	assert.Equal(t, []byte{0x51, 0x0D}, tbl[0].Query)
	assert.Equal(t, []byte{0x51, 0x32, 0x0D}, tbl[0].Reply)
	assert.Equal(t, []byte{0x4C, 0x46, 0x0D}, tbl[1].Query)
	assert.Equal(t, []byte{0x41, 0x0D}, tbl[1].Reply)
	assert.Equal(t, []byte{0x50, 0x0D}, tbl[2].Query)
	assert.Equal(t, []byte{0x50, 0x46, 0x0D}, tbl[2].Reply)

	// Known-suspect fixture: the 0x4C 0x45 reply was captured with low
	// confidence. It is preserved verbatim; if real hardware ever disagrees,
	// this assertion is the place that documents the discrepancy.
	assert.Equal(t, []byte{0x4C, 0x45, 0x0D}, tbl[4].Query)
	assert.Equal(t, []byte{0x41, 0x0D}, tbl[4].Reply)
}

func TestTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr error
	}{
		{
			name:    "empty table",
			table:   Table{},
			wantErr: ErrEmptyTable,
		},
		{
			name:    "empty query",
			table:   Table{{Query: nil, Reply: []byte{0x41}}},
			wantErr: ErrInvalidSequence,
		},
		{
			name:    "empty reply",
			table:   Table{{Query: []byte{0x51}, Reply: nil}},
			wantErr: ErrInvalidSequence,
		},
		{
			name:    "query too long",
			table:   Table{{Query: make([]byte, MaxSequenceLen+1), Reply: []byte{0x41}}},
			wantErr: ErrInvalidSequence,
		},
		{
			name:    "reply too long",
			table:   Table{{Query: []byte{0x51}, Reply: make([]byte, MaxSequenceLen+1)}},
			wantErr: ErrInvalidSequence,
		},
		{
			name:  "valid",
			table: DefaultTable(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTable_Clone(t *testing.T) {
	tbl := DefaultTable()
	clone := tbl.Clone()

	require.Equal(t, tbl, clone)

	clone[0].Query[0] = 0x00
	assert.Equal(t, byte(0x51), tbl[0].Query[0], "clone must not share backing arrays")
}

func TestTable_Match(t *testing.T) {
	tbl := DefaultTable()

	tests := []struct {
		name        string
		buffered    []byte
		wantReply   []byte
		wantMatched bool
		wantMore    bool
	}{
		{
			name:        "full status query",
			buffered:    []byte{0x51, 0x0D},
			wantReply:   []byte{0x51, 0x32, 0x0D},
			wantMatched: true,
			wantMore:    false, // matching stops at entry 0 before longer entries are scanned
		},
		{
			name:        "strict prefix of a longer query",
			buffered:    []byte{0x4C},
			wantMatched: false,
			wantMore:    true,
		},
		{
			name:        "three byte query",
			buffered:    []byte{0x4C, 0x46, 0x0D},
			wantReply:   []byte{0x41, 0x0D},
			wantMatched: true,
			wantMore:    false,
		},
		{
			name:        "no entry can still match",
			buffered:    []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00},
			wantMatched: false,
			wantMore:    false,
		},
		{
			name:        "mismatch but longer entries pending",
			buffered:    []byte{0x42, 0x42},
			wantMatched: false,
			wantMore:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf RingBuffer
			require.True(t, buf.Append(tt.buffered))

			reply, matched, more := tbl.match(&buf)
			assert.Equal(t, tt.wantMatched, matched)
			assert.Equal(t, tt.wantMore, more)
			if tt.wantMatched {
				assert.Equal(t, tt.wantReply, reply)
			}
		})
	}
}
