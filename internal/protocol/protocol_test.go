package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewasm/corewasm/internal/corerr"
)

// write_mutations(ops); read_mutations(buf) == ops, for every opcode the
// wire format defines (spec.md §8).
func TestRoundTripAllOpcodes(t *testing.T) {
	ops := []Mutation{
		{Op: OpAppendChildren, ID: 1, M: 2},
		{Op: OpAssignId, Path: []byte{0, 1, 2}, ID: 9},
		{Op: OpCreatePlaceholder, ID: 3},
		{Op: OpCreateTextNode, ID: 4, Text: "hello"},
		{Op: OpLoadTemplate, TemplateID: 5, RootIndex: 0, ID: 6},
		{Op: OpReplaceWith, ID: 7, M: 1},
		{Op: OpReplacePlaceholder, Path: []byte{3}, M: 2},
		{Op: OpInsertAfter, RefID: 8, M: 1},
		{Op: OpInsertBefore, RefID: 9, M: 2},
		{Op: OpSetAttribute, ID: 10, NS: 0, Name: "class", Value: "active"},
		{Op: OpSetAttribute, ID: 10, NS: 0, Name: "disabled", Value: ""},
		{Op: OpSetText, ID: 11, Text: "42"},
		{Op: OpNewEventListener, ID: 12, Name: "click"},
		{Op: OpRemoveEventListener, ID: 12, Name: "click"},
		{Op: OpRemove, ID: 13},
		{Op: OpPushRoot, ID: 14},
	}

	buf := make([]byte, 4096)
	w := NewWriter(buf)
	for _, op := range ops {
		w.Emit(op)
	}
	n := w.Finalize()

	got, err := NewReader(buf[:n]).ReadAll()
	require.NoError(t, err)
	require.Len(t, got, len(ops)+1) // +1 for the trailing End sentinel
	assert.Equal(t, OpEnd, got[len(got)-1].Op)
	assert.Equal(t, ops, got[:len(got)-1])
}

func TestEmptyStreamIsJustEnd(t *testing.T) {
	buf := make([]byte, 16)
	w := NewWriter(buf)
	n := w.Finalize()

	got, err := NewReader(buf[:n]).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []Mutation{{Op: OpEnd}}, got)
}

func TestReadAllTruncatedReturnsError(t *testing.T) {
	buf := make([]byte, 16)
	w := NewWriter(buf)
	w.EmitCreateTextNode(1, "abcdef")
	n := w.offset // no Finalize: no End sentinel, and we'll also chop the payload

	_, err := NewReader(buf[:n-2]).ReadAll()
	assert.ErrorIs(t, err, ErrTruncated)
	var cerr *corerr.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "E202", cerr.Code)
}

func TestReadAllUnknownOpcodeReturnsError(t *testing.T) {
	buf := []byte{0xFF}
	_, err := NewReader(buf).ReadAll()
	assert.ErrorIs(t, err, ErrUnknownOpcode)
	var cerr *corerr.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "E203", cerr.Code)
}

func TestWriterPanicsOnOverflow(t *testing.T) {
	buf := make([]byte, 2)
	w := NewWriter(buf)
	assert.Panics(t, func() { w.EmitRemove(1) })
}

func TestWriterPanicsWithCorerrE201OnOverflow(t *testing.T) {
	buf := make([]byte, 2)
	w := NewWriter(buf)
	defer func() {
		r := recover()
		require.NotNil(t, r)
		cerr, ok := r.(*corerr.Error)
		require.True(t, ok, "panic value should be a *corerr.Error, got %T", r)
		assert.Equal(t, "E201", cerr.Code)
	}()
	w.EmitRemove(1)
}

func TestLenTracksBytesWritten(t *testing.T) {
	buf := make([]byte, 64)
	w := NewWriter(buf)
	assert.Equal(t, 0, w.Len())
	w.EmitRemove(5)
	assert.Equal(t, 5, w.Len()) // 1 opcode byte + 4-byte id
}

func TestSetAttributeEmptyValueMeansRemove(t *testing.T) {
	buf := make([]byte, 64)
	w := NewWriter(buf)
	w.EmitSetAttribute(1, 0, "hidden", "")
	n := w.Finalize()

	got, err := NewReader(buf[:n]).ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "", got[0].Value)
}
