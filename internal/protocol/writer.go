package protocol

import (
	"encoding/binary"

	"github.com/corewasm/corewasm/internal/corerr"
)

// Writer appends little-endian opcodes into a caller-provided, fixed-size
// byte buffer. It panics (with a corerr E201) on overflow — sizing the
// buffer for the largest plausible patch is the caller's responsibility
// (spec.md §7: mutation buffer overflow is fatal, not recoverable).
type Writer struct {
	buf    []byte
	offset int
}

// NewWriter wraps buf for writing, starting at offset 0.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.offset }

func (w *Writer) grow(n int) []byte {
	if w.offset+n > len(w.buf) {
		panic(corerr.New("E201"))
	}
	b := w.buf[w.offset : w.offset+n]
	w.offset += n
	return b
}

func (w *Writer) writeByte(b byte) {
	w.grow(1)[0] = b
}

func (w *Writer) writeU8(v uint8) {
	w.writeByte(v)
}

func (w *Writer) writeU16(v uint16) {
	binary.LittleEndian.PutUint16(w.grow(2), v)
}

func (w *Writer) writeU32(v uint32) {
	binary.LittleEndian.PutUint32(w.grow(4), v)
}

// writePath writes a u8-length-prefixed byte path.
func (w *Writer) writePath(path []byte) {
	w.writeU8(uint8(len(path)))
	copy(w.grow(len(path)), path)
}

// writeText writes a u32-length-prefixed string (used for text payloads
// and attribute values).
func (w *Writer) writeText(s string) {
	w.writeU32(uint32(len(s)))
	copy(w.grow(len(s)), s)
}

// writeName writes a u16-length-prefixed string (used for attribute and
// event names).
func (w *Writer) writeName(s string) {
	w.writeU16(uint16(len(s)))
	copy(w.grow(len(s)), s)
}

// EmitEnd appends the End sentinel.
func (w *Writer) EmitEnd() {
	w.writeByte(byte(OpEnd))
}

// EmitAppendChildren: pop m stack items, append to id.
func (w *Writer) EmitAppendChildren(id, m uint32) {
	w.writeByte(byte(OpAppendChildren))
	w.writeU32(id)
	w.writeU32(m)
}

// EmitAssignId assigns id to the node found at path.
func (w *Writer) EmitAssignId(path []byte, id uint32) {
	w.writeByte(byte(OpAssignId))
	w.writePath(path)
	w.writeU32(id)
}

// EmitCreatePlaceholder creates a placeholder node under id.
func (w *Writer) EmitCreatePlaceholder(id uint32) {
	w.writeByte(byte(OpCreatePlaceholder))
	w.writeU32(id)
}

// EmitCreateTextNode creates a text node under id with the given content.
func (w *Writer) EmitCreateTextNode(id uint32, text string) {
	w.writeByte(byte(OpCreateTextNode))
	w.writeU32(id)
	w.writeText(text)
}

// EmitLoadTemplate instantiates root rootIndex of template tmplID under id.
func (w *Writer) EmitLoadTemplate(tmplID, rootIndex, id uint32) {
	w.writeByte(byte(OpLoadTemplate))
	w.writeU32(tmplID)
	w.writeU32(rootIndex)
	w.writeU32(id)
}

// EmitReplaceWith pops m stack items and replaces id with them.
func (w *Writer) EmitReplaceWith(id, m uint32) {
	w.writeByte(byte(OpReplaceWith))
	w.writeU32(id)
	w.writeU32(m)
}

// EmitReplacePlaceholder pops m stack items and replaces the placeholder
// found at path with them.
func (w *Writer) EmitReplacePlaceholder(path []byte, m uint32) {
	w.writeByte(byte(OpReplacePlaceholder))
	w.writePath(path)
	w.writeU32(m)
}

// EmitInsertAfter pops m stack items and inserts them after refID.
func (w *Writer) EmitInsertAfter(refID, m uint32) {
	w.writeByte(byte(OpInsertAfter))
	w.writeU32(refID)
	w.writeU32(m)
}

// EmitInsertBefore pops m stack items and inserts them before refID.
func (w *Writer) EmitInsertBefore(refID, m uint32) {
	w.writeByte(byte(OpInsertBefore))
	w.writeU32(refID)
	w.writeU32(m)
}

// EmitSetAttribute sets name=value (namespace ns) on id. An empty value is
// how the host is told to remove the attribute (see spec.md §4.M.4d).
func (w *Writer) EmitSetAttribute(id uint32, ns uint8, name, value string) {
	w.writeByte(byte(OpSetAttribute))
	w.writeU32(id)
	w.writeU8(ns)
	w.writeName(name)
	w.writeText(value)
}

// EmitSetText sets id's text content.
func (w *Writer) EmitSetText(id uint32, text string) {
	w.writeByte(byte(OpSetText))
	w.writeU32(id)
	w.writeText(text)
}

// EmitNewEventListener attaches a listener for name on id.
func (w *Writer) EmitNewEventListener(id uint32, name string) {
	w.writeByte(byte(OpNewEventListener))
	w.writeU32(id)
	w.writeName(name)
}

// EmitRemoveEventListener detaches the listener for name on id.
func (w *Writer) EmitRemoveEventListener(id uint32, name string) {
	w.writeByte(byte(OpRemoveEventListener))
	w.writeU32(id)
	w.writeName(name)
}

// EmitRemove removes id from the DOM.
func (w *Writer) EmitRemove(id uint32) {
	w.writeByte(byte(OpRemove))
	w.writeU32(id)
}

// EmitPushRoot pushes id onto the host interpreter's stack.
func (w *Writer) EmitPushRoot(id uint32) {
	w.writeByte(byte(OpPushRoot))
	w.writeU32(id)
}

// Emit dispatches m to the matching Emit* method, for callers (like tests
// exercising the round-trip property) that build a Mutation value rather
// than calling the typed methods directly.
func (w *Writer) Emit(m Mutation) {
	switch m.Op {
	case OpEnd:
		w.EmitEnd()
	case OpAppendChildren:
		w.EmitAppendChildren(m.ID, m.M)
	case OpAssignId:
		w.EmitAssignId(m.Path, m.ID)
	case OpCreatePlaceholder:
		w.EmitCreatePlaceholder(m.ID)
	case OpCreateTextNode:
		w.EmitCreateTextNode(m.ID, m.Text)
	case OpLoadTemplate:
		w.EmitLoadTemplate(m.TemplateID, m.RootIndex, m.ID)
	case OpReplaceWith:
		w.EmitReplaceWith(m.ID, m.M)
	case OpReplacePlaceholder:
		w.EmitReplacePlaceholder(m.Path, m.M)
	case OpInsertAfter:
		w.EmitInsertAfter(m.RefID, m.M)
	case OpInsertBefore:
		w.EmitInsertBefore(m.RefID, m.M)
	case OpSetAttribute:
		w.EmitSetAttribute(m.ID, m.NS, m.Name, m.Value)
	case OpSetText:
		w.EmitSetText(m.ID, m.Text)
	case OpNewEventListener:
		w.EmitNewEventListener(m.ID, m.Name)
	case OpRemoveEventListener:
		w.EmitRemoveEventListener(m.ID, m.Name)
	case OpRemove:
		w.EmitRemove(m.ID)
	case OpPushRoot:
		w.EmitPushRoot(m.ID)
	}
}

// Finalize appends the End sentinel and returns the total number of bytes
// written.
func (w *Writer) Finalize() int {
	w.EmitEnd()
	return w.offset
}
