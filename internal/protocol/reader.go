package protocol

import (
	"encoding/binary"

	"github.com/corewasm/corewasm/internal/corerr"
)

// ErrTruncated is returned when the buffer ends mid-opcode.
var ErrTruncated = corerr.New("E202")

// ErrUnknownOpcode is returned when a decoded byte doesn't match any
// registered opcode.
var ErrUnknownOpcode = corerr.New("E203")

// Reader decodes a little-endian mutation stream previously produced by a
// Writer. It exists for round-trip testing and for host-side test doubles
// in internal/coretest — the real host interpreter is an external
// collaborator (spec.md §1) and is not implemented here.
type Reader struct {
	buf    []byte
	offset int
}

// NewReader wraps buf for reading from offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.offset+n > len(r.buf) {
		return nil, ErrTruncated
	}
	b := r.buf[r.offset : r.offset+n]
	r.offset += n
	return b, nil
}

func (r *Reader) readByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) readU32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) readPath() ([]byte, error) {
	n, err := r.readByte()
	if err != nil {
		return nil, err
	}
	b, err := r.take(int(n))
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (r *Reader) readText() (string, error) {
	n, err := r.readU32()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *Reader) readName() (string, error) {
	b, err := r.take(2)
	if err != nil {
		return "", err
	}
	n := binary.LittleEndian.Uint16(b)
	body, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ReadAll decodes mutations until the End sentinel (inclusive) or an error.
func (r *Reader) ReadAll() ([]Mutation, error) {
	var out []Mutation
	for {
		m, done, err := r.readOne()
		if err != nil {
			return out, err
		}
		out = append(out, m)
		if done {
			return out, nil
		}
	}
}

func (r *Reader) readOne() (Mutation, bool, error) {
	opByte, err := r.readByte()
	if err != nil {
		return Mutation{}, false, err
	}
	op := Op(opByte)
	m := Mutation{Op: op}

	switch op {
	case OpEnd:
		return m, true, nil

	case OpAppendChildren, OpReplaceWith:
		if m.ID, err = r.readU32(); err != nil {
			return m, false, err
		}
		if m.M, err = r.readU32(); err != nil {
			return m, false, err
		}

	case OpAssignId:
		if m.Path, err = r.readPath(); err != nil {
			return m, false, err
		}
		if m.ID, err = r.readU32(); err != nil {
			return m, false, err
		}

	case OpCreatePlaceholder, OpRemove, OpPushRoot:
		if m.ID, err = r.readU32(); err != nil {
			return m, false, err
		}

	case OpCreateTextNode, OpSetText:
		if m.ID, err = r.readU32(); err != nil {
			return m, false, err
		}
		if m.Text, err = r.readText(); err != nil {
			return m, false, err
		}

	case OpLoadTemplate:
		if m.TemplateID, err = r.readU32(); err != nil {
			return m, false, err
		}
		if m.RootIndex, err = r.readU32(); err != nil {
			return m, false, err
		}
		if m.ID, err = r.readU32(); err != nil {
			return m, false, err
		}

	case OpReplacePlaceholder:
		if m.Path, err = r.readPath(); err != nil {
			return m, false, err
		}
		if m.M, err = r.readU32(); err != nil {
			return m, false, err
		}

	case OpInsertAfter, OpInsertBefore:
		if m.RefID, err = r.readU32(); err != nil {
			return m, false, err
		}
		if m.M, err = r.readU32(); err != nil {
			return m, false, err
		}

	case OpSetAttribute:
		if m.ID, err = r.readU32(); err != nil {
			return m, false, err
		}
		ns, err2 := r.readByte()
		if err2 != nil {
			return m, false, err2
		}
		m.NS = ns
		if m.Name, err = r.readName(); err != nil {
			return m, false, err
		}
		if m.Value, err = r.readText(); err != nil {
			return m, false, err
		}

	case OpNewEventListener, OpRemoveEventListener:
		if m.ID, err = r.readU32(); err != nil {
			return m, false, err
		}
		if m.Name, err = r.readName(); err != nil {
			return m, false, err
		}

	default:
		return m, false, ErrUnknownOpcode
	}

	return m, false, nil
}
