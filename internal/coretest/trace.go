package coretest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewasm/corewasm/internal/protocol"
)

// Trace is a decoded mutation stream, kept in emission order for
// assertions. It plays the role the teacher's rendered-HTML string plays
// in vtest.ExpectContains — the thing tests assert shape against.
type Trace struct {
	Mutations []protocol.Mutation
}

func decodeTrace(t *testing.T, buf []byte) *Trace {
	t.Helper()
	muts, err := protocol.NewReader(buf).ReadAll()
	require.NoError(t, err, "decoding mutation trace")
	return &Trace{Mutations: muts}
}

// Ops returns the opcode sequence, in emission order, End included.
func (tr *Trace) Ops() []protocol.Op {
	ops := make([]protocol.Op, len(tr.Mutations))
	for i, m := range tr.Mutations {
		ops[i] = m.Op
	}
	return ops
}

// Count returns how many mutations carry op.
func (tr *Trace) Count(op protocol.Op) int {
	n := 0
	for _, m := range tr.Mutations {
		if m.Op == op {
			n++
		}
	}
	return n
}

// ExpectOp asserts the trace contains at least one mutation with op.
//
// Example:
//
//	trace.ExpectOp(t, protocol.OpSetText)
func (tr *Trace) ExpectOp(t *testing.T, op protocol.Op) {
	t.Helper()
	assert.Greater(t, tr.Count(op), 0, "expected trace to contain a %s mutation, got ops %v", op, tr.Ops())
}

// ExpectNoOp asserts the trace contains no mutation with op — e.g. that a
// diff avoided a full ReplaceWith when a minimal SetText sufficed.
func (tr *Trace) ExpectNoOp(t *testing.T, op protocol.Op) {
	t.Helper()
	assert.Equal(t, 0, tr.Count(op), "expected trace to contain no %s mutation, got ops %v", op, tr.Ops())
}

// ExpectText asserts some mutation in the trace carries the given text or
// attribute value payload (SetText, CreateTextNode, or SetAttribute).
//
// Example:
//
//	trace.ExpectText(t, "42")
func (tr *Trace) ExpectText(t *testing.T, want string) {
	t.Helper()
	for _, m := range tr.Mutations {
		switch m.Op {
		case protocol.OpSetText, protocol.OpCreateTextNode:
			if m.Text == want {
				return
			}
		case protocol.OpSetAttribute:
			if m.Value == want {
				return
			}
		}
	}
	t.Errorf("expected trace to carry text/value %q, got %+v", want, tr.Mutations)
}

// ExpectAttribute asserts a SetAttribute mutation in the trace sets name to
// value.
//
// Example:
//
//	trace.ExpectAttribute(t, "class", "active")
func (tr *Trace) ExpectAttribute(t *testing.T, name, value string) {
	t.Helper()
	for _, m := range tr.Mutations {
		if m.Op == protocol.OpSetAttribute && m.Name == name && m.Value == value {
			return
		}
	}
	t.Errorf("expected SetAttribute %s=%q, got %+v", name, value, tr.Mutations)
}

// ExpectEventListener asserts a NewEventListener mutation in the trace
// names the given event.
func (tr *Trace) ExpectEventListener(t *testing.T, name string) {
	t.Helper()
	for _, m := range tr.Mutations {
		if m.Op == protocol.OpNewEventListener && m.Name == name {
			return
		}
	}
	t.Errorf("expected NewEventListener %q, got %+v", name, tr.Mutations)
}

// ExpectEndsClean asserts the trace is non-empty and its final mutation is
// the End sentinel — every wire stream this runtime emits must terminate
// this way.
func (tr *Trace) ExpectEndsClean(t *testing.T) {
	t.Helper()
	if !assert.NotEmpty(t, tr.Mutations, "trace is empty") {
		return
	}
	assert.Equal(t, protocol.OpEnd, tr.Mutations[len(tr.Mutations)-1].Op, "trace did not end with OpEnd")
}
