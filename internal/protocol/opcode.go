// Package protocol implements the binary mutation protocol (component K):
// a little-endian opcode encoder/decoder over a shared byte buffer. The
// opcode table in this file is the wire contract described in spec.md §6 —
// the exact byte values must never change.
package protocol

// Op is the single-byte opcode discriminator.
type Op byte

const (
	OpEnd                 Op = 0x00
	OpAppendChildren      Op = 0x01
	OpAssignId            Op = 0x02
	OpCreatePlaceholder   Op = 0x03
	OpCreateTextNode      Op = 0x04
	OpLoadTemplate        Op = 0x05
	OpReplaceWith         Op = 0x06
	OpReplacePlaceholder  Op = 0x07
	OpInsertAfter         Op = 0x08
	OpInsertBefore        Op = 0x09
	OpSetAttribute        Op = 0x0A
	OpSetText             Op = 0x0B
	OpNewEventListener    Op = 0x0C
	OpRemoveEventListener Op = 0x0D
	OpRemove              Op = 0x0E
	OpPushRoot            Op = 0x0F
)

func (op Op) String() string {
	switch op {
	case OpEnd:
		return "End"
	case OpAppendChildren:
		return "AppendChildren"
	case OpAssignId:
		return "AssignId"
	case OpCreatePlaceholder:
		return "CreatePlaceholder"
	case OpCreateTextNode:
		return "CreateTextNode"
	case OpLoadTemplate:
		return "LoadTemplate"
	case OpReplaceWith:
		return "ReplaceWith"
	case OpReplacePlaceholder:
		return "ReplacePlaceholder"
	case OpInsertAfter:
		return "InsertAfter"
	case OpInsertBefore:
		return "InsertBefore"
	case OpSetAttribute:
		return "SetAttribute"
	case OpSetText:
		return "SetText"
	case OpNewEventListener:
		return "NewEventListener"
	case OpRemoveEventListener:
		return "RemoveEventListener"
	case OpRemove:
		return "Remove"
	case OpPushRoot:
		return "PushRoot"
	default:
		return "Unknown"
	}
}

// Mutation is a single decoded/to-be-encoded opcode. Not every field is
// meaningful for every Op — see the per-opcode comments on the Emit*
// methods in writer.go for which fields apply.
type Mutation struct {
	Op Op

	ID        uint32
	M         uint32 // pop-count for stack-consuming ops
	Path      []byte // template-static path, length-prefixed with u8 on the wire
	Text      string // u32-length-prefixed string payload
	TemplateID uint32
	RootIndex uint32
	RefID     uint32
	NS        uint8
	Name      string // u16-length-prefixed string payload (attr/event names)
	Value     string // u32-length-prefixed string payload
}
