// Package handler implements the action-tagged event handler registry
// (component G): a slab of (scope, action, signal key, operand, event
// name) records keyed by a stable uint32 id, with dispatch logic that
// performs the tagged action against the reactive stores.
package handler

import (
	"log/slog"

	"github.com/corewasm/corewasm/internal/corerr"
	"github.com/corewasm/corewasm/internal/reactive"
)

// ActionTag identifies what a handler does when dispatched. Values mirror
// the wire contract in spec.md §6 exactly.
type ActionTag uint8

const (
	ActionNone           ActionTag = 0
	ActionSignalSetI32   ActionTag = 1
	ActionSignalAddI32   ActionTag = 2
	ActionSignalSubI32   ActionTag = 3
	ActionSignalToggle   ActionTag = 4
	ActionSignalSetInput ActionTag = 5
	ActionSignalSetString ActionTag = 6
	ActionKeyEnterCustom ActionTag = 7
	ActionCustom         ActionTag = 255
)

// EventType identifies the DOM event a handler is wired to. Values mirror
// spec.md §6's event-type tags.
type EventType uint8

const (
	EventClick      EventType = 0
	EventInput      EventType = 1
	EventKeyDown    EventType = 2
	EventKeyUp      EventType = 3
	EventMouseMove  EventType = 4
	EventFocus      EventType = 5
	EventBlur       EventType = 6
	EventSubmit     EventType = 7
	EventChange     EventType = 8
	EventMouseDown  EventType = 9
	EventMouseUp    EventType = 10
	EventMouseEnter EventType = 11
	EventMouseLeave EventType = 12
	EventCustom     EventType = 255
)

// Entry is a single registered handler record.
type Entry struct {
	Scope     int32
	Action    ActionTag
	SignalKey uint32 // interpretation depends on Action; see dispatch methods
	Operand   int32
	EventName string
}

type slot struct {
	alive bool
	entry Entry
}

// Registry is a free-listed slab of handler Entries, keyed by a stable
// uint32 id.
type Registry struct {
	rt  *reactive.Runtime
	log *slog.Logger

	slots    []slot
	freeList []uint32
}

// NewRegistry returns an empty registry bound to rt. log may be nil, in
// which case dispatch logging is skipped.
func NewRegistry(rt *reactive.Runtime, log *slog.Logger) *Registry {
	return &Registry{rt: rt, log: log}
}

// Register stores entry and returns its handler id.
func (r *Registry) Register(entry Entry) uint32 {
	if n := len(r.freeList); n > 0 {
		id := r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		r.slots[id] = slot{alive: true, entry: entry}
		return id
	}
	id := uint32(len(r.slots))
	r.slots = append(r.slots, slot{alive: true, entry: entry})
	return id
}

// Remove frees id. Removing a dead or unknown id is a no-op.
func (r *Registry) Remove(id uint32) {
	if int(id) >= len(r.slots) || !r.slots[id].alive {
		return
	}
	r.slots[id] = slot{}
	r.freeList = append(r.freeList, id)
}

// Get returns the entry registered under id, if any.
func (r *Registry) Get(id uint32) (Entry, bool) {
	if int(id) >= len(r.slots) || !r.slots[id].alive {
		return Entry{}, false
	}
	return r.slots[id].entry, true
}

func (r *Registry) debugf(msg string, args ...any) {
	if r.log != nil {
		r.log.Debug(msg, args...)
	}
}

// Dispatch looks up id and performs its tagged action. It returns true iff
// an action actually fired; NONE and CUSTOM mark the owning scope dirty and
// return false, leaving the app to route by handler id.
func (r *Registry) Dispatch(id uint32, eventType EventType) bool {
	e, ok := r.Get(id)
	if !ok {
		r.debugf("dispatch on unknown handler", "err", corerr.New("E101"))
		return false
	}
	r.debugf("dispatch", "handler_id", id, "action", e.Action, "event_type", eventType)

	switch e.Action {
	case ActionNone:
		r.rt.MarkScopeDirty(uint32(e.Scope))
		return false
	case ActionSignalSetI32:
		reactive.WriteSignal(r.rt, reactive.SignalKey(e.SignalKey), e.Operand)
		return true
	case ActionSignalAddI32:
		cur := reactive.Read[int32](r.rt.Signals, reactive.SignalKey(e.SignalKey))
		reactive.WriteSignal(r.rt, reactive.SignalKey(e.SignalKey), cur+e.Operand)
		return true
	case ActionSignalSubI32:
		cur := reactive.Read[int32](r.rt.Signals, reactive.SignalKey(e.SignalKey))
		reactive.WriteSignal(r.rt, reactive.SignalKey(e.SignalKey), cur-e.Operand)
		return true
	case ActionSignalToggle:
		cur := reactive.Read[bool](r.rt.Signals, reactive.SignalKey(e.SignalKey))
		reactive.WriteSignal(r.rt, reactive.SignalKey(e.SignalKey), !cur)
		return true
	case ActionCustom:
		r.rt.MarkScopeDirty(uint32(e.Scope))
		return false
	default:
		// SIGNAL_SET_INPUT, SIGNAL_SET_STRING and KEY_ENTER_CUSTOM all need
		// a value the plain Dispatch call doesn't carry.
		return false
	}
}

// DispatchWithI32 is Dispatch plus a payload value, used for
// SIGNAL_SET_INPUT. Other action tags fall back to plain Dispatch.
func (r *Registry) DispatchWithI32(id uint32, eventType EventType, value int32) bool {
	e, ok := r.Get(id)
	if !ok {
		r.debugf("dispatch on unknown handler", "err", corerr.New("E101"))
		return false
	}
	if e.Action != ActionSignalSetInput {
		return r.Dispatch(id, eventType)
	}
	r.debugf("dispatch_i32", "handler_id", id, "value", value)
	reactive.WriteSignal(r.rt, reactive.SignalKey(e.SignalKey), value)
	return true
}

// DispatchWithString is Dispatch plus a string payload, used for
// SIGNAL_SET_STRING (writes value to the target string signal and bumps
// its companion version) and KEY_ENTER_CUSTOM (fires only when value ==
// "Enter"). Other action tags fall back to plain Dispatch.
func (r *Registry) DispatchWithString(id uint32, eventType EventType, value string) bool {
	e, ok := r.Get(id)
	if !ok {
		r.debugf("dispatch on unknown handler", "err", corerr.New("E101"))
		return false
	}
	switch e.Action {
	case ActionSignalSetString:
		r.debugf("dispatch_string", "handler_id", id, "value", value)
		r.rt.Strings.Write(reactive.StringKey(e.SignalKey), value)
		reactive.WriteSignal(r.rt, reactive.SignalKey(uint32(e.Operand)), int32(0))
		return true
	case ActionKeyEnterCustom:
		if value != "Enter" {
			r.debugf("key filtered", "err", corerr.New("E301"), "value", value)
			return false
		}
		r.rt.MarkScopeDirty(uint32(e.Scope))
		return true
	default:
		return r.Dispatch(id, eventType)
	}
}
