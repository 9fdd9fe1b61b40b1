// Package engine implements the create engine (component L) and diff
// engine (component M): the two VNode tree walkers that produce the binary
// mutation protocol (internal/protocol) from a VNode store (internal/vnode)
// and a template registry (internal/template).
package engine
