// Package el is the DSL / template compiler (component J): an ordinary
// value-builder library for constructing view trees, plus the compiler
// that linearises a tree of Nodes into an immutable template.Template with
// auto-numbered dynamic slots.
//
// This is deliberately not a macro or code-generation layer — as spec.md
// §1 puts it, "the DSL is an ordinary value-builder library" — Node values
// are built by calling ordinary Go functions (Div(...), Text(...),
// On(...)), the same shape as the teacher's el/elements.go re-exports of
// vdom constructors, generalized to also understand the auto-numbered
// dynamic-slot sentinels this runtime's template model needs.
package el
