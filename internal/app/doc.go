// Package app implements the app shell and component context (component
// O): the glue that owns a reactive runtime, VNode store, element-ID
// allocator, template registry, handler registry and scheduler, and the
// Dioxus-style hook API layered over it (setup_view, render_builder,
// use_signal/use_memo/use_effect).
package app
