package corerr

// template is a registered error's static content.
type template struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps stable error codes to their static content. Codes are
// grouped by the failure-kind taxonomy in spec.md §7.
var registry = map[string]template{
	// Programmer contract violations (E0xx)
	"E001": {
		Category: CategoryContract,
		Message:  "hook order mismatch",
		Detail:   "a scope called a different number or order of use_signal/use_memo/use_effect hooks than on its first render.",
		Suggestion: "hooks must be called unconditionally, in the same order, on every render of a given scope.",
	},
	"E002": {
		Category:   CategoryContract,
		Message:    "signal read with wrong type",
		Detail:     "Read[T] was called with a T that doesn't match the type Create[T] stored.",
		Suggestion: "keep the generic type argument consistent across Create/Read/Write for a given SignalKey.",
	},
	"E003": {
		Category:   CategoryContract,
		Message:    "PushHook called outside first render",
		Detail:     "a hook tried to append a new hook record on a re-render instead of calling NextHook.",
		Suggestion: "only first-render code paths (IsFirstRender() true) may call PushHook.",
	},

	// Lookup failures (E1xx)
	"E101": {
		Category: CategoryLookup,
		Message:  "unknown handler id",
		Detail:   "handle_event/dispatch_string was called with a handler id that is unregistered or already removed.",
	},
	"E102": {
		Category: CategoryLookup,
		Message:  "unknown scope id",
		Detail:   "an operation referenced a scope id that has been destroyed or was never allocated.",
	},
	"E103": {
		Category: CategoryLookup,
		Message:  "unknown template id",
		Detail:   "a VNode referenced a template id that isn't registered.",
	},

	// Protocol errors (E2xx)
	"E201": {
		Category:   CategoryProtocol,
		Message:    "mutation buffer overflow",
		Detail:     "the writer ran out of space in the caller-provided buffer mid-opcode.",
		Suggestion: "size the buffer for the largest plausible patch, or flush more frequently.",
	},
	"E202": {
		Category: CategoryProtocol,
		Message:  "truncated mutation buffer",
		Detail:   "the reader reached the end of the buffer mid-opcode while decoding.",
	},
	"E203": {
		Category: CategoryProtocol,
		Message:  "unknown opcode",
		Detail:   "the reader encountered a byte outside the registered opcode table.",
	},

	// Validation errors (E3xx)
	"E301": {
		Category: CategoryValidation,
		Message:  "KEY_ENTER_CUSTOM fired for a non-Enter key",
		Detail:   "dispatch_string filters KEY_ENTER_CUSTOM handlers to only fire when the string payload is exactly \"Enter\".",
	},
}
