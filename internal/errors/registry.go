package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Hook called outside component render",
		Detail:   "Hooks keep their state in the rendering component's owner. Call them unconditionally from a component's render function.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E001",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Hook order changed between renders",
		Detail:   "Hooks must be called in the same order on every render. Do not call hooks inside conditions or loops.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E002",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Render loop did not settle",
		Detail:   "Components kept marking each other dirty after the maximum number of render passes. An effect or render is probably writing state it also reads.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E003",
	},

	// ============================================
	// Configuration Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "A reflex Provider must be rendered above this component to use reflex hooks.",
		Detail:   "UseProducer and UseSelector read the producer from the nearest reflex.Provider. None was found between this component and the root.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E101",
	},
	"E102": {
		Category: CategoryHydration,
		Message:  "Initial state snapshot could not be merged into the producer",
		Detail:   "Hydration merges the snapshot's top-level fields over the producer state. Both must encode as JSON objects.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "The nearest reflex Provider holds a producer of a different type",
		Detail:   "The state or producer type requested by the hook does not match the producer passed to the nearest Provider.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E103",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No reflex.json was found in the given directory.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E104",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Invalid config",
		Detail:   "reflex.json could not be parsed or holds an invalid value.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E105",
	},

	// ============================================
	// Action Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryAction,
		Message:  "Unknown action",
		Detail:   "The producer has no action registered under this name.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E201",
	},
	"E202": {
		Category: CategoryAction,
		Message:  "Producer destroyed",
		Detail:   "Destroy was called on the producer; it no longer accepts dispatches.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E202",
	},

	// ============================================
	// Snapshot Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategorySnapshot,
		Message:  "Unsupported snapshot format",
		Detail:   "Snapshots are read from .json, .yaml, .yml or .toml files.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E301",
	},
	"E302": {
		Category: CategorySnapshot,
		Message:  "Snapshot not found",
		Detail:   "The snapshot file or object does not exist.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E302",
	},
	"E303": {
		Category: CategorySnapshot,
		Message:  "Snapshot could not be decoded",
		Detail:   "The snapshot must decode to a mapping of top-level state fields.",
		DocURL:   "https://vango.dev/docs/reflex/errors/E303",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
