package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Plugin and store errors (R001-R009)
	"R001": {
		Category:   CategoryConfig,
		Message:    "Missing store name",
		Suggestion: "set Config.StoreName to the name the routes store registers under",
	},
	"R002": {
		Category:   CategoryConfig,
		Message:    "Missing store event",
		Suggestion: `set Config.StoreEvent, usually "change"`,
	},
	"R003": {
		Category:   CategoryStore,
		Message:    "Store not registered",
		Suggestion: "register the store with the app before creating contexts",
	},
	"R004": {
		Category: CategoryRoute,
		Message:  "Invalid route table",
	},
	"R005": {
		Category: CategoryRoute,
		Message:  "Unknown route",
	},
	"R006": {
		Category: CategoryRoute,
		Message:  "Missing path parameter",
	},
	"R007": {
		Category:   CategoryConfig,
		Message:    "Duplicate plugin",
		Suggestion: "each plugin name may be plugged once per app",
	},
	"R008": {
		Category: CategoryStore,
		Message:  "Unhandled action",
	},
	"R009": {
		Category: CategoryProtocol,
		Message:  "Malformed dehydrated state",
	},

	// Configuration and source errors (R010-R019)
	"R010": {
		Category:   CategoryConfig,
		Message:    "Config file unreadable",
		Suggestion: "check the path passed with --config",
	},
	"R011": {
		Category: CategoryConfig,
		Message:  "Invalid config",
	},
	"R012": {
		Category: CategoryConfig,
		Message:  "Route source failed",
	},

	// Path building errors
	"R013": {
		Category:   CategoryRoute,
		Message:    "Invalid path parameter",
		Suggestion: "pass one value per :param segment; only *catch-all segments take a list",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
