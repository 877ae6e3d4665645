package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (L001-L009)
	// ============================================

	"L001": {Category: CategoryConfig, Message: "Invalid pool configuration"},
	"L002": {Category: CategoryConfig, Message: "Pool configuration locked"},
	"L003": {Category: CategoryConfig, Message: "Invalid runtime configuration"},
	"L004": {Category: CategoryConfig, Message: "Configuration file unreadable"},
	"L005": {Category: CategoryConfig, Message: "Export destination not configured"},

	// ============================================
	// Destructor Errors (L010-L019)
	// ============================================

	"L010": {Category: CategoryDestructor, Message: "Destructor failed"},
	"L011": {Category: CategoryDestructor, Message: "Multiple destructors failed"},
	"L012": {Category: CategoryDestructor, Message: "Destructor panicked"},

	// ============================================
	// Runtime Errors (L020-L039)
	// ============================================

	"L020": {Category: CategoryRuntime, Message: "Unknown tracked field"},
	"L021": {Category: CategoryRuntime, Message: "Scheduler iteration cap reached"},

	// ============================================
	// Hydration Errors (L040-L059)
	// ============================================

	"L040": {Category: CategoryHydration, Message: "Hydration mismatch: node kind or tag differs"},
	"L041": {Category: CategoryHydration, Message: "Hydration mismatch: text content differs"},
	"L042": {Category: CategoryHydration, Message: "Hydration mismatch: missing node"},
	"L043": {Category: CategoryHydration, Message: "Hydration mismatch: unexpected node"},
	"L044": {Category: CategoryHydration, Message: "Hydration recovered from mismatches"},
	"L045": {Category: CategoryHydration, Message: "Hydration mismatch: stale attribute"},

	// ============================================
	// Backend Errors (L060-L069)
	// ============================================

	"L060": {Category: CategoryBackend, Message: "Backend cannot walk existing nodes"},
	"L061": {Category: CategoryBackend, Message: "Backend cannot serialize nodes"},

	// ============================================
	// Routing Errors (L070-L079)
	// ============================================

	"L070": {Category: CategoryRouting, Message: "Route not found"},
	"L071": {Category: CategoryRouting, Message: "Root already mounted"},
	"L072": {Category: CategoryRouting, Message: "Root not mounted"},
	"L073": {Category: CategoryRouting, Message: "Invalid route path"},
	"L074": {Category: CategoryRuntime, Message: "Render queue closed"},
}

// GetAllCodes returns all registered error codes in sorted order.
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

// Register adds a custom error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
