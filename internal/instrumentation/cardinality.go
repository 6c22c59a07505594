package instrumentation

import "strings"

// Cardinality management helpers for metrics.
//
// Calendar names are user-chosen free text. They are only attached to
// metrics when DetailedLabels is enabled, and even then they pass through
// NormalizeCalendarLabel so that "Work", " work " and "WORK" share a series.

// maxCalendarLabelLen bounds the length of a calendar label value.
const maxCalendarLabelLen = 64

// NormalizeCalendarLabel folds a calendar name into a bounded label value.
//
// Example:
//
//	NormalizeCalendarLabel(" Work ")  // "work"
//	NormalizeCalendarLabel("")        // "unknown"
func NormalizeCalendarLabel(name string) string {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" {
		return "unknown"
	}
	if len(label) > maxCalendarLabelLen {
		label = label[:maxCalendarLabelLen]
	}
	return label
}

// Common operation types for Google API metrics.
// Status and Service constants are defined in config.go.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)
