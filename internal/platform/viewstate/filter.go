package viewstate

import "strings"

// FilterSpec is a conjunction of predicates applied to the cached collection
// without a network round-trip. Zero-valued fields are inactive. Filtering is
// pure: the same spec over the same items always yields the same subsequence,
// order preserved.
type FilterSpec struct {
	// Date matches items whose date/time field starts with this value
	// (YYYY-MM-DD against an ISO timestamp).
	Date string
	// Status matches the item's status enumeration. "" and "all" match
	// everything.
	Status string
	// Search is a case-insensitive substring matched over the item's
	// searchable fields.
	Search string
}

// IsZero reports whether no predicate is active.
func (f FilterSpec) IsZero() bool {
	return f.Date == "" && (f.Status == "" || f.Status == "all") && f.Search == ""
}

// Matcher decides whether one item satisfies an active FilterSpec. It is
// only consulted for non-zero specs.
type Matcher[T any] func(item T, f FilterSpec) bool

// ContainsFold reports whether any of fields contains sub, ignoring case.
// The usual building block for the Search predicate.
func ContainsFold(sub string, fields ...string) bool {
	sub = strings.ToLower(sub)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), sub) {
			return true
		}
	}
	return false
}

// StatusMatches reports whether the item status satisfies the filter status.
func StatusMatches(filter, status string) bool {
	return filter == "" || filter == "all" || filter == status
}

// DateMatches reports whether the timestamp falls on the filter date.
func DateMatches(filter, timestamp string) bool {
	return filter == "" || strings.HasPrefix(timestamp, filter)
}
