package roster

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// fold lowercases without locale tailoring so that "I" never becomes a
// dotless i under a Turkish page locale.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// FilterEngine decides per-record visibility from the active predicates.
// Predicates compose with AND; search is OR across name and email.
type FilterEngine struct {
	schema      Schema
	searchTerm  string
	staffFilter string
}

// NewFilterEngine returns an engine with every predicate inactive.
func NewFilterEngine(schema Schema) *FilterEngine {
	return &FilterEngine{schema: schema}
}

// SetSearchTerm replaces the free-text term. An empty term deactivates it.
func (f *FilterEngine) SetSearchTerm(term string) {
	f.searchTerm = fold(term)
}

// SetStaffFilter replaces the staff term. It is a no-op when the schema has no
// assigned staff column.
func (f *FilterEngine) SetStaffFilter(term string) {
	if !f.schema.Has(FieldAssignedStaff) {
		return
	}
	f.staffFilter = fold(term)
}

// SearchTerm returns the folded search term.
func (f *FilterEngine) SearchTerm() string {
	return f.searchTerm
}

// StaffFilter returns the folded staff term.
func (f *FilterEngine) StaffFilter() string {
	return f.staffFilter
}

// VisibilityOf evaluates every predicate against the record.
func (f *FilterEngine) VisibilityOf(record Record) bool {
	return f.matchesSearch(record) && f.matchesStaff(record)
}

func (f *FilterEngine) matchesSearch(record Record) bool {
	if f.searchTerm == "" {
		return true
	}
	return contains(record, FieldName, f.searchTerm) || contains(record, FieldEmail, f.searchTerm)
}

func (f *FilterEngine) matchesStaff(record Record) bool {
	if f.staffFilter == "" || !f.schema.Has(FieldAssignedStaff) {
		return true
	}
	return contains(record, FieldAssignedStaff, f.staffFilter)
}

// contains treats a missing field as a non-match.
func contains(record Record, field Field, term string) bool {
	v, ok := record.Value(field)
	if !ok {
		return false
	}
	return strings.Contains(fold(v), term)
}
