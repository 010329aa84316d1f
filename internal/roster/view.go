// Package roster implements the dashboard roster view: free-text search,
// staff filtering and column sorting over an in-memory list of student rows.
// A View is owned by a single page and is not safe for concurrent use.
package roster

import (
	"golang.org/x/text/language"
)

// EventKind identifies an input event.
type EventKind string

const (
	EventSearchChanged      EventKind = "search_changed"
	EventStaffFilterChanged EventKind = "staff_filter_changed"
	EventColumnActivated    EventKind = "column_activated"
)

// Event is one user interaction. Term is used by the filter events, Column
// by header activation.
type Event struct {
	Kind   EventKind `json:"kind"`
	Term   string    `json:"term,omitempty"`
	Column int       `json:"column,omitempty"`
}

// Row is the presentation output for one record.
type Row struct {
	Record   Record `json:"record"`
	Position int    `json:"position"`
	Visible  bool   `json:"visible"`
}

// SortState is the header indicator state.
type SortState struct {
	Column    int       `json:"column"`
	Direction Direction `json:"direction"`
}

type handlerFunc func(Event) error

// View ties the store, filter engine and sort controller together.
type View struct {
	schema   Schema
	store    *Store
	filter   *FilterEngine
	sorter   *SortController
	handlers map[EventKind]handlerFunc
}

type viewOptions struct {
	schema *Schema
	tag    language.Tag
}

// Option customizes a View.
type Option func(*viewOptions)

// WithSchema overrides the default columns for the mode. In reduced mode the
// assigned staff column is dropped regardless.
func WithSchema(schema Schema) Option {
	return func(o *viewOptions) {
		o.schema = &schema
	}
}

// WithLanguage sets the collation language for sorting.
func WithLanguage(tag language.Tag) Option {
	return func(o *viewOptions) {
		o.tag = tag
	}
}

// Init builds a view over records for the given privilege mode.
func Init(records []Record, mode Mode, opts ...Option) *View {
	o := viewOptions{tag: language.English}
	for _, opt := range opts {
		opt(&o)
	}

	schema := SchemaFor(mode)
	if o.schema != nil {
		schema = *o.schema
	}
	if mode != ModeElevated {
		schema = schema.without(FieldAssignedStaff)
	}

	store := NewStore()
	store.Load(records)

	v := &View{
		schema: schema,
		store:  store,
		filter: NewFilterEngine(schema),
		sorter: NewSortController(schema, store, o.tag),
	}
	v.handlers = map[EventKind]handlerFunc{
		EventSearchChanged: func(e Event) error {
			v.filter.SetSearchTerm(e.Term)
			return nil
		},
		EventStaffFilterChanged: func(e Event) error {
			v.filter.SetStaffFilter(e.Term)
			return nil
		},
		EventColumnActivated: func(e Event) error {
			_, err := v.sorter.Activate(e.Column)
			return err
		},
	}
	return v
}

// Dispatch routes an event to its handler. Unknown kinds are ignored.
func (v *View) Dispatch(e Event) error {
	h, ok := v.handlers[e.Kind]
	if !ok {
		return nil
	}
	return h(e)
}

// Schema returns the columns of this view.
func (v *View) Schema() Schema {
	return v.schema
}

// Mode returns the privilege mode of this view.
func (v *View) Mode() Mode {
	return v.schema.Mode()
}

// Filter exposes the filter engine.
func (v *View) Filter() *FilterEngine {
	return v.filter
}

// Sorter exposes the sort controller.
func (v *View) Sorter() *SortController {
	return v.sorter
}

// Rows returns every record in display order with its visibility.
func (v *View) Rows() []Row {
	records := v.store.All()
	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row{Record: rec, Position: i, Visible: v.filter.VisibilityOf(rec)}
	}
	return rows
}

// Visible returns only the visible records, in display order.
func (v *View) Visible() []Record {
	var out []Record
	for _, rec := range v.store.All() {
		if v.filter.VisibilityOf(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Sort returns the active sort indicator, or nil when unsorted.
func (v *View) Sort() *SortState {
	col, dir, ok := v.sorter.Active()
	if !ok {
		return nil
	}
	return &SortState{Column: col, Direction: dir}
}
