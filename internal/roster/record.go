package roster

// Field names a display cell of a roster row.
type Field string

const (
	FieldName          Field = "name"
	FieldEmail         Field = "email"
	FieldStudentNumber Field = "student_number"
	FieldCourse        Field = "course"
	FieldFaculty       Field = "faculty"
	FieldYearOfStudy   Field = "year_of_study"
	FieldAssignedStaff Field = "assigned_staff"
)

// Mode is the privilege signal supplied by the surrounding page.
type Mode string

const (
	ModeReduced  Mode = "reduced"
	ModeElevated Mode = "elevated"
)

// Column describes one header cell in display order.
type Column struct {
	Field Field  `json:"field"`
	Title string `json:"title"`
}

// Schema is the fixed, ordered column set of a view instance.
type Schema struct {
	Columns []Column `json:"columns"`
}

var baseColumns = []Column{
	{Field: FieldName, Title: "Name"},
	{Field: FieldEmail, Title: "Email"},
	{Field: FieldStudentNumber, Title: "Student Number"},
	{Field: FieldCourse, Title: "Course"},
	{Field: FieldFaculty, Title: "Faculty"},
}

// SchemaFor returns the dashboard columns for a privilege mode. Only the
// elevated schema carries the assigned staff column.
func SchemaFor(mode Mode) Schema {
	cols := append([]Column{}, baseColumns...)
	if mode == ModeElevated {
		cols = append(cols, Column{Field: FieldAssignedStaff, Title: "Assigned Staff"})
	}
	return Schema{Columns: cols}
}

// Len returns the number of columns.
func (s Schema) Len() int {
	return len(s.Columns)
}

// Has reports whether the schema carries the field.
func (s Schema) Has(field Field) bool {
	for _, col := range s.Columns {
		if col.Field == field {
			return true
		}
	}
	return false
}

// Mode derives the privilege mode from the column set.
func (s Schema) Mode() Mode {
	if s.Has(FieldAssignedStaff) {
		return ModeElevated
	}
	return ModeReduced
}

func (s Schema) without(field Field) Schema {
	cols := make([]Column, 0, len(s.Columns))
	for _, col := range s.Columns {
		if col.Field != field {
			cols = append(cols, col)
		}
	}
	return Schema{Columns: cols}
}

// Record is one roster row. Position is the original insertion index and is
// the only identity a record has.
type Record struct {
	Position int              `json:"position"`
	Values   map[Field]string `json:"values"`
}

// NewRecord builds a record from field values.
func NewRecord(values map[Field]string) Record {
	return Record{Values: values}
}

// Value returns the cell text for a field.
func (r Record) Value(field Field) (string, bool) {
	if r.Values == nil {
		return "", false
	}
	v, ok := r.Values[field]
	return v, ok
}

// Store holds the records in their current display order.
type Store struct {
	records []Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

func (r Record) clone() Record {
	values := make(map[Field]string, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return Record{Position: r.Position, Values: values}
}

// Load captures the initial order, stamping each record with its position.
// The store keeps its own copy of every record.
func (s *Store) Load(rows []Record) {
	s.records = make([]Record, len(rows))
	for i, row := range rows {
		row = row.clone()
		row.Position = i
		s.records[i] = row
	}
}

// All returns copies of the records in current order. Changes to the result
// never reach the store.
func (s *Store) All() []Record {
	out := make([]Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.clone()
	}
	return out
}

// Len returns the record count.
func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) reorder(records []Record) {
	s.records = records
}

// Feed is the payload the dashboard page receives: every record, unfiltered,
// with the columns for the viewer's privilege mode. Language is a BCP 47 tag
// for the sort collation.
type Feed struct {
	Mode     Mode     `json:"mode"`
	Schema   Schema   `json:"schema"`
	Language string   `json:"language,omitempty"`
	Records  []Record `json:"records"`
}
