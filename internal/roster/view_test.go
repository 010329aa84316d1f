package roster

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func student(name, email string) Record {
	return NewRecord(map[Field]string{FieldName: name, FieldEmail: email})
}

func staffed(name, email, staff string) Record {
	return NewRecord(map[Field]string{FieldName: name, FieldEmail: email, FieldAssignedStaff: staff})
}

func names(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		v, _ := r.Value(FieldName)
		out = append(out, v)
	}
	return out
}

func emails(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		v, _ := r.Value(FieldEmail)
		out = append(out, v)
	}
	return out
}

func TestView_SortToggle(t *testing.T) {
	v := Init([]Record{student("Bob", "b@x"), student("Amy", "a@x")}, ModeReduced)

	require.NoError(t, v.Dispatch(Event{Kind: EventColumnActivated, Column: 0}))
	require.Equal(t, []string{"Amy", "Bob"}, names(v.Visible()))
	require.Equal(t, &SortState{Column: 0, Direction: Ascending}, v.Sort())

	require.NoError(t, v.Dispatch(Event{Kind: EventColumnActivated, Column: 0}))
	require.Equal(t, []string{"Bob", "Amy"}, names(v.Visible()))
	require.Equal(t, &SortState{Column: 0, Direction: Descending}, v.Sort())
}

func TestView_SearchAndClear(t *testing.T) {
	v := Init([]Record{student("Bob", "b@x"), student("Amy", "a@x")}, ModeReduced)

	require.NoError(t, v.Dispatch(Event{Kind: EventSearchChanged, Term: "amy"}))
	require.Equal(t, []string{"Amy"}, names(v.Visible()))

	require.NoError(t, v.Dispatch(Event{Kind: EventSearchChanged, Term: ""}))
	require.Equal(t, []string{"Bob", "Amy"}, names(v.Visible()))
}

func TestView_SearchMatchesNameOrEmail(t *testing.T) {
	records := []Record{
		student("Thandi Nkosi", "22289351@dut4life.ac.za"),
		student("Lerato Dube", "22211111@dut4life.ac.za"),
		student("Sipho Zulu", "sipho@example.com"),
	}
	v := Init(records, ModeReduced)

	cases := []struct {
		term string
		want []string
	}{
		{term: "", want: []string{"Thandi Nkosi", "Lerato Dube", "Sipho Zulu"}},
		{term: "NKOSI", want: []string{"Thandi Nkosi"}},
		{term: "dut4life", want: []string{"Thandi Nkosi", "Lerato Dube"}},
		{term: "2221", want: []string{"Lerato Dube"}},
		{term: "EXAMPLE.COM", want: []string{"Sipho Zulu"}},
		{term: "nobody", want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.term, func(t *testing.T) {
			require.NoError(t, v.Dispatch(Event{Kind: EventSearchChanged, Term: tc.term}))
			if tc.want == nil {
				require.Empty(t, v.Visible())
				return
			}
			require.Equal(t, tc.want, names(v.Visible()))
		})
	}
}

func TestView_StaffFilterElevated(t *testing.T) {
	records := []Record{
		staffed("Amy", "a@x", "John Smith"),
		staffed("Bob", "b@x", "Jane Doe"),
		staffed("Cid", "c@x", "Jane Doe, Peter SMITHERS"),
		staffed("Dee", "d@x", ""),
	}
	v := Init(records, ModeElevated)

	require.NoError(t, v.Dispatch(Event{Kind: EventStaffFilterChanged, Term: "smith"}))
	require.Equal(t, []string{"Amy", "Cid"}, names(v.Visible()))

	require.NoError(t, v.Dispatch(Event{Kind: EventStaffFilterChanged, Term: ""}))
	require.Len(t, v.Visible(), 4)
}

func TestView_StaffFilterReducedIsNoop(t *testing.T) {
	records := []Record{
		staffed("Amy", "a@x", "John Smith"),
		staffed("Bob", "b@x", "Jane Doe"),
	}
	v := Init(records, ModeReduced)
	require.False(t, v.Schema().Has(FieldAssignedStaff))

	require.NoError(t, v.Dispatch(Event{Kind: EventStaffFilterChanged, Term: "smith"}))
	require.Equal(t, "", v.Filter().StaffFilter())
	require.Len(t, v.Visible(), 2)
}

func TestView_ReducedModeDropsStaffColumnFromCustomSchema(t *testing.T) {
	v := Init(nil, ModeReduced, WithSchema(SchemaFor(ModeElevated)))
	require.Equal(t, ModeReduced, v.Mode())
	require.Equal(t, SchemaFor(ModeReduced), v.Schema())
}

func TestView_FiltersAreConjunctive(t *testing.T) {
	records := []Record{
		staffed("Amy Smith", "a@x", "Jane Doe"),
		staffed("Amy Jones", "aj@x", "John Smith"),
		staffed("Bob Smith", "b@x", "John Smith"),
	}
	v := Init(records, ModeElevated)

	require.NoError(t, v.Dispatch(Event{Kind: EventSearchChanged, Term: "amy"}))
	require.NoError(t, v.Dispatch(Event{Kind: EventStaffFilterChanged, Term: "smith"}))
	require.Equal(t, []string{"Amy Jones"}, names(v.Visible()))

	for _, row := range v.Rows() {
		search := v.Filter().matchesSearch(row.Record)
		staff := v.Filter().matchesStaff(row.Record)
		require.Equal(t, search && staff, row.Visible)
	}
}

func TestView_StableTiesInBothDirections(t *testing.T) {
	records := []Record{
		student("Sam", "first@x"),
		student("Ann", "ann@x"),
		student("  sam ", "second@x"),
		student("Zed", "zed@x"),
	}
	v := Init(records, ModeReduced)

	require.NoError(t, v.Dispatch(Event{Kind: EventColumnActivated, Column: 0}))
	require.Equal(t, []string{"ann@x", "first@x", "second@x", "zed@x"}, emails(v.Visible()))

	require.NoError(t, v.Dispatch(Event{Kind: EventColumnActivated, Column: 0}))
	require.Equal(t, []string{"zed@x", "first@x", "second@x", "ann@x"}, emails(v.Visible()))

	require.NoError(t, v.Dispatch(Event{Kind: EventColumnActivated, Column: 0}))
	require.Equal(t, []string{"ann@x", "first@x", "second@x", "zed@x"}, emails(v.Visible()))
}

func TestView_DifferentColumnResetsToAscending(t *testing.T) {
	records := []Record{student("Bob", "a@x"), student("Amy", "b@x")}
	v := Init(records, ModeReduced)

	require.NoError(t, v.Dispatch(Event{Kind: EventColumnActivated, Column: 0}))
	require.NoError(t, v.Dispatch(Event{Kind: EventColumnActivated, Column: 0}))
	require.Equal(t, Descending, v.Sort().Direction)

	require.NoError(t, v.Dispatch(Event{Kind: EventColumnActivated, Column: 1}))
	require.Equal(t, &SortState{Column: 1, Direction: Ascending}, v.Sort())
	require.Equal(t, []string{"a@x", "b@x"}, emails(v.Visible()))
}

func TestView_InvalidColumnLeavesStateUntouched(t *testing.T) {
	v := Init([]Record{student("Bob", "b@x"), student("Amy", "a@x")}, ModeReduced)
	require.NoError(t, v.Dispatch(Event{Kind: EventColumnActivated, Column: 0}))

	for _, col := range []int{-1, v.Schema().Len(), 99} {
		err := v.Dispatch(Event{Kind: EventColumnActivated, Column: col})
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidColumn))
	}
	require.Equal(t, []string{"Amy", "Bob"}, names(v.Visible()))
	require.Equal(t, &SortState{Column: 0, Direction: Ascending}, v.Sort())
}

func TestView_SortOrdersHiddenRows(t *testing.T) {
	records := []Record{student("Cat", "c@x"), student("Bob", "b@x"), student("Amy", "a@x")}
	v := Init(records, ModeReduced)

	require.NoError(t, v.Dispatch(Event{Kind: EventSearchChanged, Term: "amy"}))
	require.NoError(t, v.Dispatch(Event{Kind: EventColumnActivated, Column: 0}))
	require.Equal(t, []string{"Amy"}, names(v.Visible()))

	require.NoError(t, v.Dispatch(Event{Kind: EventSearchChanged, Term: ""}))
	require.Equal(t, []string{"Amy", "Bob", "Cat"}, names(v.Visible()))
}

func TestView_SortAndFilterCommute(t *testing.T) {
	records := []Record{
		staffed("Dan", "d@x", "Smith"),
		staffed("amy", "a@x", "Doe"),
		staffed("Cal", "c@x", "smith"),
		staffed("Bea", "b@x", "Smithers"),
	}

	filterFirst := Init(records, ModeElevated)
	require.NoError(t, filterFirst.Dispatch(Event{Kind: EventStaffFilterChanged, Term: "SMITH"}))
	require.NoError(t, filterFirst.Dispatch(Event{Kind: EventColumnActivated, Column: 0}))

	sortFirst := Init(records, ModeElevated)
	require.NoError(t, sortFirst.Dispatch(Event{Kind: EventColumnActivated, Column: 0}))
	require.NoError(t, sortFirst.Dispatch(Event{Kind: EventStaffFilterChanged, Term: "SMITH"}))

	require.Equal(t, names(filterFirst.Visible()), names(sortFirst.Visible()))
	require.Equal(t, []string{"Bea", "Cal", "Dan"}, names(sortFirst.Visible()))
}

func TestView_RowsAreIdempotent(t *testing.T) {
	v := Init([]Record{student("Bob", "b@x"), student("Amy", "a@x")}, ModeReduced)
	require.NoError(t, v.Dispatch(Event{Kind: EventSearchChanged, Term: "b"}))

	first := v.Rows()
	for i := 0; i < 3; i++ {
		require.Equal(t, first, v.Rows())
	}
	require.True(t, first[0].Visible)
	require.False(t, first[1].Visible)
	require.Equal(t, 1, first[1].Position)
	require.Equal(t, 1, first[1].Record.Position)
}

func TestView_UnknownEventIgnored(t *testing.T) {
	v := Init([]Record{student("Bob", "b@x")}, ModeReduced)
	require.NoError(t, v.Dispatch(Event{Kind: "resize"}))
	require.Nil(t, v.Sort())
	require.Len(t, v.Visible(), 1)
}

func TestFilterEngine_MissingFieldsDoNotMatch(t *testing.T) {
	f := NewFilterEngine(SchemaFor(ModeElevated))
	rec := NewRecord(map[Field]string{FieldEmail: "only@x"})

	f.SetSearchTerm("only")
	require.True(t, f.VisibilityOf(rec))

	f.SetStaffFilter("smith")
	require.False(t, f.VisibilityOf(rec))

	f.SetSearchTerm("")
	f.SetStaffFilter("")
	require.True(t, f.VisibilityOf(Record{}))
}

func TestStore_LoadStampsPositions(t *testing.T) {
	s := NewStore()
	s.Load([]Record{{Position: 7}, {Position: 7}, {Position: 7}})
	all := s.All()
	require.Equal(t, 3, s.Len())
	for i, r := range all {
		require.Equal(t, i, r.Position)
	}

	all[0].Position = 42
	require.Equal(t, 0, s.All()[0].Position)
}

func TestStore_CopiesRecordValues(t *testing.T) {
	input := []Record{NewRecord(map[Field]string{FieldName: "Alice"})}
	s := NewStore()
	s.Load(input)

	input[0].Values[FieldName] = "Eve"
	all := s.All()
	require.Equal(t, "Alice", all[0].Values[FieldName])

	all[0].Values[FieldName] = "Mallory"
	name, ok := s.All()[0].Value(FieldName)
	require.True(t, ok)
	require.Equal(t, "Alice", name)
}
