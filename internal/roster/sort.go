package roster

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ErrInvalidColumn is returned when a column index is outside the schema.
var ErrInvalidColumn = errors.New("invalid column")

// Direction of the active sort.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// SortController tracks the active column and reorders the store.
type SortController struct {
	schema    Schema
	store     *Store
	collator  *collate.Collator
	active    int
	hasActive bool
	direction Direction
}

// NewSortController returns an unsorted controller comparing keys with the
// collation rules of tag.
func NewSortController(schema Schema, store *Store, tag language.Tag) *SortController {
	return &SortController{
		schema:    schema,
		store:     store,
		collator:  collate.New(tag),
		direction: Ascending,
	}
}

// Active reports the active column and direction, if any.
func (s *SortController) Active() (int, Direction, bool) {
	if !s.hasActive {
		return 0, "", false
	}
	return s.active, s.direction, true
}

// Activate handles a header activation and returns the new record order.
// Re-activating the active column flips direction; any other column starts
// ascending. Hidden rows are ordered too.
func (s *SortController) Activate(column int) ([]Record, error) {
	if column < 0 || column >= s.schema.Len() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColumn, column)
	}

	if s.hasActive && s.active == column {
		if s.direction == Ascending {
			s.direction = Descending
		} else {
			s.direction = Ascending
		}
	} else {
		s.active = column
		s.hasActive = true
		s.direction = Ascending
	}

	ordered := s.order(s.schema.Columns[column].Field)
	s.store.reorder(ordered)
	return s.store.All(), nil
}

type keyedRecord struct {
	key    string
	record Record
}

func (s *SortController) order(field Field) []Record {
	current := s.store.All()
	keyed := make([]keyedRecord, len(current))
	for i, rec := range current {
		v, _ := rec.Value(field)
		keyed[i] = keyedRecord{key: fold(strings.TrimSpace(v)), record: rec}
	}

	sort.SliceStable(keyed, func(i, j int) bool {
		return s.collator.CompareString(keyed[i].key, keyed[j].key) < 0
	})

	if s.direction == Descending {
		keyed = s.reverseGroups(keyed)
	}

	out := make([]Record, len(keyed))
	for i, k := range keyed {
		out[i] = k.record
	}
	return out
}

// reverseGroups turns an ascending sequence into a descending one while
// keeping each run of equal keys in its ascending relative order.
func (s *SortController) reverseGroups(asc []keyedRecord) []keyedRecord {
	var groups [][]keyedRecord
	start := 0
	for i := 1; i <= len(asc); i++ {
		if i == len(asc) || s.collator.CompareString(asc[start].key, asc[i].key) != 0 {
			groups = append(groups, asc[start:i])
			start = i
		}
	}

	out := make([]keyedRecord, 0, len(asc))
	for i := len(groups) - 1; i >= 0; i-- {
		out = append(out, groups[i]...)
	}
	return out
}
