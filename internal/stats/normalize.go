package stats

import (
	"strings"

	"classpulse/internal/dataset"
	"classpulse/internal/schema"
)

// Ways a field can be matched to a column.
const (
	MatchExact   = "exact"
	MatchKeyword = "keyword"
	MatchAbsent  = "absent"
)

// ColumnMatch records how one logical field was resolved.
type ColumnMatch struct {
	Field  string `json:"field"`
	Column string `json:"column,omitempty"`
	Index  int    `json:"index"` // -1 when absent
	Via    string `json:"via"`
}

// Resolution maps every logical field to a column index, in schema.FieldOrder.
type Resolution struct {
	Matches []ColumnMatch `json:"matches"`
}

// Index returns the column index of a field, or -1.
func (r Resolution) Index(field string) int {
	for _, m := range r.Matches {
		if m.Field == field {
			return m.Index
		}
	}
	return -1
}

// Dataset is the normaliser output.
type Dataset struct {
	Records    []Record
	Dropped    int // rows without a parseable week or a class name
	Resolution Resolution
}

// ResolveColumns matches logical fields to headers. Exact names are claimed first
// for every field; keyword (substring) fallback then runs in field order and never
// takes a column already claimed. All missing required fields are reported at once.
func ResolveColumns(columns []string, m schema.Mapping) (Resolution, error) {
	claimed := make(map[int]bool, len(columns))
	matches := make(map[string]ColumnMatch, len(schema.FieldOrder))

	for _, name := range schema.FieldOrder {
		f, ok := m.Field(name)
		if !ok {
			continue
		}
		for _, want := range f.Columns {
			if idx := findExact(columns, want, claimed); idx >= 0 {
				claimed[idx] = true
				matches[name] = ColumnMatch{Field: name, Column: columns[idx], Index: idx, Via: MatchExact}
				break
			}
		}
	}

	for _, name := range schema.FieldOrder {
		if _, done := matches[name]; done {
			continue
		}
		f, ok := m.Field(name)
		if !ok {
			continue
		}
		for _, kw := range f.Keywords {
			if idx := findKeyword(columns, kw, claimed); idx >= 0 {
				claimed[idx] = true
				matches[name] = ColumnMatch{Field: name, Column: columns[idx], Index: idx, Via: MatchKeyword}
				break
			}
		}
	}

	var res Resolution
	var missing []FieldError
	for _, name := range schema.FieldOrder {
		if cm, ok := matches[name]; ok {
			res.Matches = append(res.Matches, cm)
			continue
		}
		res.Matches = append(res.Matches, ColumnMatch{Field: name, Index: -1, Via: MatchAbsent})

		f, _ := m.Field(name)
		if (schema.Field{Name: name}).Optional() {
			continue
		}
		missing = append(missing, FieldError{
			Field:    name,
			Accepted: append(append([]string{}, f.Columns...), f.Keywords...),
		})
	}

	if len(missing) > 0 {
		return res, &SchemaError{Missing: missing}
	}
	return res, nil
}

func findExact(columns []string, want string, claimed map[int]bool) int {
	want = strings.TrimSpace(want)
	for i, c := range columns {
		if !claimed[i] && strings.EqualFold(strings.TrimSpace(c), want) {
			return i
		}
	}
	return -1
}

func findKeyword(columns []string, kw string, claimed map[int]bool) int {
	kw = strings.ToLower(strings.TrimSpace(kw))
	for i, c := range columns {
		if !claimed[i] && strings.Contains(strings.ToLower(c), kw) {
			return i
		}
	}
	return -1
}

var numericFields = []string{
	schema.FieldHours,
	schema.FieldAttendance,
	schema.FieldCorrectness,
	schema.FieldAssigned,
	schema.FieldWatched,
	schema.FieldCompletion,
}

// Normalize resolves the columns of t and returns cleaned records. Rows whose
// week does not parse (or that have no class name) are dropped; blank numeric
// cells and absent optional columns become zero. t is not modified.
func Normalize(t dataset.Table, m schema.Mapping) (Dataset, error) {
	res, err := ResolveColumns(t.Columns, m)
	if err != nil {
		return Dataset{}, err
	}

	weekIdx := res.Index(schema.FieldWeek)
	classIdx := res.Index(schema.FieldClass)

	ds := Dataset{
		Records:    make([]Record, 0, len(t.Rows)),
		Resolution: res,
	}

	for i, row := range t.Rows {
		week, ok := parseWeek(cell(row, weekIdx))
		if !ok {
			ds.Dropped++
			continue
		}
		class := strings.TrimSpace(cell(row, classIdx))
		if class == "" {
			ds.Dropped++
			continue
		}

		rec := Record{Class: class, Week: week}
		for _, field := range numericFields {
			idx := res.Index(field)
			if idx < 0 {
				continue
			}
			raw := cell(row, idx)
			v, err := parseNumber(raw)
			if err != nil {
				return Dataset{}, &AggregationError{Row: t.Line(i), Column: t.Columns[idx], Value: raw, Err: err}
			}
			setField(&rec, field, v)
		}
		ds.Records = append(ds.Records, rec)
	}

	if len(ds.Records) == 0 {
		return Dataset{}, &EmptyDatasetError{Reason: "no rows with a parseable week", Dropped: ds.Dropped}
	}
	return ds, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func setField(r *Record, field string, v float64) {
	switch field {
	case schema.FieldHours:
		r.Hours = v
	case schema.FieldAttendance:
		r.Attendance = v
	case schema.FieldCorrectness:
		r.Correctness = v
	case schema.FieldAssigned:
		r.AssignedMinutes = v
	case schema.FieldWatched:
		r.WatchedMinutes = v
	case schema.FieldCompletion:
		r.Completion = v
	}
}
