package stats

import (
	"errors"
	"strings"
	"testing"
	"time"

	"classpulse/internal/dataset"
	"classpulse/internal/schema"
)

var referenceColumns = []string{
	"周", "班级名称", "课时数", "课时平均出勤率", "题目正确率（自学+快背）",
	"老师布置课时总时长（分钟）", "学生观看AI课堂课时微课总时长(分钟)", "微课完成率",
}

func TestResolveColumns_Exact(t *testing.T) {
	res, err := ResolveColumns(referenceColumns, schema.Default())
	if err != nil {
		t.Fatalf("ResolveColumns failed: %v", err)
	}
	for i, name := range schema.FieldOrder {
		m := res.Matches[i]
		if m.Field != name || m.Index != i || m.Via != MatchExact {
			t.Errorf("field %s: got %+v", name, m)
		}
	}
}

func TestResolveColumns_KeywordFallback(t *testing.T) {
	columns := []string{"班级", "周次", "本周课时数", "平均出勤率", "正确率(%)"}
	res, err := ResolveColumns(columns, schema.Default())
	if err != nil {
		t.Fatalf("ResolveColumns failed: %v", err)
	}

	expect := map[string]int{
		schema.FieldWeek:        1,
		schema.FieldClass:       0,
		schema.FieldHours:       2,
		schema.FieldAttendance:  3,
		schema.FieldCorrectness: 4,
		schema.FieldAssigned:    -1,
		schema.FieldWatched:     -1,
		schema.FieldCompletion:  -1,
	}
	for field, idx := range expect {
		if got := res.Index(field); got != idx {
			t.Errorf("field %s: expected column %d, got %d", field, idx, got)
		}
	}
}

func TestResolveColumns_ExactBeatsKeyword(t *testing.T) {
	// Exact names are claimed before any keyword scan runs.
	columns := []string{"课时数", "课时平均出勤率", "周", "班级名称", "correctness"}
	res, err := ResolveColumns(columns, schema.Default())
	if err != nil {
		t.Fatalf("ResolveColumns failed: %v", err)
	}
	if res.Index(schema.FieldHours) != 0 || res.Index(schema.FieldAttendance) != 1 {
		t.Errorf("unexpected resolution: %+v", res.Matches)
	}
}

func TestResolveColumns_ReportsAllMissing(t *testing.T) {
	_, err := ResolveColumns([]string{"周", "Something"}, schema.Default())

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(schemaErr.Missing) != 4 {
		t.Fatalf("expected 4 missing fields, got %+v", schemaErr.Missing)
	}
	if schemaErr.Missing[0].Field != schema.FieldClass {
		t.Errorf("expected class reported first, got %s", schemaErr.Missing[0].Field)
	}
}

func TestNormalize(t *testing.T) {
	table := dataset.Table{
		Columns: []string{"周", "班级名称", "课时数", "课时平均出勤率", "题目正确率（自学+快背）", "微课完成率"},
		Rows: [][]string{
			{"2024-09-02", "初一3班", "10", "0.9", "0.8", "85%"},
			{"not a date", "初一3班", "10", "0.9", "0.8", "0.5"},
			{"45544", " 初一10班 ", "1,200", "", "0.7", ""},
			{"2024/9/9", "", "3", "0.5", "0.5", "0.5"},
			{"2024年9月9日", "初二1班", "4", "0.6", "0.6", "0.6"},
		},
	}
	before := table.Clone()

	ds, err := Normalize(table, schema.Default())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if ds.Dropped != 2 {
		t.Errorf("Expected 2 dropped rows, got %d", ds.Dropped)
	}
	if len(ds.Records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(ds.Records))
	}

	r0 := ds.Records[0]
	if !r0.Week.Equal(time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week mismatch: got %v", r0.Week)
	}
	if r0.Completion < 0.8499 || r0.Completion > 0.8501 {
		t.Errorf("percent completion not scaled: got %v", r0.Completion)
	}
	if r0.AssignedMinutes != 0 || r0.WatchedMinutes != 0 {
		t.Errorf("absent optional columns not zero-filled: %+v", r0)
	}

	r1 := ds.Records[1]
	if r1.Class != "初一10班" {
		t.Errorf("class not trimmed: %q", r1.Class)
	}
	if !r1.Week.Equal(time.Date(2024, 9, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("excel serial week mismatch: got %v", r1.Week)
	}
	if r1.Hours != 1200 || r1.Attendance != 0 {
		t.Errorf("numeric coercion mismatch: %+v", r1)
	}

	if !ds.Records[2].Week.Equal(r1.Week) {
		t.Errorf("chinese date mismatch: got %v", ds.Records[2].Week)
	}

	if table.Rows[2][1] != before.Rows[2][1] || len(table.Rows) != len(before.Rows) {
		t.Errorf("input table was modified")
	}
}

func TestNormalize_AllWeeksInvalid(t *testing.T) {
	table := dataset.Table{
		Columns: referenceColumns,
		Rows: [][]string{
			{"??", "A", "1", "1", "1", "", "", ""},
			{"", "B", "1", "1", "1", "", "", ""},
		},
	}

	_, err := Normalize(table, schema.Default())
	var emptyErr *EmptyDatasetError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected EmptyDatasetError, got %v", err)
	}
	if emptyErr.Dropped != 2 {
		t.Errorf("expected 2 dropped rows, got %d", emptyErr.Dropped)
	}
}

func TestNormalize_NonNumeric(t *testing.T) {
	table := dataset.Table{
		Columns: referenceColumns,
		Rows: [][]string{
			{"2024-09-02", "A", "ten", "1", "1", "", "", ""},
		},
	}

	_, err := Normalize(table, schema.Default())
	var aggErr *AggregationError
	if !errors.As(err, &aggErr) {
		t.Fatalf("expected AggregationError, got %v", err)
	}
	// Without line information the header is assumed to be row 1.
	if aggErr.Row != 2 || aggErr.Column != "课时数" || aggErr.Value != "ten" {
		t.Errorf("unexpected error detail: %+v", aggErr)
	}
}

func TestNormalize_NonNumericReportsSourceRow(t *testing.T) {
	// Header on row 3, a blank row skipped between the two data rows.
	table := dataset.Table{
		Columns: referenceColumns,
		Rows: [][]string{
			{"2024-09-02", "A", "1", "1", "1", "", "", ""},
			{"2024-09-02", "B", "1", "high", "1", "", "", ""},
		},
		Lines: []int{4, 6},
	}

	_, err := Normalize(table, schema.Default())
	var aggErr *AggregationError
	if !errors.As(err, &aggErr) {
		t.Fatalf("expected AggregationError, got %v", err)
	}
	if aggErr.Row != 6 || aggErr.Column != "课时平均出勤率" {
		t.Errorf("unexpected error detail: %+v", aggErr)
	}
	if !strings.Contains(err.Error(), "spreadsheet row 6") {
		t.Errorf("error should name the spreadsheet row: %v", err)
	}
}

func TestNormalize_SmallNumberIsNotAWeek(t *testing.T) {
	table := dataset.Table{
		Columns: referenceColumns,
		Rows: [][]string{
			{"3", "A", "1", "1", "1", "", "", ""},
			{"2024-09-02", "A", "2", "1", "1", "", "", ""},
		},
	}

	ds, err := Normalize(table, schema.Default())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if ds.Dropped != 1 || len(ds.Records) != 1 {
		t.Fatalf("expected 1 record and 1 dropped row, got %d and %d", len(ds.Records), ds.Dropped)
	}
	if !ds.Records[0].Week.Equal(time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week mismatch: got %v", ds.Records[0].Week)
	}
}

func TestParseWeek(t *testing.T) {
	want := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2024-09-02", "2024-9-2", "2024/09/02", "2024.9.2", "2024年9月2日",
		"2024-09-02 00:00:00", "2024-09-02T08:30:00", "2024-09-02T08:30:00+08:00",
		"9/2/2024", "45537",
	} {
		got, ok := parseWeek(in)
		if !ok || !got.Equal(want) {
			t.Errorf("parseWeek(%q) = %v, %v", in, got, ok)
		}
	}

	for _, in := range []string{"", "week 1", "NaT", "-3", "3", "36525"} {
		if _, ok := parseWeek(in); ok {
			t.Errorf("parseWeek(%q) should fail", in)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{" 12 ", 12, false},
		{"1,234.5", 1234.5, false},
		{"50%", 0.5, false},
		{"NaN", 0, true},
		{"Inf", 0, true},
		{"n/a", 0, true},
	}
	for _, tt := range tests {
		got, err := parseNumber(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseNumber(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
