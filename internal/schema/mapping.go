package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the newest mapping file version this build understands.
const CurrentVersion = 1

// Logical field names.
const (
	FieldWeek        = "week"
	FieldClass       = "class"
	FieldHours       = "hours"
	FieldAttendance  = "attendance"
	FieldCorrectness = "correctness"
	FieldAssigned    = "assigned_minutes"
	FieldWatched     = "watched_minutes"
	FieldCompletion  = "completion"
)

// FieldOrder is the resolution order. Keyword fallback claims columns in this order.
var FieldOrder = []string{
	FieldWeek,
	FieldClass,
	FieldHours,
	FieldAttendance,
	FieldCorrectness,
	FieldAssigned,
	FieldWatched,
	FieldCompletion,
}

var optionalFields = map[string]bool{
	FieldAssigned:   true,
	FieldWatched:    true,
	FieldCompletion: true,
}

// Field maps one logical field to the physical headers that may carry it.
type Field struct {
	Name     string   `yaml:"name"`
	Columns  []string `yaml:"columns"`            // exact header names, first match wins
	Keywords []string `yaml:"keywords,omitempty"` // substring fallback
}

// Optional reports whether a missing column is zero-filled instead of rejected.
func (f Field) Optional() bool {
	return optionalFields[f.Name]
}

// GradeMarker ties a label fragment to a numeric grade used by natural ordering.
type GradeMarker struct {
	Marker string `yaml:"marker"`
	Rank   int    `yaml:"rank"`
}

// Mapping is the versioned schema configuration handed to the engine.
type Mapping struct {
	Version      int           `yaml:"version"`
	Fields       []Field       `yaml:"fields"`
	GradeMarkers []GradeMarker `yaml:"grade_markers"`
}

// Default returns the mapping used by the reference deployment (Chinese headers
// with English aliases).
func Default() Mapping {
	return Mapping{
		Version: CurrentVersion,
		Fields: []Field{
			{Name: FieldWeek, Columns: []string{"周", "week"}, Keywords: []string{"周次", "week"}},
			{Name: FieldClass, Columns: []string{"班级名称", "class"}, Keywords: []string{"班级", "class"}},
			{Name: FieldHours, Columns: []string{"课时数", "hours"}, Keywords: []string{"课时数", "hours"}},
			{Name: FieldAttendance, Columns: []string{"课时平均出勤率", "attendance"}, Keywords: []string{"出勤", "attendance"}},
			{Name: FieldCorrectness, Columns: []string{"题目正确率（自学+快背）", "correctness"}, Keywords: []string{"正确率", "correct"}},
			{Name: FieldAssigned, Columns: []string{"老师布置课时总时长（分钟）", "assigned_minutes"}, Keywords: []string{"布置", "assigned"}},
			{Name: FieldWatched, Columns: []string{"学生观看AI课堂课时微课总时长(分钟)", "watched_minutes"}, Keywords: []string{"观看", "watched"}},
			{Name: FieldCompletion, Columns: []string{"微课完成率", "completion"}, Keywords: []string{"完成率", "completion"}},
		},
		GradeMarkers: []GradeMarker{
			{Marker: "初一", Rank: 7},
			{Marker: "初二", Rank: 8},
			{Marker: "初三", Rank: 9},
			{Marker: "高一", Rank: 10},
			{Marker: "七", Rank: 7},
			{Marker: "八", Rank: 8},
			{Marker: "九", Rank: 9},
			{Marker: "十", Rank: 10},
		},
	}
}

// Load reads a YAML mapping file. An empty path yields Default().
func Load(path string) (Mapping, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("failed to read schema mapping: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML mapping document.
func Parse(data []byte) (Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Mapping{}, fmt.Errorf("failed to parse schema mapping: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Mapping{}, err
	}
	return m, nil
}

// Marshal renders the mapping as YAML.
func (m Mapping) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// Field looks up a logical field by name.
func (m Mapping) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks the mapping eagerly so that bad configuration fails before any
// dataset is touched.
func (m Mapping) Validate() error {
	if m.Version < 1 || m.Version > CurrentVersion {
		return fmt.Errorf("unsupported schema mapping version %d (supported: 1..%d)", m.Version, CurrentVersion)
	}

	known := make(map[string]bool, len(FieldOrder))
	for _, name := range FieldOrder {
		known[name] = true
	}

	seen := make(map[string]bool, len(m.Fields))
	for _, f := range m.Fields {
		if !known[f.Name] {
			return fmt.Errorf("schema mapping: unknown field %q", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema mapping: field %q declared twice", f.Name)
		}
		seen[f.Name] = true

		if len(f.Columns) == 0 && len(f.Keywords) == 0 {
			return fmt.Errorf("schema mapping: field %q has no columns or keywords", f.Name)
		}
		for _, c := range append(append([]string{}, f.Columns...), f.Keywords...) {
			if strings.TrimSpace(c) == "" {
				return fmt.Errorf("schema mapping: field %q has a blank column name", f.Name)
			}
		}
	}

	for _, name := range FieldOrder {
		if !seen[name] && !optionalFields[name] {
			return fmt.Errorf("schema mapping: required field %q is not mapped", name)
		}
	}

	for _, g := range m.GradeMarkers {
		if strings.TrimSpace(g.Marker) == "" {
			return fmt.Errorf("schema mapping: blank grade marker")
		}
		if g.Rank <= 0 {
			return fmt.Errorf("schema mapping: grade marker %q needs a positive rank", g.Marker)
		}
	}

	return nil
}
