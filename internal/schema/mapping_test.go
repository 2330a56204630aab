package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	m := Default()
	if err := m.Validate(); err != nil {
		t.Fatalf("default mapping invalid: %v", err)
	}
	for _, name := range FieldOrder {
		if _, ok := m.Field(name); !ok {
			t.Errorf("default mapping missing field %s", name)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "Minimal",
			doc: `version: 1
fields:
  - {name: week, columns: [Week]}
  - {name: class, columns: [Class]}
  - {name: hours, columns: [Hours]}
  - {name: attendance, columns: [Attendance]}
  - {name: correctness, keywords: [correct]}
`,
		},
		{
			name:    "FutureVersion",
			doc:     "version: 9\nfields: []\n",
			wantErr: "unsupported schema mapping version",
		},
		{
			name: "MissingRequired",
			doc: `version: 1
fields:
  - {name: week, columns: [Week]}
`,
			wantErr: `required field "class"`,
		},
		{
			name: "UnknownField",
			doc: `version: 1
fields:
  - {name: weather, columns: [Sky]}
`,
			wantErr: `unknown field "weather"`,
		},
		{
			name: "Duplicate",
			doc: `version: 1
fields:
  - {name: week, columns: [Week]}
  - {name: week, columns: [Date]}
`,
			wantErr: "declared twice",
		},
		{
			name: "EmptyField",
			doc: `version: 1
fields:
  - {name: week}
`,
			wantErr: "no columns or keywords",
		},
		{
			name: "BadMarker",
			doc: `version: 1
fields:
  - {name: week, columns: [Week]}
  - {name: class, columns: [Class]}
  - {name: hours, columns: [Hours]}
  - {name: attendance, columns: [Attendance]}
  - {name: correctness, columns: [Correct]}
grade_markers:
  - {marker: G7, rank: 0}
`,
			wantErr: "positive rank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_RoundTripsDefault(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	f, ok := m.Field(FieldCorrectness)
	if !ok || f.Columns[0] != "题目正确率（自学+快背）" {
		t.Errorf("correctness columns mismatch: got %v", f.Columns)
	}
	if len(m.GradeMarkers) != len(Default().GradeMarkers) {
		t.Errorf("grade markers lost: got %d", len(m.GradeMarkers))
	}
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	m, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Version != CurrentVersion {
		t.Errorf("expected version %d, got %d", CurrentVersion, m.Version)
	}
}

func TestField_Optional(t *testing.T) {
	m := Default()
	for _, name := range []string{FieldAssigned, FieldWatched, FieldCompletion} {
		f, _ := m.Field(name)
		if !f.Optional() {
			t.Errorf("%s should be optional", name)
		}
	}
	f, _ := m.Field(FieldWeek)
	if f.Optional() {
		t.Errorf("week must be required")
	}
}
