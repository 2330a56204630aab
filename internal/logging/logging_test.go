package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDir(t *testing.T) {
	t.Setenv("LOGS_FOLDER", "")

	if got := Dir("/opt/classpulse"); got != filepath.Join("/opt/classpulse", "logs") {
		t.Errorf("binary-relative dir mismatch: got %s", got)
	}
	if got := Dir(""); got != "logs" {
		t.Errorf("fallback dir mismatch: got %s", got)
	}

	t.Setenv("LOGS_FOLDER", "/var/log/classpulse")
	if got := Dir("/opt/classpulse"); got != "/var/log/classpulse" {
		t.Errorf("LOGS_FOLDER should win: got %s", got)
	}
}

func TestFileWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	if err := ensureWritable(dir); err != nil {
		t.Fatalf("ensureWritable failed: %v", err)
	}

	w := NewFileWriter(dir)
	defer w.Close()
	if _, err := w.Write([]byte("{\"message\":\"hello\"}\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}
