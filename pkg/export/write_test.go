package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docurgent/docurgent/pkg/export"
)

func TestWrite(t *testing.T) {
	t.Run("Stdout", func(t *testing.T) {
		var buf bytes.Buffer
		if err := export.Write("", []byte("== demo (PASS)\n"), &buf); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if buf.String() != "== demo (PASS)\n" {
			t.Errorf("Expected report on stdout, got '%s'", buf.String())
		}
	})

	t.Run("New Report", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.json")
		if err := export.Write(path, []byte("[]\n"), nil); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read report: %v", err)
		}
		if string(got) != "[]\n" {
			t.Errorf("Expected '[]', got '%s'", string(got))
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != export.ReportPerm {
			t.Errorf("Expected mode %v, got %v", export.ReportPerm, info.Mode().Perm())
		}
	})

	t.Run("Replaces Previous Run", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "report.txt")
		if err := os.WriteFile(path, []byte("old run"), 0600); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		if err := export.Write(path, []byte("new run"), nil); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		got, _ := os.ReadFile(path)
		if string(got) != "new run" {
			t.Errorf("Expected 'new run', got '%s'", string(got))
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), export.TempFilePrefix) {
				t.Errorf("staging file left behind: %s", e.Name())
			}
		}
		if len(entries) != 1 {
			t.Errorf("Expected 1 file, got %d", len(entries))
		}
	})

	t.Run("Missing Directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nope", "report.txt")
		if err := export.Write(path, []byte("x"), nil); err == nil {
			t.Error("Expected error for missing directory")
		}
	})

	t.Run("Target Is A Directory", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "reports")
		if err := os.Mkdir(target, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(target, "keep"), nil, 0644); err != nil {
			t.Fatal(err)
		}

		if err := export.Write(target, []byte("x"), nil); err == nil {
			t.Error("Expected error when report path is a directory")
		}
		entries, _ := os.ReadDir(dir)
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), export.TempFilePrefix) {
				t.Errorf("staging file left behind after failure: %s", e.Name())
			}
		}
	})
}
