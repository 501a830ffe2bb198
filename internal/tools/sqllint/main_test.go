package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGo(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLintAcceptsMarkedQueries(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "q.go", "package q\n\nconst QListPools = `\n--sql 0b4c8b7e-6f0e-4d63-9f1c-3a2c1b0f9e11\nSELECT id FROM pools`\n\nconst label = \"selected pools\"\n")

	l := newLinter()
	if err := l.lintPaths([]string{dir}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if l.report(&buf) {
		t.Fatalf("unexpected violations:\n%s", buf.String())
	}
}

func TestLintFlagsMissingAndDuplicateMarkers(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, dir, "a.go", "package q\n\nconst QA = `\n--sql 0b4c8b7e-6f0e-4d63-9f1c-3a2c1b0f9e11\nSELECT 1`\n")
	writeGo(t, dir, "b.go", "package q\n\nconst (\n\tQB = `\n--sql 0b4c8b7e-6f0e-4d63-9f1c-3a2c1b0f9e11\nUPDATE pools SET name = 'x'`\n\tQC = \"DELETE FROM pools\"\n)\n")

	l := newLinter()
	if err := l.lintPaths([]string{dir}); err != nil {
		t.Fatal(err)
	}
	if len(l.violations) != 2 {
		t.Fatalf("violations = %+v, want 2", l.violations)
	}

	var buf bytes.Buffer
	if !l.report(&buf) {
		t.Fatal("report() = false, want true")
	}
	out := buf.String()
	if !strings.Contains(out, "duplicate marker, first used by QA") {
		t.Fatalf("missing duplicate report:\n%s", out)
	}
	if !strings.Contains(out, "missing or invalid --sql <uuid> marker (QC)") {
		t.Fatalf("missing marker report:\n%s", out)
	}
}

func TestLintRepositorySQL(t *testing.T) {
	l := newLinter()
	if err := l.lintPaths([]string{filepath.Join("..", "..", "sqlinline")}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if l.report(&buf) {
		t.Fatalf("sqlinline violations:\n%s", buf.String())
	}
}
