// Package testutil provides shared test helpers for golden file testing.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Update is a flag that, when set, regenerates golden files from current output.
// Usage: go test ./... -update
var Update = flag.Bool("update", false, "update golden files")

// RenderFunc produces the output for one golden case. dir is the case
// directory and args holds the non-empty lines of its input.txt.
type RenderFunc func(t *testing.T, dir string, args []string) string

// RunGolden runs a single golden file test in the given directory.
// It reads input.txt, applies renderFn, and compares against expected.txt.
func RunGolden(t *testing.T, dir string, renderFn RenderFunc) {
	t.Helper()

	// renderFn may change the working directory.
	dir, err := filepath.Abs(dir)
	if err != nil {
		t.Fatal(err)
	}

	inputPath := filepath.Join(dir, "input.txt")
	expectedPath := filepath.Join(dir, "expected.txt")

	inputBytes, err := os.ReadFile(inputPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", inputPath, err)
	}

	var args []string
	for line := range strings.Lines(string(inputBytes)) {
		if line = strings.TrimSpace(line); line != "" {
			args = append(args, line)
		}
	}

	actual := renderFn(t, dir, args)

	if *Update {
		if err := os.WriteFile(expectedPath, []byte(actual), 0o644); err != nil {
			t.Fatalf("failed to update golden file %s: %v", expectedPath, err)
		}
		t.Logf("updated golden file: %s", expectedPath)
		return
	}

	expectedBytes, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	expected := string(expectedBytes)
	if actual != expected {
		t.Errorf("output mismatch for %s:\n--- expected\n%s\n--- actual\n%s", dir, expected, actual)
	}
}

// RunGoldenDir walks all subdirectories under testdataDir and runs
// RunGolden for each as a subtest.
func RunGoldenDir(t *testing.T, testdataDir string, renderFn RenderFunc) {
	t.Helper()

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("failed to read testdata dir %s: %v", testdataDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		t.Run(entry.Name(), func(t *testing.T) {
			dir := filepath.Join(testdataDir, entry.Name())
			RunGolden(t, dir, renderFn)
		})
	}
}
