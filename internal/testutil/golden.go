package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// GoldenDir is the directory, relative to the package under test, holding
// golden files.
const GoldenDir = "testdata"

// GoldenString compares output against testdata/<name>.golden.
// If the GOLDEN_UPDATE environment variable is set, rewrites the golden file
// instead.
func GoldenString(t *testing.T, name, got string) {
	t.Helper()

	goldenPath := filepath.Join(GoldenDir, name+".golden")

	if os.Getenv("GOLDEN_UPDATE") != "" {
		if err := os.MkdirAll(GoldenDir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", GoldenDir, err)
		}
		if err := os.WriteFile(goldenPath, []byte(got), 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nGot:\n%s", goldenPath, err, got)
	}

	// assert.Equal prints a line diff on mismatch
	assert.Equal(t, string(want), got, "output mismatch for %s", goldenPath)
}
