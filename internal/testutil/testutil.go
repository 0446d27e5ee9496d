// Package testutil provides fixtures shared by launcher and CLI tests:
// fake runtime executables and in-memory build archives.
package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteRuntimeStub writes an executable shell stub that exits successfully.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteRuntimeStub(t *testing.T, dir string, name string) {
	t.Helper()
	WriteRuntimeStubExit(t, dir, name, 0)
}

// WriteRuntimeStubExit writes an executable shell stub that exits with the provided code.
func WriteRuntimeStubExit(t *testing.T, dir string, name string, exitCode int) {
	t.Helper()
	writeStub(t, dir, name, fmt.Sprintf("#!/bin/sh\nexit %d\n", exitCode))
}

// WriteRuntimeStubOutput writes an executable shell stub that prints line on
// stdout and exits successfully.
func WriteRuntimeStubOutput(t *testing.T, dir string, name string, line string) {
	t.Helper()
	writeStub(t, dir, name, fmt.Sprintf("#!/bin/sh\necho %q\nexit 0\n", line))
}

// WriteRuntimeStubExpectArg writes an executable shell stub that succeeds only
// when expectedArg is among its arguments.
func WriteRuntimeStubExpectArg(t *testing.T, dir string, name string, expectedArg string) {
	t.Helper()
	writeStub(t, dir, name, fmt.Sprintf("#!/bin/sh\nfor arg in \"$@\"; do\n  if [ \"$arg\" = \"%s\" ]; then exit 0; fi\ndone\nexit 1\n", expectedArg))
}

func writeStub(t *testing.T, dir string, name string, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

// ZipArchive builds an in-memory zip from a name to content mapping, the same
// shape the build bucket serves for runtime archives.
func ZipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := entry.Write([]byte(files[name])); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}
