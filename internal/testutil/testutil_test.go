package testutil

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are unix-only")
	}
}

func TestWriteRuntimeStubCreatesExecutableThatSucceeds(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	stubPath := filepath.Join(dir, "skiff")
	WriteRuntimeStub(t, dir, "skiff")

	info, err := os.Stat(stubPath)
	if err != nil {
		t.Fatalf("stat stub: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Fatalf("expected mode 0755, got %#o", info.Mode().Perm())
	}

	if err := exec.Command(stubPath).Run(); err != nil {
		t.Fatalf("expected success exit, got %v", err)
	}
}

func TestWriteRuntimeStubExitForwardsExitCode(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	WriteRuntimeStubExit(t, dir, "skiff", 7)

	err := exec.Command(filepath.Join(dir, "skiff")).Run()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T", err)
	}
	if exitErr.ExitCode() != 7 {
		t.Fatalf("expected exit code 7, got %d", exitErr.ExitCode())
	}
}

func TestWriteRuntimeStubOutputPrintsLine(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	WriteRuntimeStubOutput(t, dir, "skiff", "runtime usage")

	out, err := exec.Command(filepath.Join(dir, "skiff")).Output()
	if err != nil {
		t.Fatalf("run stub: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "runtime usage" {
		t.Fatalf("expected stub output %q, got %q", "runtime usage", got)
	}
}

func TestWriteRuntimeStubExpectArgHonorsRequiredArg(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	stubPath := filepath.Join(dir, "skiff")
	WriteRuntimeStubExpectArg(t, dir, "skiff", "--ready")

	if err := exec.Command(stubPath, "--ready").Run(); err != nil {
		t.Fatalf("expected success with required arg, got %v", err)
	}
	if err := exec.Command(stubPath, "--missing").Run(); err == nil {
		t.Fatal("expected non-zero exit without required arg")
	}
}

func TestZipArchiveRoundTrips(t *testing.T) {
	payload := ZipArchive(t, map[string]string{
		"skiff":      "#!/bin/sh\nexit 0\n",
		"lib/std.sk": "module std\n",
	})

	reader, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	got := map[string]string{}
	for _, entry := range reader.File {
		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", entry.Name, err)
		}
		got[entry.Name] = string(content)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got["skiff"] != "#!/bin/sh\nexit 0\n" {
		t.Fatalf("unexpected skiff entry content %q", got["skiff"])
	}
	if got["lib/std.sk"] != "module std\n" {
		t.Fatalf("unexpected lib entry content %q", got["lib/std.sk"])
	}
}
