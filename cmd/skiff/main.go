package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/skiff-run/skiff-cli/internal/launch"
	"github.com/skiff-run/skiff-cli/internal/logging"
	"github.com/skiff-run/skiff-cli/internal/messages"
)

var launchFunc = runLaunch
var executeFunc = execute

// Version, Commit, and BuildDate are overridden at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

// SilentExitError reports an exit code without emitting error output.
type SilentExitError struct {
	Code int
}

func (e *SilentExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// execute runs a manager command with the provided args and output writers.
func execute(args []string, stdout io.Writer, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.Version = versionString()
	cmd.SetVersionTemplate(messages.VersionTemplate)
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

// runLaunch forwards everything but argv0 to the resolved runtime.
func runLaunch(args []string, stdout io.Writer, stderr io.Writer) error {
	cwd, err := getwd()
	if err != nil {
		return fmt.Errorf(messages.LaunchWorkingDirFmt, err)
	}
	l, err := launch.New(logging.New(false))
	if err != nil {
		return err
	}
	var runtimeArgs []string
	if len(args) > 1 {
		runtimeArgs = args[1:]
	}
	return l.Run(context.Background(), runtimeArgs, launch.Options{
		Dir:    cwd,
		Stdin:  os.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	})
}

// runMain routes manager commands to the CLI and everything else to the
// resolved runtime, exiting on fatal errors.
func runMain(args []string, stdout io.Writer, stderr io.Writer, exit func(int)) {
	if isManagerCommand(args) {
		if err := executeFunc(args, stdout, stderr); err != nil {
			fail(err, stderr, exit)
		}
		return
	}
	if err := launchFunc(args, stdout, stderr); err != nil {
		fail(err, stderr, exit)
	}
}

// fail maps err to an exit code. Runtime exits propagate silently since the
// runtime already reported on its own stderr.
func fail(err error, stderr io.Writer, exit func(int)) {
	var silent *SilentExitError
	if errors.As(err, &silent) {
		exit(silent.Code)
		return
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code <= 0 {
			code = 1
		}
		exit(code)
		return
	}
	_, _ = fmt.Fprintln(stderr, err)
	exit(1)
}

// isManagerCommand reports whether args address skiff itself rather than the
// managed runtime. Only the runtime and version commands (plus a bare
// --version) stay with the launcher; --help and everything else pass through.
func isManagerCommand(args []string) bool {
	if len(args) < 2 {
		return false
	}
	rest := args[1:]
	command := firstCommandArg(rest)
	if command == messages.RuntimeUse || command == messages.VersionUse {
		return true
	}
	return command == "" && hasVersionFlag(rest)
}

// firstCommandArg extracts the first non-flag token from root command
// arguments. A bare "--" ends the search; everything after it belongs to the
// runtime.
func firstCommandArg(args []string) string {
	for _, arg := range args {
		trimmed := strings.TrimSpace(arg)
		if trimmed == "" {
			continue
		}
		if trimmed == "--" {
			return ""
		}
		if strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return ""
}

// hasVersionFlag reports whether --version appears before any "--" separator.
func hasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--version" {
			return true
		}
	}
	return false
}

// versionString formats Version with optional commit and build date metadata.
func versionString() string {
	meta := []string{}
	if Commit != "" && Commit != "unknown" {
		meta = append(meta, fmt.Sprintf(messages.VersionCommitFmt, Commit))
	}
	if BuildDate != "" && BuildDate != "unknown" {
		meta = append(meta, fmt.Sprintf(messages.VersionBuildFmt, BuildDate))
	}
	if len(meta) == 0 {
		return Version
	}
	return fmt.Sprintf(messages.VersionFullFmt, Version, strings.Join(meta, ", "))
}
