// Package launch resolves the runtime version for a working directory,
// provisions it on demand, and hands execution over to the installed binary.
//
// Manager commands (skiff runtime ...) never pass through here; every other
// invocation is forwarded verbatim to the resolved runtime.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/skiff-run/skiff-cli/internal/catalog"
	"github.com/skiff-run/skiff-cli/internal/install"
	"github.com/skiff-run/skiff-cli/internal/manifest"
	"github.com/skiff-run/skiff-cli/internal/messages"
	"github.com/skiff-run/skiff-cli/internal/resolve"
	"github.com/skiff-run/skiff-cli/internal/settings"
	"github.com/skiff-run/skiff-cli/internal/version"
)

// execFunc replaces the current process with the runtime binary on platforms
// that support exec. Tests override it to capture the handoff.
var execFunc = execRuntime

// Options configures a single launch.
type Options struct {
	// Dir is the working directory used for manifest discovery.
	Dir string
	// Stdin, Stdout, and Stderr are wired to the runtime when it runs as a
	// child process rather than replacing this one.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Launcher wires the catalog, the install manager, and the resolver for one
// invocation.
type Launcher struct {
	Catalog *catalog.Client
	Manager *install.Manager

	resolver *resolve.Resolver
	log      *zap.Logger
}

// New builds a Launcher over the default directories, honoring the usual
// environment overrides.
func New(log *zap.Logger) (*Launcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dir, err := install.DefaultDir()
	if err != nil {
		return nil, err
	}
	cat := catalog.NewClient(log)
	mgr := install.NewManager(dir, log)
	return &Launcher{
		Catalog:  cat,
		Manager:  mgr,
		resolver: resolve.NewResolver(cat, mgr, log),
		log:      log,
	}, nil
}

// ResolveFor resolves the runtime version that applies to dir: the manifest
// requirement when one is present, otherwise the saved default, otherwise the
// newest stable release (falling back to nightlies on a stable-free catalog).
func (l *Launcher) ResolveFor(ctx context.Context, dir string) (catalog.RuntimeVersion, error) {
	s, err := settings.Load()
	if err != nil {
		return catalog.RuntimeVersion{}, err
	}
	m, err := manifest.Load(dir)
	if err != nil {
		return catalog.RuntimeVersion{}, err
	}
	req, err := m.Requirement()
	if err != nil {
		return catalog.RuntimeVersion{}, err
	}
	rv, err := l.resolver.ResolveCurrent(ctx, s, req)
	if errors.Is(err, resolve.ErrNoDefaultSet) {
		return l.resolver.ResolveLatestForTrain(ctx, version.Stable, true)
	}
	return rv, err
}

// LatestForTrain returns the newest catalog release on train.
func (l *Launcher) LatestForTrain(ctx context.Context, train version.Train, fallbackToNightly bool) (catalog.RuntimeVersion, error) {
	return l.resolver.ResolveLatestForTrain(ctx, train, fallbackToNightly)
}

// Provision installs rv when it is missing. Resolution hits on the default
// or an installed version carry no build list, so a missing install triggers
// one catalog refetch for the full artifact set before giving up.
func (l *Launcher) Provision(ctx context.Context, rv catalog.RuntimeVersion) (catalog.RuntimeVersion, error) {
	_, err := l.Manager.EnsureInstalled(ctx, rv)
	if err == nil {
		return rv, nil
	}
	if !install.IsNoBuildForOSError(err) || len(rv.Builds) > 0 {
		return rv, err
	}
	full, fetchErr := l.Catalog.GetVersion(ctx, rv.Version.String())
	if fetchErr != nil {
		return rv, err
	}
	if _, err := l.Manager.EnsureInstalled(ctx, full); err != nil {
		return full, err
	}
	return full, nil
}

// Run resolves the runtime for opts.Dir, installs it if needed, and runs it
// with args. A plain run replaces the skiff process entirely; --help runs,
// and every run on Windows, spawn a child so skiff regains control
// afterwards. A non-zero runtime exit surfaces as *exec.ExitError.
func (l *Launcher) Run(ctx context.Context, args []string, opts Options) error {
	rv, err := l.ResolveFor(ctx, opts.Dir)
	if err != nil {
		return err
	}
	rv, err = l.Provision(ctx, rv)
	if err != nil {
		return err
	}
	exePath := l.Manager.ExePath(rv.Version)
	l.log.Debug("launching runtime",
		zap.String("version", rv.Version.String()),
		zap.String("path", exePath))

	if wantsHelp(args) {
		if err := spawn(ctx, exePath, args, opts); err != nil {
			return err
		}
		printHelpFooter(opts.Stdout)
		return nil
	}
	if runtime.GOOS == "windows" {
		return spawn(ctx, exePath, args, opts)
	}
	argv := append([]string{exePath}, args...)
	if err := execFunc(exePath, argv, os.Environ()); err != nil {
		return fmt.Errorf(messages.LaunchExecFmt, rv.Version, err)
	}
	return nil
}

// spawn runs the runtime as a child process with the invocation's stdio.
func spawn(ctx context.Context, exePath string, args []string, opts Options) error {
	run := exec.CommandContext(ctx, exePath, args...)
	run.Stdin = opts.Stdin
	run.Stdout = opts.Stdout
	run.Stderr = opts.Stderr
	return run.Run()
}

// wantsHelp reports whether args ask the runtime for help. Arguments after a
// bare "--" belong to the launched program and are not inspected.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}

// printHelpFooter appends the launcher's own commands to the runtime's help
// output.
func printHelpFooter(w io.Writer) {
	if w == nil {
		return
	}
	heading := color.New(color.FgWhite, color.Bold, color.Underline)
	entry := color.New(color.FgWhite, color.Bold)
	_, _ = fmt.Fprintln(w)
	_, _ = heading.Fprintln(w, messages.HelpFooterHeading)
	_, _ = fmt.Fprintf(w, "  %s  %s\n", entry.Sprintf("%-8s", messages.RuntimeUse), messages.RuntimeShort)
	_, _ = fmt.Fprintf(w, "  %s  %s\n", entry.Sprintf("%-8s", messages.VersionUse), messages.VersionShort)
}
