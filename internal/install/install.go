// Package install manages locally provisioned runtime versions.
//
// Runtimes live under a per-user cache directory, one subdirectory per
// version, each holding the extracted build for the current OS.
// Provisioning is not atomic: a failed download or extraction can leave a
// partial version directory behind, and the next EnsureInstalled for that
// version sees the missing executable and redoes the work.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/skiff-run/skiff-cli/internal/catalog"
	"github.com/skiff-run/skiff-cli/internal/messages"
	"github.com/skiff-run/skiff-cli/internal/platform"
)

// EnvRuntimesDir overrides the directory runtimes are installed into.
const EnvRuntimesDir = "SKIFF_RUNTIMES_DIR"

var httpClient = &http.Client{Timeout: 5 * time.Minute}

// InstalledRuntime is one version present in the install directory.
type InstalledRuntime struct {
	Version *semver.Version
	Path    string
}

// Manager installs and enumerates runtimes under a single directory.
type Manager struct {
	dir string
	log *zap.Logger
}

// NewManager returns a Manager rooted at dir.
func NewManager(dir string, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{dir: dir, log: log}
}

// DefaultDir returns the per-user runtime install directory.
func DefaultDir() (string, error) {
	if override := strings.TrimSpace(os.Getenv(EnvRuntimesDir)); override != "" {
		return homedir.Expand(override)
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf(messages.InstallCacheDirFmt, err)
	}
	return filepath.Join(base, "skiff", "runtimes"), nil
}

// Dir returns the managed install directory.
func (m *Manager) Dir() string {
	return m.dir
}

// ExePath returns where the executable for version v lives, whether or
// not it is installed.
func (m *Manager) ExePath(v *semver.Version) string {
	return filepath.Join(m.dir, v.String(), platform.Current().BinName())
}

// EnsureInstalled makes rv runnable locally and returns the executable
// path, downloading and extracting its build for the current OS unless the
// executable is already present. An installed version is never
// re-downloaded.
func (m *Manager) EnsureInstalled(ctx context.Context, rv catalog.RuntimeVersion) (string, error) {
	exePath := m.ExePath(rv.Version)
	if _, err := os.Stat(exePath); err == nil {
		m.log.Debug("runtime already installed", zap.String("version", rv.Version.String()))
		return exePath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf(messages.InstallCheckExistingFmt, exePath, err)
	}

	current := platform.Current()
	build, ok := rv.BuildFor(current)
	if !ok {
		return "", &NoBuildForOSError{Version: rv.Version.String(), OS: current}
	}

	m.log.Debug("downloading runtime",
		zap.String("version", rv.Version.String()),
		zap.String("url", build.URL))
	payload, err := m.download(ctx, build.URL)
	if err != nil {
		return "", err
	}

	destDir := filepath.Join(m.dir, rv.Version.String())
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf(messages.InstallCreateDirFmt, destDir, err)
	}
	if err := extractZip(payload, destDir); err != nil {
		return "", &ExtractionFailedError{Version: rv.Version.String(), Err: err}
	}
	if _, err := os.Stat(exePath); err != nil {
		return "", &ExtractionFailedError{Version: rv.Version.String(), Err: errors.New(messages.InstallArchiveMissingExe)}
	}
	if current != platform.Windows {
		if err := os.Chmod(exePath, 0o755); err != nil {
			return "", fmt.Errorf(messages.InstallChmodFmt, exePath, err)
		}
	}
	m.log.Debug("runtime installed",
		zap.String("version", rv.Version.String()),
		zap.String("path", exePath))
	return exePath, nil
}

func (m *Manager) download(ctx context.Context, url string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &DownloadFailedError{URL: url, Err: err}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &DownloadFailedError{URL: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, &DownloadFailedError{URL: url, Err: fmt.Errorf(messages.InstallStatusFmt, resp.Status)}
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DownloadFailedError{URL: url, Err: err}
	}
	return payload, nil
}

// ListInstalled enumerates versions present in the install directory, in
// directory order. Entries that are not version-named directories are
// skipped. A missing install directory yields an empty list.
func (m *Manager) ListInstalled() ([]InstalledRuntime, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(messages.InstallListDirFmt, m.dir, err)
	}
	var out []InstalledRuntime
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := semver.StrictNewVersion(entry.Name())
		if err != nil {
			m.log.Debug("skipping unrecognized runtime dir", zap.String("name", entry.Name()))
			continue
		}
		out = append(out, InstalledRuntime{Version: v, Path: filepath.Join(m.dir, entry.Name())})
	}
	return out, nil
}

// UninstallAll removes every installed runtime and leaves an empty
// install directory behind.
func (m *Manager) UninstallAll() error {
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf(messages.InstallRemoveFmt, m.dir, err)
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf(messages.InstallCreateDirFmt, m.dir, err)
	}
	return nil
}
