// Package manifest reads and rewrites the project manifest, skiff.toml.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"

	"github.com/skiff-run/skiff-cli/internal/messages"
	"github.com/skiff-run/skiff-cli/internal/version"
)

// Filename is the manifest file name looked up in the working directory.
const Filename = "skiff.toml"

// Manifest is the subset of the project manifest this tool reads. Unknown
// keys and sections are ignored so newer manifest fields never break
// older tool versions.
type Manifest struct {
	Package Package `toml:"package"`
}

// Package is the manifest [package] table.
type Package struct {
	SkiffVersion string `toml:"skiff_version"`
}

// Path returns the manifest path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, Filename)
}

// Load reads the manifest in dir. A missing manifest is not an error and
// yields nil.
func Load(dir string) (*Manifest, error) {
	path := Path(dir)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(messages.ManifestReadFmt, path, err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf(messages.ManifestParseFmt, path, err)
	}
	return &m, nil
}

// Requirement parses the manifest's version requirement. A manifest
// without one yields nil.
func (m *Manifest) Requirement() (*version.Requirement, error) {
	if m == nil || strings.TrimSpace(m.Package.SkiffVersion) == "" {
		return nil, nil
	}
	req, err := version.ParseRequirement(m.Package.SkiffVersion)
	if err != nil {
		return nil, fmt.Errorf(messages.ManifestRequirementFmt, err)
	}
	return &req, nil
}

// SetRuntimeVersion pins v in the manifest at path, preserving the
// file's formatting, and returns the previous and updated content so
// callers can render a diff. Pinning requires an existing manifest.
func SetRuntimeVersion(path string, v *semver.Version) (string, string, error) {
	from, to, err := PreviewRuntimeVersion(path, v)
	if err != nil {
		return "", "", err
	}
	if err := os.WriteFile(path, []byte(to), 0o644); err != nil {
		return "", "", fmt.Errorf(messages.ManifestWriteFmt, path, err)
	}
	return from, to, nil
}

// PreviewRuntimeVersion computes the SetRuntimeVersion rewrite without
// touching the file.
func PreviewRuntimeVersion(path string, v *semver.Version) (string, string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", "", fmt.Errorf(messages.ManifestMissingFmt, path)
	}
	if err != nil {
		return "", "", fmt.Errorf(messages.ManifestReadFmt, path, err)
	}
	from := string(data)
	to, err := PatchRuntimeVersion(from, v)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}
