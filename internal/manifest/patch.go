package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/aymanbagabas/go-udiff"
	// toml is used for syntax validation only; the rewrite itself is
	// line-based so comments and formatting survive.
	toml "github.com/pelletier/go-toml"

	"github.com/skiff-run/skiff-cli/internal/messages"
)

const versionKey = "skiff_version"

// PatchRuntimeVersion pins v as the manifest's version requirement,
// preserving comments, key order, and indentation. The existing
// skiff_version line is replaced in place, preferring an uncommented one;
// a missing key is inserted right after the [package] header, and a
// missing [package] table is appended.
func PatchRuntimeVersion(content string, v *semver.Version) (string, error) {
	if _, err := toml.LoadBytes([]byte(content)); err != nil {
		return "", fmt.Errorf(messages.ManifestInvalidFmt, err)
	}

	lines := strings.Split(content, "\n")
	headerIdx := -1
	uncommentedIdx, commentedIdx := -1, -1
	var uncommentedLine, commentedLine keyLine

	inPackage := false
	state := stateNone
	for i, line := range lines {
		startState := state
		_, state = scanLine(line, state)
		if startState != stateNone {
			continue
		}
		if name, ok := sectionHeader(line); ok {
			inPackage = name == "package"
			if inPackage && headerIdx == -1 {
				headerIdx = i
			}
			continue
		}
		if !inPackage {
			continue
		}
		kl, ok := parseKeyLine(line, versionKey)
		if !ok {
			continue
		}
		if !kl.commented && uncommentedIdx == -1 {
			uncommentedIdx = i
			uncommentedLine = kl
		} else if kl.commented && commentedIdx == -1 {
			commentedIdx = i
			commentedLine = kl
		}
	}

	replaceAt := -1
	var base keyLine
	switch {
	case uncommentedIdx >= 0:
		replaceAt, base = uncommentedIdx, uncommentedLine
	case commentedIdx >= 0:
		replaceAt, base = commentedIdx, commentedLine
	}

	newLine := buildVersionLine(base, v)
	switch {
	case replaceAt >= 0:
		lines[replaceAt] = newLine
	case headerIdx >= 0:
		lines = append(lines[:headerIdx+1], append([]string{newLine}, lines[headerIdx+1:]...)...)
	default:
		lines = appendPackageSection(lines, newLine)
	}
	return strings.Join(lines, "\n"), nil
}

// Diff renders a unified diff between the current and patched manifest.
func Diff(path string, from string, to string) string {
	return strings.TrimSpace(udiff.Unified(
		path+" (current)",
		path+" (target)",
		from,
		to,
	))
}

// keyLine holds formatting metadata for a key/value assignment line.
type keyLine struct {
	indent        string
	commented     bool
	inlineComment string
}

// parseKeyLine parses line as an assignment of key, honoring a leading
// comment marker. Lines inside multiline strings must be filtered out by
// the caller.
func parseKeyLine(line string, key string) (keyLine, bool) {
	indentLen := len(line) - len(strings.TrimLeft(line, " \t"))
	indent := line[:indentLen]
	trimmed := line[indentLen:]
	commented := false
	if strings.HasPrefix(trimmed, "#") {
		commented = true
		trimmed = strings.TrimLeft(strings.TrimPrefix(trimmed, "#"), " \t")
	}
	if !strings.HasPrefix(trimmed, key) {
		return keyLine{}, false
	}
	rest := strings.TrimSpace(trimmed[len(key):])
	if !strings.HasPrefix(rest, "=") {
		return keyLine{}, false
	}
	var inline string
	if !commented {
		if pos, _ := scanLine(trimmed, stateNone); pos >= 0 {
			inline = strings.TrimSpace(trimmed[pos:])
		}
	}
	return keyLine{indent: indent, commented: commented, inlineComment: inline}, true
}

// buildVersionLine renders the replacement assignment with the
// indentation and inline comment of base.
func buildVersionLine(base keyLine, v *semver.Version) string {
	line := base.indent + versionKey + " = " + strconv.Quote(v.String())
	if base.inlineComment != "" {
		line += " " + base.inlineComment
	}
	return line
}

// sectionHeader detects a TOML table header line and extracts its name.
// Array-of-table headers are not section headers.
func sectionHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "[[") {
		return "", false
	}
	if pos, _ := scanLine(trimmed, stateNone); pos >= 0 {
		trimmed = strings.TrimSpace(trimmed[:pos])
	}
	if !strings.HasSuffix(trimmed, "]") {
		return "", false
	}
	name := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	return name, name != ""
}

// appendPackageSection appends a fresh [package] table holding the
// version line, separated from existing content by one blank line.
func appendPackageSection(lines []string, versionLine string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	out := lines[:end]
	if end > 0 {
		out = append(out, "")
	}
	return append(out, "[package]", versionLine, "")
}
