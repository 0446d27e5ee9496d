//go:build windows

package launch

import "errors"

// execRuntime is never reached on Windows; Run spawns a child instead.
func execRuntime(path string, argv []string, env []string) error {
	return errors.ErrUnsupported
}
