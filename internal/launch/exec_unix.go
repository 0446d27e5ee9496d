//go:build !windows

package launch

import "golang.org/x/sys/unix"

// execRuntime replaces the current process with the runtime binary.
func execRuntime(path string, argv []string, env []string) error {
	return unix.Exec(path, argv, env)
}
