// Package platform maps build artifact OS tokens to target platforms.
package platform

import "runtime"

// OS identifies a runtime build target.
type OS int

const (
	Linux OS = iota
	MacOS
	Windows
)

// Artifact path tokens. The build pipeline publishes exactly these three.
const (
	tokenMacOS   = "macos-latest"
	tokenWindows = "windows-latest"
	tokenLinux   = "ubuntu-22.04"
)

// Current returns the platform of the running process. Anything that is
// not darwin or windows is treated as Linux.
func Current() OS {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "windows":
		return Windows
	default:
		return Linux
	}
}

// ParseToken maps an artifact path token to its OS.
func ParseToken(token string) (OS, bool) {
	switch token {
	case tokenMacOS:
		return MacOS, true
	case tokenWindows:
		return Windows, true
	case tokenLinux:
		return Linux, true
	default:
		return Linux, false
	}
}

// String returns the artifact path token for the OS.
func (o OS) String() string {
	switch o {
	case MacOS:
		return tokenMacOS
	case Windows:
		return tokenWindows
	default:
		return tokenLinux
	}
}

// BinName returns the runtime executable filename for the OS.
func (o OS) BinName() string {
	if o == Windows {
		return "skiff.exe"
	}
	return "skiff"
}
