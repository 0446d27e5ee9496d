package install

import (
	"errors"
	"fmt"

	"github.com/skiff-run/skiff-cli/internal/platform"
)

// NoBuildForOSError indicates a runtime version has no build for the
// current OS. Resolver results sourced from settings or the local disk
// carry no builds at all and surface this error too; callers refetch the
// full catalog entry before giving up.
type NoBuildForOSError struct {
	Version string
	OS      platform.OS
}

func (e *NoBuildForOSError) Error() string {
	return fmt.Sprintf("no build of %s for %s", e.Version, e.OS)
}

// IsNoBuildForOSError reports whether err is a NoBuildForOSError.
func IsNoBuildForOSError(err error) bool {
	var noBuild *NoBuildForOSError
	return errors.As(err, &noBuild)
}

// DownloadFailedError indicates the build artifact could not be fetched.
type DownloadFailedError struct {
	URL string
	Err error
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadFailedError) Unwrap() error {
	return e.Err
}

// ExtractionFailedError indicates the downloaded archive could not be
// unpacked into a runnable install. The version directory may be left
// partially written; the next install attempt for the version redoes it.
type ExtractionFailedError struct {
	Version string
	Err     error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("extract runtime %s: %v", e.Version, e.Err)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Err
}
