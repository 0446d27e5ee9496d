package catalog

import "fmt"

// CatalogUnavailableError indicates the remote listing endpoint could not
// be reached or returned an undecodable payload. Listing failures are not
// retried; callers surface them directly.
type CatalogUnavailableError struct {
	Err error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("catalog unavailable: %v", e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error {
	return e.Err
}

// InvalidBuildArtifactError indicates a listed build object whose key does
// not follow the <namespace>/<version>/<os-token>/<artifact> layout.
type InvalidBuildArtifactError struct {
	Key   string
	Token string
}

func (e *InvalidBuildArtifactError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid build artifact %q: missing os token", e.Key)
	}
	return fmt.Sprintf("invalid build artifact %q: unrecognized os token %q", e.Key, e.Token)
}

// VersionNotFoundError indicates the requested version is not published in
// the catalog.
type VersionNotFoundError struct {
	Version string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %s not found", e.Version)
}
