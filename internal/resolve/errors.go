package resolve

import (
	"errors"
	"fmt"

	"github.com/skiff-run/skiff-cli/internal/version"
)

// ErrNoDefaultSet indicates no project requirement was given and no
// default runtime version is configured.
var ErrNoDefaultSet = errors.New("no default runtime version set")

// NoSatisfyingVersionError indicates no source (default, installed, or
// catalog) holds a version matching the requirement.
type NoSatisfyingVersionError struct {
	Requirement version.Requirement
}

func (e *NoSatisfyingVersionError) Error() string {
	return fmt.Sprintf("no version found satisfying %s", e.Requirement.String())
}

// NoVersionsForTrainError indicates the catalog has no versions on the
// requested release train.
type NoVersionsForTrainError struct {
	Train version.Train
}

func (e *NoVersionsForTrainError) Error() string {
	return fmt.Sprintf("no %s versions available", e.Train)
}
