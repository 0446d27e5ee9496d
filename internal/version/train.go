// Package version classifies runtime versions into release trains and
// implements requirement matching with exact pre-release semantics.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Train buckets a version by its pre-release identifier.
type Train int

const (
	Stable Train = iota
	Nightly
	Internal
)

func (t Train) String() string {
	switch t {
	case Nightly:
		return "nightly"
	case Internal:
		return "internal"
	default:
		return "stable"
	}
}

// Classify maps a version to its release train. A version with no
// pre-release identifier is Stable, a pre-release containing the token
// "nightly" is Nightly, and any other pre-release is Internal.
func Classify(v *semver.Version) Train {
	return classifyPrerelease(v.Prerelease())
}

// ClassifyRequirement maps a requirement to the train of its first
// comparator. A requirement with no comparators classifies Stable.
func ClassifyRequirement(req Requirement) Train {
	if len(req.cmps) == 0 {
		return Stable
	}
	return classifyPrerelease(req.cmps[0].pre)
}

func classifyPrerelease(pre string) Train {
	switch {
	case pre == "":
		return Stable
	case strings.Contains(pre, "nightly"):
		return Nightly
	default:
		return Internal
	}
}
