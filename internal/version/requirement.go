package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/skiff-run/skiff-cli/internal/messages"
)

// Requirement is a version constraint: one or more comma-separated
// comparators, each optionally pinned to a pre-release identifier.
//
// Matching is stricter than standard semver ranges. Whenever the
// comparator or the candidate carries a pre-release identifier, the two
// identifiers must be equal strings for the comparator to match, so a
// range like ">=1.2.0" never picks up a nightly build and a pinned
// nightly never matches a different nightly date.
type Requirement struct {
	raw  string
	cmps []comparator
}

// comparator is a single constraint such as ">=1.2" or "=0.3.0-nightly-2023-09-05".
// A nil minor or patch means the component was absent and unconstrained.
type comparator struct {
	op    string
	major uint64
	minor *uint64
	patch *uint64
	pre   string
}

const (
	opExact     = "="
	opGreater   = ">"
	opGreaterEq = ">="
	opLess      = "<"
	opLessEq    = "<="
	opTilde     = "~"
	opCaret     = "^"
)

// comparatorOps is ordered so two-character operators are tried first.
var comparatorOps = []string{opGreaterEq, opLessEq, opGreater, opLess, opExact, opTilde, opCaret}

// ParseRequirement parses a requirement string such as "^1.2",
// ">=1.0, <2.0" or "=0.3.0-nightly-2023-09-05". A bare version is
// shorthand for a caret constraint; "*" matches every version.
func ParseRequirement(raw string) (Requirement, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Requirement{}, errors.New(messages.RequirementEmpty)
	}
	if trimmed == "*" {
		return Requirement{raw: trimmed}, nil
	}
	parts := strings.Split(trimmed, ",")
	cmps := make([]comparator, 0, len(parts))
	for _, part := range parts {
		c, err := parseComparator(strings.TrimSpace(part))
		if err != nil {
			return Requirement{}, err
		}
		cmps = append(cmps, c)
	}
	return Requirement{raw: trimmed, cmps: cmps}, nil
}

// MustParseRequirement is ParseRequirement for known-good literals.
// It panics when the requirement does not parse.
func MustParseRequirement(raw string) Requirement {
	req, err := ParseRequirement(raw)
	if err != nil {
		panic(err)
	}
	return req
}

func (r Requirement) String() string {
	return r.raw
}

// MatchesExact reports whether v satisfies every comparator under exact
// pre-release matching: a comparator with a pre-release identifier, or a
// candidate carrying one, matches only when the numeric comparison holds
// and both identifiers are equal strings.
func (r Requirement) MatchesExact(v *semver.Version) bool {
	for _, c := range r.cmps {
		if !c.matchesExact(v) {
			return false
		}
	}
	return true
}

func (c comparator) matchesExact(v *semver.Version) bool {
	if c.pre != "" || v.Prerelease() != "" {
		return c.matchesCore(v) && c.pre == v.Prerelease()
	}
	return c.matchesCore(v)
}

// matchesCore evaluates the comparator against the numeric triple only.
func (c comparator) matchesCore(v *semver.Version) bool {
	switch c.op {
	case opExact:
		if v.Major() != c.major {
			return false
		}
		if c.minor != nil && v.Minor() != *c.minor {
			return false
		}
		if c.patch != nil && v.Patch() != *c.patch {
			return false
		}
		return true
	case opGreater:
		return c.compareCore(v) > 0
	case opGreaterEq:
		return c.compareCore(v) >= 0
	case opLess:
		return c.compareCore(v) < 0
	case opLessEq:
		return c.compareCore(v) <= 0
	case opTilde:
		if v.Major() != c.major {
			return false
		}
		if c.minor != nil && v.Minor() != *c.minor {
			return false
		}
		if c.patch != nil && v.Patch() < *c.patch {
			return false
		}
		return true
	case opCaret:
		return c.matchesCaret(v)
	default:
		return false
	}
}

// compareCore orders v against the comparator's present components.
// An absent minor or patch compares as equal once the components before
// it match, so ">=1" accepts 1.5.0 while ">1" rejects it.
func (c comparator) compareCore(v *semver.Version) int {
	if v.Major() != c.major {
		if v.Major() > c.major {
			return 1
		}
		return -1
	}
	if c.minor == nil {
		return 0
	}
	if v.Minor() != *c.minor {
		if v.Minor() > *c.minor {
			return 1
		}
		return -1
	}
	if c.patch == nil {
		return 0
	}
	if v.Patch() != *c.patch {
		if v.Patch() > *c.patch {
			return 1
		}
		return -1
	}
	return 0
}

// matchesCaret allows changes that do not modify the leftmost non-zero
// component: ^1.2.3 accepts 1.x for x >= 2.3, ^0.2.3 accepts only 0.2.x
// for x >= 3, and ^0.0.3 accepts exactly 0.0.3.
func (c comparator) matchesCaret(v *semver.Version) bool {
	if v.Major() != c.major {
		return false
	}
	if c.minor == nil {
		return true
	}
	minor := *c.minor
	if c.patch == nil {
		if c.major > 0 {
			return v.Minor() >= minor
		}
		return v.Minor() == minor
	}
	patch := *c.patch
	if c.major > 0 {
		if v.Minor() != minor {
			return v.Minor() > minor
		}
		return v.Patch() >= patch
	}
	if minor > 0 {
		if v.Minor() != minor {
			return false
		}
		return v.Patch() >= patch
	}
	return v.Minor() == minor && v.Patch() == patch
}

func parseComparator(token string) (comparator, error) {
	if token == "" {
		return comparator{}, errors.New(messages.RequirementEmpty)
	}
	op := ""
	rest := token
	for _, candidate := range comparatorOps {
		if strings.HasPrefix(token, candidate) {
			op = candidate
			rest = strings.TrimSpace(token[len(candidate):])
			break
		}
	}
	p, err := parsePartial(rest)
	if err != nil {
		return comparator{}, fmt.Errorf(messages.RequirementInvalidComparatorFmt, token, err)
	}
	if p.wildcard && op != "" {
		return comparator{}, fmt.Errorf(messages.RequirementWildcardWithOpFmt, token)
	}
	if op == "" {
		op = opCaret
		if p.wildcard {
			op = opExact
		}
	}
	return comparator{op: op, major: p.major, minor: p.minor, patch: p.patch, pre: p.pre}, nil
}

type partial struct {
	major    uint64
	minor    *uint64
	patch    *uint64
	pre      string
	wildcard bool
}

// parsePartial parses "major[.minor[.patch[-pre]]]" where minor and patch
// may be the wildcard "*". Pre-release identifiers require a full triple.
func parsePartial(s string) (partial, error) {
	if s == "" {
		return partial{}, errors.New(messages.RequirementMissingVersion)
	}
	if strings.ContainsRune(s, '+') {
		return partial{}, errors.New(messages.RequirementBuildMetadata)
	}
	core := s
	var p partial
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		core = s[:idx]
		p.pre = s[idx+1:]
		if err := validatePrerelease(p.pre); err != nil {
			return partial{}, err
		}
	}
	segs := strings.Split(core, ".")
	if len(segs) > 3 {
		return partial{}, errors.New(messages.RequirementTooManyComponents)
	}
	major, err := parseComponent(segs[0])
	if err != nil {
		return partial{}, err
	}
	p.major = major
	if len(segs) >= 2 {
		if isWildcard(segs[1]) {
			p.wildcard = true
			if len(segs) == 3 && !isWildcard(segs[2]) {
				return partial{}, errors.New(messages.RequirementComponentAfterWildcard)
			}
		} else {
			minor, err := parseComponent(segs[1])
			if err != nil {
				return partial{}, err
			}
			p.minor = &minor
			if len(segs) == 3 {
				if isWildcard(segs[2]) {
					p.wildcard = true
				} else {
					patch, err := parseComponent(segs[2])
					if err != nil {
						return partial{}, err
					}
					p.patch = &patch
				}
			}
		}
	}
	if p.pre != "" && (p.wildcard || p.patch == nil) {
		return partial{}, errors.New(messages.RequirementPreNeedsFullVersion)
	}
	return p, nil
}

func isWildcard(seg string) bool {
	return seg == "*" || seg == "x" || seg == "X"
}

func parseComponent(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New(messages.RequirementEmptyComponent)
	}
	if isWildcard(s) {
		return 0, fmt.Errorf(messages.RequirementInvalidComponentFmt, s)
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, fmt.Errorf(messages.RequirementLeadingZeroFmt, s)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf(messages.RequirementInvalidComponentFmt, s)
	}
	return n, nil
}

func validatePrerelease(pre string) error {
	if pre == "" {
		return fmt.Errorf(messages.RequirementInvalidPreFmt, pre)
	}
	for _, seg := range strings.Split(pre, ".") {
		if seg == "" {
			return fmt.Errorf(messages.RequirementInvalidPreFmt, pre)
		}
	}
	for _, r := range pre {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '-' || r == '.':
		default:
			return fmt.Errorf(messages.RequirementInvalidPreFmt, pre)
		}
	}
	return nil
}
