// Package resolve picks the runtime version an invocation should use.
//
// Resolution consults three sources in a fixed order: the configured
// default version, locally installed versions, and finally the full
// remote catalog. The first source containing a match wins; within the
// catalog the lowest satisfying version is chosen, keeping repeated runs
// of the same project on the same version even as newer ones ship.
package resolve

import (
	"context"

	"go.uber.org/zap"

	"github.com/skiff-run/skiff-cli/internal/catalog"
	"github.com/skiff-run/skiff-cli/internal/install"
	"github.com/skiff-run/skiff-cli/internal/settings"
	"github.com/skiff-run/skiff-cli/internal/version"
)

// Catalog lists published runtime versions.
type Catalog interface {
	ListVersions(ctx context.Context, prefix string, filter catalog.VersionsFilter) ([]catalog.RuntimeVersion, error)
}

// InstalledLister enumerates locally installed runtime versions.
type InstalledLister interface {
	ListInstalled() ([]install.InstalledRuntime, error)
}

// Resolver picks versions from settings, local installs, and the catalog.
type Resolver struct {
	catalog   Catalog
	installed InstalledLister
	log       *zap.Logger
}

// NewResolver returns a Resolver over the given sources.
func NewResolver(cat Catalog, installed InstalledLister, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{catalog: cat, installed: installed, log: log}
}

// Resolve returns the version to use for req. The configured default wins
// when it satisfies req, then any installed version, then the lowest
// satisfying version in the full catalog. Results from the first two
// sources carry no builds; the catalog is not contacted at all when a
// local source matches.
func (r *Resolver) Resolve(ctx context.Context, s settings.Settings, req version.Requirement) (catalog.RuntimeVersion, error) {
	r.log.Debug("resolving runtime version", zap.String("requirement", req.String()))

	if s.DefaultRuntime != nil && req.MatchesExact(s.DefaultRuntime) {
		r.log.Debug("requirement satisfied by default version",
			zap.String("version", s.DefaultRuntime.String()))
		return catalog.RuntimeVersion{Version: s.DefaultRuntime}, nil
	}

	installedList, err := r.installed.ListInstalled()
	if err != nil {
		return catalog.RuntimeVersion{}, err
	}
	for _, inst := range installedList {
		if req.MatchesExact(inst.Version) {
			r.log.Debug("requirement satisfied by installed version",
				zap.String("version", inst.Version.String()))
			return catalog.RuntimeVersion{Version: inst.Version}, nil
		}
	}

	remote, err := r.catalog.ListVersions(ctx, "", catalog.FullVisibility)
	if err != nil {
		return catalog.RuntimeVersion{}, err
	}
	for _, rv := range remote {
		if req.MatchesExact(rv.Version) {
			r.log.Debug("requirement satisfied by catalog version",
				zap.String("version", rv.Version.String()))
			return rv, nil
		}
	}
	return catalog.RuntimeVersion{}, &NoSatisfyingVersionError{Requirement: req}
}

// ResolveCurrent returns the version the current invocation should run:
// the project requirement when one is given, else the configured default.
// ErrNoDefaultSet is returned when neither exists.
func (r *Resolver) ResolveCurrent(ctx context.Context, s settings.Settings, projectReq *version.Requirement) (catalog.RuntimeVersion, error) {
	if projectReq != nil {
		return r.Resolve(ctx, s, *projectReq)
	}
	if s.DefaultRuntime != nil {
		return catalog.RuntimeVersion{Version: s.DefaultRuntime}, nil
	}
	return catalog.RuntimeVersion{}, ErrNoDefaultSet
}

// ResolveLatestForTrain returns the newest catalog version on train. With
// fallbackToNightly set, the newest nightly is returned instead when the
// train has no versions at all.
func (r *Resolver) ResolveLatestForTrain(ctx context.Context, train version.Train, fallbackToNightly bool) (catalog.RuntimeVersion, error) {
	filter := catalog.VersionsFilter{
		IncludePrivate: train == version.Internal,
		IncludeNightly: train == version.Nightly || fallbackToNightly,
	}
	remote, err := r.catalog.ListVersions(ctx, "", filter)
	if err != nil {
		return catalog.RuntimeVersion{}, err
	}

	// The listing is ascending, so the last hit per train is the newest.
	var best, bestNightly *catalog.RuntimeVersion
	for i := range remote {
		switch version.Classify(remote[i].Version) {
		case train:
			best = &remote[i]
		case version.Nightly:
			bestNightly = &remote[i]
		}
	}
	if best != nil {
		return *best, nil
	}
	if fallbackToNightly && bestNightly != nil {
		return *bestNightly, nil
	}
	return catalog.RuntimeVersion{}, &NoVersionsForTrainError{Train: train}
}
