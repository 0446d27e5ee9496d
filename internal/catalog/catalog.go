// Package catalog lists runtime builds published to the artifact store.
//
// The store is a cloud storage bucket queried through its JSON
// object-listing endpoint. Build object keys follow
// skiff-builds/<version>/<os-token>/<artifact>, and grouping keys by
// their version segment yields one RuntimeVersion per published version.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/skiff-run/skiff-cli/internal/messages"
	"github.com/skiff-run/skiff-cli/internal/platform"
	"github.com/skiff-run/skiff-cli/internal/version"
)

// DefaultBaseURL is the object-listing endpoint of the release bucket.
const DefaultBaseURL = "https://storage.googleapis.com/storage/v1/b/skiff-artifacts/o"

// EnvBaseURL overrides the listing endpoint, for mirrors and tests.
const EnvBaseURL = "SKIFF_ARTIFACTS_URL"

// buildsNamespace prefixes every build object key in the bucket.
const buildsNamespace = "skiff-builds/"

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Build is one downloadable artifact for one OS.
type Build struct {
	OS  platform.OS
	URL string
}

// RuntimeVersion is a published version together with its per-OS builds.
// Identity is the version alone; resolver results sourced from settings or
// the local install dir carry an empty Builds slice.
type RuntimeVersion struct {
	Version *semver.Version
	Builds  []Build
}

// BuildFor returns the build produced for os.
func (rv RuntimeVersion) BuildFor(os platform.OS) (Build, bool) {
	for _, b := range rv.Builds {
		if b.OS == os {
			return b, true
		}
	}
	return Build{}, false
}

// VersionsFilter controls which release trains a listing returns. The zero
// value returns stable versions only.
type VersionsFilter struct {
	IncludePrivate bool
	IncludeNightly bool
}

// FullVisibility lists every release train.
var FullVisibility = VersionsFilter{IncludePrivate: true, IncludeNightly: true}

// Client queries the artifact store.
type Client struct {
	baseURL string
	log     *zap.Logger
}

// NewClient returns a Client against the configured listing endpoint.
func NewClient(log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	base := strings.TrimSpace(os.Getenv(EnvBaseURL))
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{baseURL: base, log: log}
}

type bucketList struct {
	Items []bucketItem `json:"items"`
}

type bucketItem struct {
	Name      string `json:"name"`
	MediaLink string `json:"mediaLink"`
}

// ListVersions returns the published versions whose keys start with
// prefix, filtered by train visibility and sorted ascending in semantic
// order, so the latest version is always the last element.
//
// Keys whose version segment does not parse are skipped; that is how
// non-build objects sharing the namespace are filtered out. A parseable
// version with an unrecognized OS token fails the whole listing.
func (c *Client) ListVersions(ctx context.Context, prefix string, filter VersionsFilter) ([]RuntimeVersion, error) {
	items, err := c.fetchItems(ctx, prefix)
	if err != nil {
		return nil, err
	}
	groups := make(map[string]*RuntimeVersion)
	var order []string
	for _, item := range items {
		v, ok := versionFromKey(item.Name)
		if !ok {
			c.log.Debug("skipping non-build object", zap.String("key", item.Name))
			continue
		}
		token := osTokenFromKey(item.Name)
		buildOS, ok := platform.ParseToken(token)
		if !ok {
			return nil, &InvalidBuildArtifactError{Key: item.Name, Token: token}
		}
		key := v.String()
		group, seen := groups[key]
		if !seen {
			group = &RuntimeVersion{Version: v}
			groups[key] = group
			order = append(order, key)
		}
		group.Builds = append(group.Builds, Build{OS: buildOS, URL: item.MediaLink})
	}
	out := make([]RuntimeVersion, 0, len(order))
	for _, key := range order {
		rv := *groups[key]
		switch version.Classify(rv.Version) {
		case version.Internal:
			if !filter.IncludePrivate {
				continue
			}
		case version.Nightly:
			if !filter.IncludeNightly {
				continue
			}
		}
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Version.LessThan(out[j].Version)
	})
	c.log.Debug("listed versions", zap.String("prefix", prefix), zap.Int("count", len(out)))
	return out, nil
}

// GetVersion fetches the catalog entry whose version is exactly raw. The
// listing is scoped to the version's own key prefix, with full visibility;
// a version that prefixes another (1.2.3 against 1.2.3-nightly-... builds)
// matches only its exact entry.
func (c *Client) GetVersion(ctx context.Context, raw string) (RuntimeVersion, error) {
	want, err := semver.StrictNewVersion(strings.TrimSpace(raw))
	if err != nil {
		return RuntimeVersion{}, &VersionNotFoundError{Version: raw}
	}
	list, err := c.ListVersions(ctx, want.String(), FullVisibility)
	if err != nil {
		return RuntimeVersion{}, err
	}
	for _, rv := range list {
		if rv.Version.Equal(want) {
			return rv, nil
		}
	}
	return RuntimeVersion{}, &VersionNotFoundError{Version: raw}
}

func (c *Client) fetchItems(ctx context.Context, prefix string) ([]bucketItem, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, &CatalogUnavailableError{Err: fmt.Errorf(messages.CatalogCreateRequestFmt, err)}
	}
	q := req.URL.Query()
	q.Set("prefix", buildsNamespace+prefix)
	q.Set("alt", "json")
	req.URL.RawQuery = q.Encode()

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &CatalogUnavailableError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, &CatalogUnavailableError{Err: fmt.Errorf(messages.CatalogStatusFmt, resp.Status)}
	}
	var payload bucketList
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &CatalogUnavailableError{Err: fmt.Errorf(messages.CatalogDecodeFmt, err)}
	}
	return payload.Items, nil
}

// versionFromKey parses the version segment of a build object key.
func versionFromKey(key string) (*semver.Version, bool) {
	parts := strings.Split(key, "/")
	if len(parts) < 2 {
		return nil, false
	}
	v, err := semver.StrictNewVersion(parts[1])
	if err != nil {
		return nil, false
	}
	return v, true
}

// osTokenFromKey returns the OS segment of a build object key, or "" when
// the key has none.
func osTokenFromKey(key string) string {
	parts := strings.Split(key, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}
