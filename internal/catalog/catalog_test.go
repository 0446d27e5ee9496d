package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/skiff-run/skiff-cli/internal/platform"
)

func withCatalogServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{baseURL: srv.URL, log: zap.NewNop()}
}

func listingJSON(t *testing.T, keys ...string) string {
	t.Helper()
	var payload bucketList
	for _, k := range keys {
		payload.Items = append(payload.Items, bucketItem{Name: k, MediaLink: "https://dl.test/" + k})
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal listing: %v", err)
	}
	return string(data)
}

func serveListing(t *testing.T, keys ...string) *Client {
	t.Helper()
	return withCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, listingJSON(t, keys...))
	})
}

func versionStrings(list []RuntimeVersion) []string {
	out := make([]string, 0, len(list))
	for _, rv := range list {
		out = append(out, rv.Version.String())
	}
	return out
}

func TestListVersionsGroupsBuildsByVersion(t *testing.T) {
	client := serveListing(t,
		"skiff-builds/1.2.3/ubuntu-22.04/skiff.zip",
		"skiff-builds/1.2.3/macos-latest/skiff.zip",
		"skiff-builds/1.2.3/windows-latest/skiff.zip",
	)

	list, err := client.ListVersions(context.Background(), "", FullVisibility)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one version, got %v", versionStrings(list))
	}
	rv := list[0]
	if rv.Version.String() != "1.2.3" {
		t.Errorf("version = %s, want 1.2.3", rv.Version)
	}
	if len(rv.Builds) != 3 {
		t.Fatalf("expected three builds, got %d", len(rv.Builds))
	}
	for _, os := range []platform.OS{platform.Linux, platform.MacOS, platform.Windows} {
		b, ok := rv.BuildFor(os)
		if !ok {
			t.Fatalf("no build for %s", os)
		}
		want := "https://dl.test/skiff-builds/1.2.3/" + os.String() + "/skiff.zip"
		if b.URL != want {
			t.Errorf("build URL for %s = %q, want %q", os, b.URL, want)
		}
	}
}

func TestListVersionsSemanticOrder(t *testing.T) {
	client := serveListing(t,
		"skiff-builds/0.10.0/ubuntu-22.04/skiff.zip",
		"skiff-builds/0.2.0/ubuntu-22.04/skiff.zip",
		"skiff-builds/0.9.0/ubuntu-22.04/skiff.zip",
	)

	list, err := client.ListVersions(context.Background(), "", FullVisibility)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	got := versionStrings(list)
	want := []string{"0.2.0", "0.9.0", "0.10.0"}
	if len(got) != len(want) {
		t.Fatalf("versions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("versions = %v, want %v", got, want)
		}
	}
}

func TestListVersionsSkipsNonBuildKeys(t *testing.T) {
	client := serveListing(t,
		"skiff-builds/index.json",
		"skiff-builds/latest/ubuntu-22.04/skiff.zip",
		"skiff-builds/v2.0.0/ubuntu-22.04/skiff.zip",
		"skiff-builds/1.0.0/ubuntu-22.04/skiff.zip",
	)

	list, err := client.ListVersions(context.Background(), "", FullVisibility)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	got := versionStrings(list)
	if len(got) != 1 || got[0] != "1.0.0" {
		t.Fatalf("versions = %v, want [1.0.0]", got)
	}
}

func TestListVersionsFilter(t *testing.T) {
	keys := []string{
		"skiff-builds/0.1.0/ubuntu-22.04/skiff.zip",
		"skiff-builds/0.2.0-nightly-2023-01-01/ubuntu-22.04/skiff.zip",
		"skiff-builds/0.2.0-dev-abc123/ubuntu-22.04/skiff.zip",
	}
	tests := []struct {
		name   string
		filter VersionsFilter
		want   []string
	}{
		{"stable only", VersionsFilter{}, []string{"0.1.0"}},
		{"with nightly", VersionsFilter{IncludeNightly: true}, []string{"0.1.0", "0.2.0-nightly-2023-01-01"}},
		{"with private", VersionsFilter{IncludePrivate: true}, []string{"0.1.0", "0.2.0-dev-abc123"}},
		{"full", FullVisibility, []string{"0.1.0", "0.2.0-dev-abc123", "0.2.0-nightly-2023-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := serveListing(t, keys...)
			list, err := client.ListVersions(context.Background(), "", tt.filter)
			if err != nil {
				t.Fatalf("ListVersions: %v", err)
			}
			got := versionStrings(list)
			if len(got) != len(tt.want) {
				t.Fatalf("versions = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("versions = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestListVersionsInvalidOSToken(t *testing.T) {
	client := serveListing(t,
		"skiff-builds/1.0.0/centos-7/skiff.zip",
	)

	_, err := client.ListVersions(context.Background(), "", FullVisibility)
	var invalidErr *InvalidBuildArtifactError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidBuildArtifactError, got %v", err)
	}
	if invalidErr.Token != "centos-7" {
		t.Errorf("token = %q, want centos-7", invalidErr.Token)
	}
	if invalidErr.Key != "skiff-builds/1.0.0/centos-7/skiff.zip" {
		t.Errorf("key = %q", invalidErr.Key)
	}
}

func TestListVersionsMissingOSToken(t *testing.T) {
	client := serveListing(t, "skiff-builds/1.0.0")

	_, err := client.ListVersions(context.Background(), "", FullVisibility)
	var invalidErr *InvalidBuildArtifactError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("expected InvalidBuildArtifactError, got %v", err)
	}
	if invalidErr.Token != "" {
		t.Errorf("token = %q, want empty", invalidErr.Token)
	}
}

func TestListVersionsUnavailable(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		client := withCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		_, err := client.ListVersions(context.Background(), "", FullVisibility)
		var unavailable *CatalogUnavailableError
		if !errors.As(err, &unavailable) {
			t.Fatalf("expected CatalogUnavailableError, got %v", err)
		}
	})

	t.Run("bad payload", func(t *testing.T) {
		client := withCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, "not json")
		})
		_, err := client.ListVersions(context.Background(), "", FullVisibility)
		var unavailable *CatalogUnavailableError
		if !errors.As(err, &unavailable) {
			t.Fatalf("expected CatalogUnavailableError, got %v", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		client := &Client{baseURL: srv.URL, log: zap.NewNop()}
		srv.Close()
		_, err := client.ListVersions(context.Background(), "", FullVisibility)
		var unavailable *CatalogUnavailableError
		if !errors.As(err, &unavailable) {
			t.Fatalf("expected CatalogUnavailableError, got %v", err)
		}
	})
}

func TestListVersionsSendsPrefix(t *testing.T) {
	var gotPrefix, gotAlt string
	client := withCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPrefix = r.URL.Query().Get("prefix")
		gotAlt = r.URL.Query().Get("alt")
		_, _ = io.WriteString(w, listingJSON(t))
	})

	if _, err := client.ListVersions(context.Background(), "1.2", FullVisibility); err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if gotPrefix != "skiff-builds/1.2" {
		t.Errorf("prefix = %q, want skiff-builds/1.2", gotPrefix)
	}
	if gotAlt != "json" {
		t.Errorf("alt = %q, want json", gotAlt)
	}
}

func TestGetVersionExactMatch(t *testing.T) {
	client := serveListing(t,
		"skiff-builds/1.2.3/ubuntu-22.04/skiff.zip",
		"skiff-builds/1.2.3-nightly-2023-01-01/ubuntu-22.04/skiff.zip",
	)

	rv, err := client.GetVersion(context.Background(), "1.2.3")
	if err != nil {
		t.Fatalf("GetVersion: %v", err)
	}
	if rv.Version.String() != "1.2.3" {
		t.Errorf("version = %s, want 1.2.3", rv.Version)
	}
	if len(rv.Builds) != 1 {
		t.Errorf("expected one build, got %d", len(rv.Builds))
	}
}

func TestGetVersionNotFound(t *testing.T) {
	client := serveListing(t, "skiff-builds/1.2.3-nightly-2023-01-01/ubuntu-22.04/skiff.zip")

	_, err := client.GetVersion(context.Background(), "1.2.3")
	var notFound *VersionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected VersionNotFoundError, got %v", err)
	}
	if notFound.Version != "1.2.3" {
		t.Errorf("version = %q, want 1.2.3", notFound.Version)
	}
}

func TestGetVersionRejectsUnparseable(t *testing.T) {
	requests := 0
	client := withCatalogServer(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = io.WriteString(w, listingJSON(t))
	})

	_, err := client.GetVersion(context.Background(), "latest")
	var notFound *VersionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected VersionNotFoundError, got %v", err)
	}
	if requests != 0 {
		t.Errorf("expected no catalog request for an unparseable version, got %d", requests)
	}
}

func TestNewClientEnvOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, listingJSON(t, "skiff-builds/2.0.0/ubuntu-22.04/skiff.zip"))
	}))
	t.Cleanup(srv.Close)
	t.Setenv(EnvBaseURL, srv.URL)

	client := NewClient(nil)
	list, err := client.ListVersions(context.Background(), "", FullVisibility)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(list) != 1 || list[0].Version.String() != "2.0.0" {
		t.Fatalf("versions = %v, want [2.0.0]", versionStrings(list))
	}
}
