package whatsapp

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wadesk/wadesk/core/config"
	domainMedia "github.com/wadesk/wadesk/domains/media"
)

func testFetcher(t *testing.T, rt roundTripperFunc) *Fetcher {
	t.Helper()
	cfg := &config.Config{}
	cfg.Whatsapp.APIVersion = "v19.0"
	cfg.Paths.Media = filepath.Join(t.TempDir(), "media")
	return NewFetcher(cfg, &fakeCredentials{token: "secret-token"}, &http.Client{Transport: rt})
}

func TestFetchStoresFile(t *testing.T) {
	fetcher := testFetcher(t, func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Path, "media-1") {
			return jsonResponse(200, `{"url":"https://lookaside.example.com/file","mime_type":"image/jpeg","file_size":3,"id":"media-1"}`), nil
		}
		return jsonResponse(200, "abc"), nil
	})

	asset, err := fetcher.Fetch(context.Background(), "media-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if asset.PublicPath != "/statics/media/media-1.jpg" {
		t.Errorf("unexpected public path: %s", asset.PublicPath)
	}
	if asset.ContentType != "image/jpeg" {
		t.Errorf("unexpected content type: %s", asset.ContentType)
	}

	data, err := os.ReadFile(asset.StoragePath)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("unexpected file content: %q", data)
	}
}

func TestFetchMetadataUnavailable(t *testing.T) {
	fetcher := testFetcher(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(404, `{"error":{"message":"not found"}}`), nil
	})

	_, err := fetcher.Fetch(context.Background(), "media-x")
	if !errors.Is(err, domainMedia.ErrMetadataUnavailable) {
		t.Fatalf("expected ErrMetadataUnavailable, got %v", err)
	}
}

func TestFetchMissingDownloadURL(t *testing.T) {
	fetcher := testFetcher(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"mime_type":"image/jpeg","id":"media-2"}`), nil
	})

	_, err := fetcher.Fetch(context.Background(), "media-2")
	if !errors.Is(err, domainMedia.ErrNoDownloadURL) {
		t.Fatalf("expected ErrNoDownloadURL, got %v", err)
	}
}

func TestFetchDownloadFailed(t *testing.T) {
	fetcher := testFetcher(t, func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Path, "media-3") {
			return jsonResponse(200, `{"url":"https://lookaside.example.com/file","mime_type":"image/png","id":"media-3"}`), nil
		}
		return jsonResponse(500, ""), nil
	})

	_, err := fetcher.Fetch(context.Background(), "media-3")
	if !errors.Is(err, domainMedia.ErrDownloadFailed) {
		t.Fatalf("expected ErrDownloadFailed, got %v", err)
	}
}

func TestFetchNoToken(t *testing.T) {
	cfg := &config.Config{}
	cfg.Paths.Media = t.TempDir()
	fetcher := NewFetcher(cfg, &fakeCredentials{}, &http.Client{})

	_, err := fetcher.Fetch(context.Background(), "media-4")
	if !errors.Is(err, domainMedia.ErrMetadataUnavailable) {
		t.Fatalf("expected ErrMetadataUnavailable, got %v", err)
	}
}

func TestFetchRejectsPathTraversalIDs(t *testing.T) {
	fetcher := testFetcher(t, func(*http.Request) (*http.Response, error) {
		t.Fatal("no request should be made for a rejected media id")
		return nil, nil
	})

	for _, id := range []string{"", "../../etc/cron.d/evil", "a/b", `a\b`, "x..y"} {
		_, err := fetcher.Fetch(context.Background(), id)
		if !errors.Is(err, domainMedia.ErrMetadataUnavailable) {
			t.Errorf("id %q: expected ErrMetadataUnavailable, got %v", id, err)
		}
	}
}

func TestExtensionFor(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":               "jpg",
		"image/jpeg; charset=bin":  "jpg",
		"application/pdf":          "pdf",
		"audio/ogg":                "ogg",
		"application/x-custom":     "x-custom",
		"":                         "bin",
		"weird":                    "bin",
		"application/../traversal": "bin",
	}
	for mime, want := range cases {
		if got := extensionFor(mime); got != want {
			t.Errorf("extensionFor(%q) = %q, want %q", mime, got, want)
		}
	}
}
