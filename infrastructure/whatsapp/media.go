package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/wadesk/wadesk/core/config"
	domainCredential "github.com/wadesk/wadesk/domains/credential"
	domainMedia "github.com/wadesk/wadesk/domains/media"
)

// extensionByMime maps the MIME types the provider commonly declares to a
// file extension. Unknown types fall back to the MIME subtype, then "bin".
var extensionByMime = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"application/pdf": "pdf",
	"video/mp4":       "mp4",
	"audio/ogg":       "ogg",
	"audio/mpeg":      "mp3",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
}

type mediaMetadata struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
	ID       string `json:"id"`
}

// Fetcher downloads provider media through the two-step protocol: resolve
// the media id to a short-lived signed URL, then download the bytes. Both
// calls carry the bearer token.
type Fetcher struct {
	apiVersion  string
	credentials domainCredential.ICredentialUsecase
	mediaDir    string
	publicBase  string
	http        *http.Client
}

func NewFetcher(cfg *config.Config, credentials domainCredential.ICredentialUsecase, httpClient *http.Client) *Fetcher {
	if httpClient == nil {
		timeout := cfg.Whatsapp.HTTPTimeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Fetcher{
		apiVersion:  cfg.Whatsapp.APIVersion,
		credentials: credentials,
		mediaDir:    cfg.Paths.Media,
		publicBase:  "/statics/media",
		http:        httpClient,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, mediaID string) (domainMedia.Asset, error) {
	// The media id comes off an untrusted envelope and becomes a filename.
	if mediaID == "" || strings.ContainsAny(mediaID, "/\\") || strings.Contains(mediaID, "..") {
		return domainMedia.Asset{}, fmt.Errorf("%w: invalid media id %q", domainMedia.ErrMetadataUnavailable, mediaID)
	}

	token := f.credentials.CurrentToken(ctx)
	if token == "" {
		return domainMedia.Asset{}, fmt.Errorf("%w: no access token configured", domainMedia.ErrMetadataUnavailable)
	}

	meta, err := f.resolveMetadata(ctx, mediaID, token)
	if err != nil {
		return domainMedia.Asset{}, err
	}
	if meta.URL == "" {
		return domainMedia.Asset{}, domainMedia.ErrNoDownloadURL
	}

	data, err := f.download(ctx, meta.URL, token)
	if err != nil {
		return domainMedia.Asset{}, err
	}

	filename := mediaID + "." + extensionFor(meta.MimeType)
	storagePath := filepath.Join(f.mediaDir, filename)
	if err := writeFileAtomic(storagePath, data); err != nil {
		return domainMedia.Asset{}, fmt.Errorf("persist media %s: %w", mediaID, err)
	}

	logrus.Infof("[MEDIA] stored %s (%s, %s)", filename, meta.MimeType, humanize.Bytes(uint64(len(data))))
	return domainMedia.Asset{
		StoragePath: storagePath,
		PublicPath:  path.Join(f.publicBase, filename),
		ContentType: meta.MimeType,
	}, nil
}

func (f *Fetcher) resolveMetadata(ctx context.Context, mediaID, token string) (mediaMetadata, error) {
	url := fmt.Sprintf("%s/%s/%s", graphBaseURL, f.apiVersion, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return mediaMetadata{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := f.http.Do(req)
	if err != nil {
		return mediaMetadata{}, fmt.Errorf("%w: %v", domainMedia.ErrMetadataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mediaMetadata{}, fmt.Errorf("%w: status %d", domainMedia.ErrMetadataUnavailable, resp.StatusCode)
	}

	var meta mediaMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return mediaMetadata{}, fmt.Errorf("%w: %v", domainMedia.ErrMetadataUnavailable, err)
	}
	return meta, nil
}

func (f *Fetcher) download(ctx context.Context, url, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// The signed URL itself still requires the bearer token.
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainMedia.ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domainMedia.ErrDownloadFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainMedia.ErrDownloadFailed, err)
	}
	return data, nil
}

// writeFileAtomic writes to a temp file and renames it into place so a
// crash mid-write never leaves a truncated file behind the public path.
func writeFileAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func extensionFor(mimeType string) string {
	mt := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	if ext, ok := extensionByMime[mt]; ok {
		return ext
	}
	if i := strings.Index(mt, "/"); i >= 0 && i+1 < len(mt) {
		sub := mt[i+1:]
		if sub != "" && !strings.ContainsAny(sub, "./\\") {
			return sub
		}
	}
	return "bin"
}
