// Package remotepdf downloads PDFs given by URL into a local cache so they can
// be inspected and uploaded like any local file.
package remotepdf

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/csheth/studyforge/internal/pdfinfo"
)

const (
	freshFor      = 24 * time.Hour
	partialSuffix = ".part"
	metaSuffix    = ".meta"
	fallbackName  = "download.pdf"
)

// ErrTooLarge is returned for bodies over the upload limit. Nothing is kept
// on disk for them.
var ErrTooLarge = errors.New("file size exceeds 50MB limit")

// Cache stores downloaded files under Dir, one subdirectory per URL so the
// original file name survives.
type Cache struct {
	dir      string
	client   *http.Client
	log      logrus.FieldLogger
	maxBytes int64
}

type meta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// New returns a cache rooted at dir. A nil client means http.DefaultClient.
func New(dir string, client *http.Client, logger logrus.FieldLogger) (*Cache, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("cache directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Cache{dir: dir, client: client, log: logger, maxBytes: pdfinfo.MaxUploadSize}, nil
}

// IsURL reports whether raw names an http or https resource.
func IsURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch returns a local path holding the body of rawURL. A copy younger than a
// day is reused; an older one is revalidated with its ETag or Last-Modified,
// and still served if the refresh fails. Interrupted downloads resume.
func (c *Cache) Fetch(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !IsURL(rawURL) {
		return "", fmt.Errorf("not an http(s) url: %q", rawURL)
	}
	p, err := c.pathsFor(rawURL)
	if err != nil {
		return "", err
	}
	entry := c.log.WithField("url", rawURL)

	info, statErr := os.Stat(p.file)
	if statErr == nil && info.Size() > 0 && time.Since(info.ModTime()) < freshFor {
		entry.Debug("remote pdf served from cache")
		return p.file, nil
	}

	prev, _ := readMeta(p.meta)
	got, err := c.download(ctx, rawURL, p, prev, info)
	if err == nil {
		return got, nil
	}
	if info != nil && info.Size() > 0 {
		entry.WithError(err).Warn("refresh failed, using stale copy")
		return p.file, nil
	}
	entry.WithError(err).Warn("remote pdf download failed")
	return "", err
}

type cachePaths struct {
	file    string
	meta    string
	partial string
}

func (c *Cache) pathsFor(rawURL string) (cachePaths, error) {
	dir := filepath.Join(c.dir, cacheKey(rawURL))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return cachePaths{}, err
	}
	file := filepath.Join(dir, fileName(rawURL))
	return cachePaths{file: file, meta: file + metaSuffix, partial: file + partialSuffix}, nil
}

func (c *Cache) download(ctx context.Context, rawURL string, p cachePaths, prev meta, current os.FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	if current != nil && current.Size() > 0 {
		if prev.ETag != "" {
			req.Header.Set("If-None-Match", prev.ETag)
		}
		if prev.LastModified != "" {
			req.Header.Set("If-Modified-Since", prev.LastModified)
		}
	}

	var partialSize int64
	if info, err := os.Stat(p.partial); err == nil && info.Size() > 0 {
		partialSize = info.Size()
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", partialSize))
		if prev.ETag != "" {
			req.Header.Set("If-Range", prev.ETag)
		} else if prev.LastModified != "" {
			req.Header.Set("If-Range", prev.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current != nil && current.Size() > 0 {
			prev.CachedAt = time.Now().UTC()
			now := time.Now()
			_ = os.Chtimes(p.file, now, now)
			return p.file, writeMeta(p.meta, prev)
		}
		return c.download(ctx, rawURL, p, meta{}, nil)
	case http.StatusOK:
		return c.save(resp, p, false)
	case http.StatusPartialContent:
		return c.save(resp, p, partialSize > 0)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("server answered %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}
}

func (c *Cache) save(resp *http.Response, p cachePaths, appendExisting bool) (string, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendExisting {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	var have int64
	if appendExisting {
		if info, err := os.Stat(p.partial); err == nil {
			have = info.Size()
		}
	}
	if resp.ContentLength >= 0 && have+resp.ContentLength > c.maxBytes {
		_ = os.Remove(p.partial)
		return "", ErrTooLarge
	}

	file, err := os.OpenFile(p.partial, flags, 0o644)
	if err != nil {
		return "", err
	}
	written, err := io.Copy(file, io.LimitReader(resp.Body, c.maxBytes-have+1))
	if err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if have+written > c.maxBytes {
		_ = os.Remove(p.partial)
		return "", ErrTooLarge
	}
	if err := os.Rename(p.partial, p.file); err != nil {
		return "", err
	}

	m := meta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
	}
	if info, err := os.Stat(p.file); err == nil {
		m.Size = info.Size()
	}
	c.log.WithFields(logrus.Fields{"url": m.URL, "size": m.Size, "resumed": appendExisting}).Info("remote pdf downloaded")
	if err := writeMeta(p.meta, m); err != nil {
		return "", err
	}
	return p.file, nil
}

func cacheKey(rawURL string) string {
	sum := sha1.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// fileName keeps the last path segment of the URL, which is what the backend
// will see as the upload's file name.
func fileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallbackName
	}
	name := path.Base(u.EscapedPath())
	if name == "" || name == "." || name == "/" {
		return fallbackName
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	name = strings.NewReplacer("/", "-", `\`, "-", "..", "-").Replace(name)
	if strings.TrimSpace(name) == "" {
		return fallbackName
	}
	return name
}

func readMeta(path string) (meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return meta{}, err
	}
	var m meta
	if err := json.Unmarshal(data, &m); err != nil {
		return meta{}, err
	}
	return m, nil
}

func writeMeta(path string, m meta) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
