// Package net loads the bytes behind a URL for the browser: http(s) with
// redirects and caching, local files, data: payloads and about:blank.
package net

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"soyorin/pkg/url"
)

const (
	DefaultUserAgent    = "soyorin/1.0"
	DefaultMaxRedirects = 20
	DefaultTimeout      = 30 * time.Second
)

var (
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrBinaryContent    = errors.New("binary content")
)

// StatusError is returned for a final response outside 2xx.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.Code, e.URL)
}

// Connection fetches documents and stylesheets. It is safe for concurrent
// use when its cache is.
type Connection struct {
	client       *http.Client
	cache        Cache
	log          *zap.Logger
	userAgent    string
	maxRedirects int
	now          func() time.Time
}

type Option func(*Connection)

func WithCache(c Cache) Option { return func(conn *Connection) { conn.cache = c } }

func WithLogger(log *zap.Logger) Option {
	return func(conn *Connection) {
		if log != nil {
			conn.log = log
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(conn *Connection) {
		if ua != "" {
			conn.userAgent = ua
		}
	}
}

func WithMaxRedirects(n int) Option { return func(conn *Connection) { conn.maxRedirects = n } }

func WithTimeout(d time.Duration) Option { return func(conn *Connection) { conn.client.Timeout = d } }

// WithClock replaces time.Now for cache freshness checks.
func WithClock(now func() time.Time) Option { return func(conn *Connection) { conn.now = now } }

func NewConnection(opts ...Option) *Connection {
	c := &Connection{
		client: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cache:        NoCache{},
		log:          zap.NewNop(),
		userAgent:    DefaultUserAgent,
		maxRedirects: DefaultMaxRedirects,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("net")
	c.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) > c.maxRedirects {
			return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, c.maxRedirects)
		}
		c.log.Debug("Following redirect", zap.Stringer("to", req.URL), zap.Int("hops", len(via)))
		return nil
	}
	return c
}

// Request returns the text of the resource at u.
func (c *Connection) Request(ctx context.Context, u *url.URL) (string, error) {
	switch u.Kind {
	case url.About:
		return "", nil
	case url.Data:
		return requestData(u)
	case url.File:
		return requestFile(u)
	}
	return c.requestHTTP(ctx, u)
}

func requestData(u *url.URL) (string, error) {
	if u.Base64 {
		b, err := base64.StdEncoding.DecodeString(u.Payload)
		if err != nil {
			b, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(u.Payload, "="))
		}
		if err != nil {
			return "", fmt.Errorf("decoding data url: %w", err)
		}
		return string(b), nil
	}
	s, err := neturl.PathUnescape(u.Payload)
	if err != nil {
		return "", fmt.Errorf("decoding data url: %w", err)
	}
	return s, nil
}

func requestFile(u *url.URL) (string, error) {
	path := u.Path
	// file:///C:/dir/page.html
	if runtime.GOOS == "windows" && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if err := checkText(data); err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func (c *Connection) requestHTTP(ctx context.Context, u *url.URL) (string, error) {
	key := u.CacheKey()
	if content, ok := c.lookup(key); ok {
		return content, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{URL: key, Code: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	if err := checkText(raw); err != nil {
		return "", fmt.Errorf("fetching %s: %w", key, err)
	}
	content, err := decode(raw, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", key, err)
	}

	c.store(key, content, resp.Header.Get("Cache-Control"))
	return content, nil
}

// decode converts a body to UTF-8 using the declared or sniffed charset.
func decode(raw []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// checkText rejects bodies whose magic bytes say image, archive, audio or
// video.
func checkText(data []byte) error {
	head := data[:min(len(data), 262)]
	if filetype.IsImage(head) || filetype.IsArchive(head) || filetype.IsVideo(head) || filetype.IsAudio(head) {
		kind, _ := filetype.Match(head)
		return fmt.Errorf("%w: %s", ErrBinaryContent, kind.MIME.Value)
	}
	return nil
}

func (c *Connection) lookup(key string) (string, bool) {
	entry, ok, err := c.cache.Get(key)
	if err != nil {
		c.log.Warn("Cache lookup failed", zap.String("url", key), zap.Error(err))
		return "", false
	}
	if !ok {
		return "", false
	}
	if c.now().Sub(entry.Stored) >= entry.MaxAge {
		if err := c.cache.Delete(key); err != nil {
			c.log.Warn("Cache delete failed", zap.String("url", key), zap.Error(err))
		}
		return "", false
	}
	c.log.Debug("Cache hit", zap.String("url", key))
	return entry.Content, true
}

// store applies Cache-Control: no-store evicts, max-age=N caches for N
// seconds, anything else leaves the cache alone.
func (c *Connection) store(key, content, cacheControl string) {
	maxAge, noStore := parseCacheControl(cacheControl)
	var err error
	switch {
	case noStore:
		err = c.cache.Delete(key)
	case maxAge > 0:
		err = c.cache.Set(key, Entry{Content: content, MaxAge: maxAge, Stored: c.now()})
	}
	if err != nil {
		c.log.Warn("Cache update failed", zap.String("url", key), zap.Error(err))
	}
}

func parseCacheControl(v string) (maxAge time.Duration, noStore bool) {
	for _, d := range strings.Split(v, ",") {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "no-store" {
			noStore = true
			continue
		}
		if n, ok := strings.CutPrefix(d, "max-age="); ok {
			if secs, err := strconv.Atoi(n); err == nil && secs > 0 {
				maxAge = time.Duration(secs) * time.Second
			}
		}
	}
	return maxAge, noStore
}
