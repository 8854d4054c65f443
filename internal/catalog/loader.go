package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/psviderski/cpualloc/pkg/api"
)

const (
	// defaultMaxSize is the default maximum size of a catalog document fetched over HTTP.
	defaultMaxSize = 16 << 20

	defaultMaxRetries    = 4
	defaultRetryInterval = 200 * time.Millisecond
)

// Loader loads catalogs from local files or HTTP(S) URLs.
type Loader struct {
	// Client is the HTTP client used to fetch remote catalogs.
	Client *http.Client
	// MaxRetries is the maximum number of retries for fetching a remote catalog after a transient failure.
	MaxRetries uint64
	// RetryInterval is the initial interval between retries. It grows exponentially with each retry.
	RetryInterval time.Duration
	// MaxSize is the maximum size of a remote catalog in bytes. Zero means the default of 16 MiB.
	MaxSize int64
}

func NewLoader() *Loader {
	return &Loader{
		Client:        &http.Client{Timeout: 30 * time.Second},
		MaxRetries:    defaultMaxRetries,
		RetryInterval: defaultRetryInterval,
		MaxSize:       defaultMaxSize,
	}
}

// Load loads a catalog from the source which is either a file path or an HTTP(S) URL.
func Load(ctx context.Context, source string) ([]api.Offer, error) {
	return NewLoader().Load(ctx, source)
}

// Load loads a catalog from the source which is either a file path or an HTTP(S) URL.
func (l *Loader) Load(ctx context.Context, source string) ([]api.Offer, error) {
	if source == "" {
		return nil, fmt.Errorf("load catalog: %w: source not specified", ErrNoData)
	}

	var (
		offers []api.Offer
		err    error
	)
	if IsURL(source) {
		offers, err = l.Fetch(ctx, source)
	} else {
		offers, err = LoadFile(source)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("Catalog loaded.", "source", source, "offers", len(offers), "regions", len(Regions(offers)))
	return offers, nil
}

// LoadFile loads a catalog from a JSON, YAML, or TOML file.
func LoadFile(path string) ([]api.Offer, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file '%s': %w", path, err)
	}

	offers, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("load catalog file '%s': %w", path, err)
	}
	return offers, nil
}

// Fetch downloads a catalog from an HTTP(S) URL retrying on network errors and server-side failures.
// The catalog format is determined by the URL path extension or the response Content-Type.
func (l *Loader) Fetch(ctx context.Context, rawURL string) ([]api.Offer, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse catalog URL: %w", err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	maxSize := l.MaxSize
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}

	var (
		data        []byte
		contentType string
		attempt     int
	)
	get := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json, application/yaml, application/toml")

		resp, err := client.Do(req)
		if err != nil {
			slog.Debug("Failed to fetch catalog, retrying.", "url", u.Redacted(), "attempt", attempt, "err", err)
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			slog.Debug("Failed to fetch catalog, retrying.", "url", u.Redacted(), "attempt", attempt,
				"status", resp.Status)
			return fmt.Errorf("unexpected response status: %s", resp.Status)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected response status: %s", resp.Status))
		}

		// Read one byte over the limit to tell a truncated document from one of exactly the maximum size.
		data, err = io.ReadAll(io.LimitReader(resp.Body, maxSize+1))
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}
		if int64(len(data)) > maxSize {
			return backoff.Permanent(fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, maxSize))
		}
		contentType = resp.Header.Get("Content-Type")
		return nil
	}

	boff := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(l.RetryInterval),
		backoff.WithMaxInterval(5*time.Second),
		backoff.WithMaxElapsedTime(0),
	), l.MaxRetries), ctx)
	if err = backoff.Retry(get, boff); err != nil {
		return nil, fmt.Errorf("fetch catalog '%s': %w", u.Redacted(), err)
	}

	format, err := FormatFromPath(u.Path)
	if err != nil {
		format = formatFromContentType(contentType)
	}
	offers, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("load catalog '%s': %w", u.Redacted(), err)
	}
	return offers, nil
}

// IsURL returns true if the source is an HTTP(S) URL.
func IsURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
