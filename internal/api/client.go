// Package api provides the ladder backend client implementation.
package api

import (
	"fmt"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/sirupsen/logrus"

	"github.com/diogo/ladderweb/internal/logging"
)

// HTTPDoer is the part of tls_client.HttpClient the client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// LadderClient talks to the ladder backend over JSON
type LadderClient struct {
	httpClient  HTTPDoer
	baseURL     string
	timeout     time.Duration
	insecureTLS bool
	log         *logrus.Entry
	mu          sync.RWMutex
	closed      bool
}

// ClientOption is a function that configures the client
type ClientOption func(*LadderClient)

// WithHTTPClient replaces the transport, mainly for tests
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *LadderClient) {
		c.httpClient = doer
	}
}

// WithTimeout sets the transport timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *LadderClient) {
		c.timeout = d
	}
}

// WithInsecureTLS disables certificate verification for self-signed backends
func WithInsecureTLS(insecure bool) ClientOption {
	return func(c *LadderClient) {
		c.insecureTLS = insecure
	}
}

// WithLogger sets the log entry used for request tracing
func WithLogger(entry *logrus.Entry) ClientOption {
	return func(c *LadderClient) {
		c.log = entry
	}
}

// NewClient creates a new LadderClient for baseURL
func NewClient(baseURL string, opts ...ClientOption) (*LadderClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("base URL must start with http:// or https://, got %q", baseURL)
	}

	client := &LadderClient{
		baseURL: baseURL,
		timeout: 300 * time.Second,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.log == nil {
		client.log = logging.Component("api")
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}
		if client.insecureTLS {
			options = append(options, tls_client.WithInsecureSkipVerify())
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the backend root
func (c *LadderClient) BaseURL() string {
	return c.baseURL
}

// Close marks the client closed; later calls fail fast
func (c *LadderClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *LadderClient) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
