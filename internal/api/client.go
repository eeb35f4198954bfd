// Package api implements the client for the Vesper completion service.
//
// The service fronts a web application, so the transport emulates a
// browser TLS profile and authenticates with the web session cookie. The
// surface is deliberately small: one outbound completion call per turn,
// wrapped in the retry policy.
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/ddomene/vesper/internal/config"
	"github.com/ddomene/vesper/internal/models"
	"github.com/ddomene/vesper/internal/retry"
)

// CompletionClient is the part of the client the TUI and session depend
// on. Satisfied by *Client and by MockClient in tests.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string, opts *CompleteOptions) (*models.Completion, error)
	Model() models.Model
}

// Client talks to the Vesper web API.
type Client struct {
	httpClient tls_client.HttpClient
	credential *config.Credential
	csrfToken  string
	model      models.Model
	policy     retry.Policy

	refresher       *SessionRefresher
	keepAlive       bool
	refreshInterval time.Duration

	mu     sync.RWMutex
	closed bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithModel sets the default model for the client
func WithModel(model models.Model) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p retry.Policy) ClientOption {
	return func(c *Client) {
		c.policy = p
	}
}

// WithKeepAlive controls the background session refresher.
func WithKeepAlive(enabled bool) ClientOption {
	return func(c *Client) {
		c.keepAlive = enabled
	}
}

// WithRefreshInterval sets the session refresh interval.
func WithRefreshInterval(interval time.Duration) ClientOption {
	return func(c *Client) {
		c.refreshInterval = interval
	}
}

// NewClient creates a Client for the given credential.
func NewClient(cred *config.Credential, opts ...ClientOption) (*Client, error) {
	if err := config.ValidateCredential(cred); err != nil {
		return nil, err
	}

	// Browser-profile TLS: the service rejects non-browser handshakes.
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(120),
		tls_client.WithClientProfile(profiles.Chrome_120),
		tls_client.WithNotFollowRedirects(),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	client := &Client{
		httpClient:      httpClient,
		credential:      cred,
		model:           models.DefaultModel,
		policy:          retry.DefaultPolicy(),
		keepAlive:       true,
		refreshInterval: 9 * time.Minute,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Init bootstraps the session: fetches the CSRF token and starts the
// keep-alive refresher.
func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("client is closed")
	}

	token, err := FetchSessionToken(ctx, c.httpClient, c.credential)
	if err != nil {
		return err
	}
	c.csrfToken = token

	if c.keepAlive {
		c.refresher = NewSessionRefresher(c.httpClient, c.credential, c.refreshInterval)
		c.refresher.Start()
	}

	return nil
}

// Close shuts down the client and stops background tasks
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true

	if c.refresher != nil {
		c.refresher.Stop()
	}
}

// CSRFToken returns the current anti-forgery token.
func (c *Client) CSRFToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrfToken
}

// Credential returns the credential the client authenticates with.
func (c *Client) Credential() *config.Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credential
}

// Model returns the default model
func (c *Client) Model() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel sets the default model
func (c *Client) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// StartChat creates a new chat session bound to this client.
func (c *Client) StartChat(model ...models.Model) *ChatSession {
	m := c.Model()
	if len(model) > 0 {
		m = model[0]
	}
	return NewChatSession(c, m)
}
