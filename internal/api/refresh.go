package api

import (
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"

	"github.com/ddomene/vesper/internal/config"
	"github.com/ddomene/vesper/internal/models"
)

// SessionRefresher pings the session refresh endpoint periodically so the
// web session does not idle out during long chats. Failures are silent;
// the next real request will surface an auth error if the session died.
type SessionRefresher struct {
	httpClient tls_client.HttpClient
	credential *config.Credential
	interval   time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewSessionRefresher creates a refresher for the given credential.
func NewSessionRefresher(client tls_client.HttpClient, cred *config.Credential, interval time.Duration) *SessionRefresher {
	if interval <= 0 {
		interval = 9 * time.Minute
	}
	return &SessionRefresher{
		httpClient: client,
		credential: cred,
		interval:   interval,
	}
}

// Start launches the background refresh loop. Idempotent.
func (r *SessionRefresher) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.running = true
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	go r.loop(r.stop, r.done)
}

// Stop halts the loop and waits for it to exit. Idempotent.
func (r *SessionRefresher) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	close(r.stop)
	done := r.done
	r.mu.Unlock()

	<-done
}

func (r *SessionRefresher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.refreshOnce()
		}
	}
}

// refreshOnce performs a single keep-alive request, updating the stored
// refresh token when the service rotates it.
func (r *SessionRefresher) refreshOnce() {
	form := url.Values{}
	form.Set("rt", r.credential.GetRefresh())

	req, err := http.NewRequest(http.MethodPost, models.EndpointRefresh, strings.NewReader(form.Encode()))
	if err != nil {
		return
	}
	setDefaultHeaders(req)
	setSessionCookies(req, r.credential)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	for _, cookie := range resp.Cookies() {
		if cookie.Name == models.SessionCookie+"_rt" && cookie.Value != "" {
			r.credential.SetRefresh(cookie.Value)
			// Persist so the rotated token survives restarts.
			_ = config.SaveCredential(r.credential)
		}
	}
}
