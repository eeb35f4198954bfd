package api

import (
	"sync"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/ddomene/vesper/internal/config"
	"github.com/ddomene/vesper/internal/models"
)

// rotatingMock returns a fresh 200 response per call that rotates the
// refresh cookie to value.
func rotatingMock(value string) *MockHttpClient {
	return &MockHttpClient{
		DoFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			resp := newMockResponse(200, []byte("{}"))
			resp.Header.Add("Set-Cookie", models.SessionCookie+"_rt="+value)
			return resp, nil
		},
	}
}

func TestRefresherStartStopIdempotent(t *testing.T) {
	r := NewSessionRefresher(NewMockHttpClient([]byte("{}"), 200), testCredential(), time.Hour)

	r.Start()
	r.Start() // second start must not spawn a second loop
	r.Stop()
	r.Stop() // second stop must not block or panic
}

func TestRefresherStopWithoutStart(t *testing.T) {
	r := NewSessionRefresher(NewMockHttpClient([]byte("{}"), 200), testCredential(), time.Hour)
	r.Stop()
}

func TestRefreshOnceRotatesCredential(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())

	client := rotatingMock("rotated-token")
	cred := testCredential()
	r := NewSessionRefresher(client, cred, time.Hour)

	r.refreshOnce()

	if got := cred.GetRefresh(); got != "rotated-token" {
		t.Errorf("Refresh = %q, want %q", got, "rotated-token")
	}

	req := client.LastRequest()
	if req == nil {
		t.Fatal("no request captured")
	}
	if req.URL.String() != models.EndpointRefresh {
		t.Errorf("request URL = %q, want %q", req.URL.String(), models.EndpointRefresh)
	}
	if err := req.ParseForm(); err == nil {
		if got := req.PostForm.Get("rt"); got != "test-refresh" {
			t.Errorf("rt form value = %q, want the pre-rotation token", got)
		}
	}

	// The rotated token must survive restarts.
	loaded, err := config.LoadCredential()
	if err != nil {
		t.Fatalf("LoadCredential() error = %v", err)
	}
	if loaded.GetRefresh() != "rotated-token" {
		t.Errorf("persisted Refresh = %q, want %q", loaded.GetRefresh(), "rotated-token")
	}
}

func TestRefreshOnceIgnoresMissingCookie(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())

	cred := testCredential()
	r := NewSessionRefresher(NewMockHttpClient([]byte("{}"), 200), cred, time.Hour)

	r.refreshOnce()

	if got := cred.GetRefresh(); got != "test-refresh" {
		t.Errorf("Refresh = %q, want it untouched", got)
	}
}

func TestRefreshConcurrentWithRequests(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())

	cred := testCredential()
	r := NewSessionRefresher(rotatingMock("rotated-token"), cred, time.Hour)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			r.refreshOnce()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			req, err := fhttp.NewRequest(fhttp.MethodPost, models.EndpointComplete, nil)
			if err != nil {
				t.Error(err)
				return
			}
			setSessionCookies(req, cred)
		}
	}()

	wg.Wait()

	if got := cred.GetRefresh(); got != "rotated-token" {
		t.Errorf("Refresh = %q, want %q", got, "rotated-token")
	}
}
