package api

import (
	http "github.com/bogdanfinn/fhttp"

	"github.com/ddomene/vesper/internal/config"
	"github.com/ddomene/vesper/internal/models"
)

// setDefaultHeaders applies the base browser-emulation headers.
func setDefaultHeaders(req *http.Request) {
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
}

// setSessionCookies attaches the session credential cookies. Reads a
// snapshot so the refresher can rotate the credential mid-request.
func setSessionCookies(req *http.Request, cred *config.Credential) {
	session, refresh := cred.Snapshot()
	req.AddCookie(&http.Cookie{Name: models.SessionCookie, Value: session})
	if refresh != "" {
		req.AddCookie(&http.Cookie{Name: models.SessionCookie + "_rt", Value: refresh})
	}
}
