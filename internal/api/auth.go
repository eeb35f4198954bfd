package api

import (
	"context"
	"io"
	"regexp"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"

	"github.com/ddomene/vesper/internal/apierr"
	"github.com/ddomene/vesper/internal/config"
	"github.com/ddomene/vesper/internal/models"
)

// csrfPattern extracts the anti-forgery token embedded in the app shell.
var csrfPattern = regexp.MustCompile(`"csrfToken":"([^"]+)"`)

// FetchSessionToken loads the app shell with the session cookie and
// scrapes the CSRF token every API call must carry.
func FetchSessionToken(ctx context.Context, client tls_client.HttpClient, cred *config.Credential) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, models.EndpointApp, nil)
	if err != nil {
		return "", apierr.Wrap(apierr.KindUnknown, "create token request", err)
	}

	setDefaultHeaders(req)
	setSessionCookies(req, cred)

	resp, err := client.Do(req)
	if err != nil {
		return "", apierr.NewNetwork("fetch session token", models.EndpointApp, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		e := apierr.FromStatus(resp.StatusCode, "fetch session token", models.EndpointApp, string(body))
		if e.Kind == apierr.KindUnknown {
			// A non-auth status on the app shell still means the
			// session is unusable.
			e.Kind = apierr.KindAuth
		}
		return "", e
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierr.NewNetwork("read token response", models.EndpointApp, err)
	}

	matches := csrfPattern.FindSubmatch(body)
	if len(matches) < 2 {
		return "", apierr.NewAuth("fetch session token", models.EndpointApp,
			"no csrf token in app shell; the session credential has likely expired")
	}

	return string(matches[1]), nil
}
