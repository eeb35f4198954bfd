// Package browser extracts the Vesper web session from installed browsers.
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/chrome"
	_ "github.com/browserutils/kooky/browser/chromium"
	_ "github.com/browserutils/kooky/browser/edge"
	_ "github.com/browserutils/kooky/browser/firefox"
	_ "github.com/browserutils/kooky/browser/opera"

	"github.com/ddomene/vesper/internal/config"
	"github.com/ddomene/vesper/internal/models"
)

// cookieDomain is the domain the session cookies live under.
const cookieDomain = "vesper.ai"

// SupportedBrowser represents a supported browser type
type SupportedBrowser string

const (
	BrowserAuto     SupportedBrowser = "auto"
	BrowserChrome   SupportedBrowser = "chrome"
	BrowserChromium SupportedBrowser = "chromium"
	BrowserFirefox  SupportedBrowser = "firefox"
	BrowserEdge     SupportedBrowser = "edge"
	BrowserOpera    SupportedBrowser = "opera"
)

// AllSupportedBrowsers returns a list of all supported browsers
func AllSupportedBrowsers() []SupportedBrowser {
	return []SupportedBrowser{
		BrowserChrome,
		BrowserChromium,
		BrowserFirefox,
		BrowserEdge,
		BrowserOpera,
	}
}

// String returns the string representation of the browser
func (b SupportedBrowser) String() string {
	return string(b)
}

// ParseBrowser parses a browser string into a SupportedBrowser
func ParseBrowser(s string) (SupportedBrowser, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return BrowserAuto, nil
	case "chrome", "google-chrome":
		return BrowserChrome, nil
	case "chromium":
		return BrowserChromium, nil
	case "firefox", "mozilla", "mozilla-firefox":
		return BrowserFirefox, nil
	case "edge", "microsoft-edge", "msedge":
		return BrowserEdge, nil
	case "opera":
		return BrowserOpera, nil
	default:
		return "", fmt.Errorf("unsupported browser: %s. Supported: chrome, chromium, firefox, edge, opera", s)
	}
}

// ExtractResult contains the result of a session extraction
type ExtractResult struct {
	Credential  *config.Credential
	BrowserName string
	Profile     string
}

// ExtractSession pulls the Vesper session cookies from the given browser,
// or from every supported browser in turn for BrowserAuto.
func ExtractSession(ctx context.Context, browser SupportedBrowser) (*ExtractResult, error) {
	if browser == BrowserAuto {
		return extractFromAll(ctx)
	}
	return extractFromBrowser(ctx, browser)
}

func extractFromAll(ctx context.Context) (*ExtractResult, error) {
	var lastErr error
	for _, b := range AllSupportedBrowsers() {
		result, err := extractFromBrowser(ctx, b)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("no browser holds a Vesper session (sign in at https://chat.%s first): %w", cookieDomain, lastErr)
	}
	return nil, fmt.Errorf("no supported browser found")
}

// extractFromBrowser tries every profile of one browser.
func extractFromBrowser(ctx context.Context, browser SupportedBrowser) (*ExtractResult, error) {
	stores := kooky.FindAllCookieStores(ctx)

	var matching []kooky.CookieStore
	var browserName string

	for _, store := range stores {
		name := store.Browser()
		if matchesBrowser(name, browser) {
			matching = append(matching, store)
			if browserName == "" {
				browserName = name
			}
		} else {
			_ = store.Close()
		}
	}

	if len(matching) == 0 {
		return nil, fmt.Errorf("browser %s not found or no cookie store available", browser)
	}

	var lastErr error
	for _, store := range matching {
		result, err := extractFromStore(ctx, store, browserName, store.Profile())
		_ = store.Close()
		if err == nil {
			for _, s := range matching {
				_ = s.Close()
			}
			return result, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// matchesBrowser checks if a store's browser name matches the target.
func matchesBrowser(browserName string, target SupportedBrowser) bool {
	browserName = strings.ToLower(browserName)

	switch target {
	case BrowserChrome:
		return strings.Contains(browserName, "chrome") && !strings.Contains(browserName, "chromium")
	case BrowserChromium:
		return strings.Contains(browserName, "chromium")
	case BrowserFirefox:
		return strings.Contains(browserName, "firefox")
	case BrowserEdge:
		return strings.Contains(browserName, "edge")
	case BrowserOpera:
		return strings.Contains(browserName, "opera")
	default:
		return false
	}
}

// extractFromStore reads the session cookies out of one cookie store.
func extractFromStore(ctx context.Context, store kooky.CookieStore, browserName, profile string) (*ExtractResult, error) {
	cookies := store.TraverseCookies(
		kooky.Valid,
		kooky.DomainContains(cookieDomain),
	).OnlyCookies()

	cred := &config.Credential{}
	for cookie := range cookies {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		switch cookie.Name {
		case models.SessionCookie:
			if cred.Session == "" {
				cred.Session = cookie.Value
			}
		case models.SessionCookie + "_rt":
			if cred.Refresh == "" {
				cred.Refresh = cookie.Value
			}
		}
	}

	if cred.Session == "" {
		return nil, fmt.Errorf("no Vesper session cookie in %s (profile %s)", browserName, profile)
	}

	return &ExtractResult{
		Credential:  cred,
		BrowserName: browserName,
		Profile:     profile,
	}, nil
}
