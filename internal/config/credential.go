package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ddomene/vesper/internal/apierr"
)

// Credential holds the web session cookie values used to authenticate
// against the service. The refresher goroutine rotates Refresh while
// requests read it, so shared instances go through the locked accessors.
type Credential struct {
	mu sync.RWMutex `json:"-"` // Not serialized

	// Session is the primary session cookie value. Required.
	Session string `json:"session"`
	// Refresh is the companion refresh cookie, when the browser had one.
	Refresh string `json:"refresh,omitempty"`
}

// GetSession returns the session cookie value in a thread-safe manner.
func (c *Credential) GetSession() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Session
}

// GetRefresh returns the refresh cookie value in a thread-safe manner.
func (c *Credential) GetRefresh() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Refresh
}

// Snapshot returns both values atomically (for serialization or HTTP requests).
func (c *Credential) Snapshot() (session, refresh string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Session, c.Refresh
}

// SetRefresh updates the refresh cookie after the service rotates it.
func (c *Credential) SetRefresh(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Refresh = value
}

// ValidateCredential checks that a credential is usable.
func ValidateCredential(cred *Credential) error {
	if cred == nil || cred.GetSession() == "" {
		return apierr.New(apierr.KindAuth, "validate credential",
			"no session credential; run 'vesper import-session' or paste one with 'vesper config set-credential'")
	}
	return nil
}

// GetCredentialPath returns the path to the credential file
func GetCredentialPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "credential.json"), nil
}

// LoadCredential loads the stored credential from disk.
func LoadCredential() (*Credential, error) {
	path, err := GetCredentialPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierr.New(apierr.KindAuth, "load credential",
				"no stored credential; run 'vesper import-session' first")
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to parse credential file: %w", err)
	}

	if err := ValidateCredential(&cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// SaveCredential writes the credential to disk with owner-only permissions.
func SaveCredential(cred *Credential) error {
	if err := ValidateCredential(cred); err != nil {
		return err
	}

	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	session, refresh := cred.Snapshot()
	data, err := json.MarshalIndent(&Credential{Session: session, Refresh: refresh}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential: %w", err)
	}

	path := filepath.Join(configDir, "credential.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}

	return nil
}
