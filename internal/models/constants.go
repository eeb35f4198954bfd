// Package models contains data types and constants for the Vesper web API.
package models

// Endpoints for the Vesper web application.
const (
	EndpointApp      = "https://chat.vesper.ai/app"
	EndpointComplete = "https://chat.vesper.ai/api/chat/complete"
	EndpointRefresh  = "https://chat.vesper.ai/api/session/refresh"
)

// SessionCookie is the cookie carrying the web session credential.
const SessionCookie = "__vesper_session"

// MaxSessionMessages caps the in-memory conversation. Once the cap is
// reached the oldest messages are dropped; the list never grows past it.
const MaxSessionMessages = 50

// Model represents an available completion model.
type Model struct {
	Name   string
	Header map[string]string
}

// Available models
var (
	ModelSwift = Model{
		Name: "vesper-swift",
		Header: map[string]string{
			"x-vesper-model": "swift",
		},
	}

	ModelSage = Model{
		Name: "vesper-sage",
		Header: map[string]string{
			"x-vesper-model": "sage",
		},
	}

	// DefaultModel is the recommended default
	DefaultModel = ModelSwift
)

// AllModels returns a list of all available models
func AllModels() []Model {
	return []Model{ModelSwift, ModelSage}
}

// ModelFromName returns a Model by its name, falling back to the default
// for unknown names.
func ModelFromName(name string) Model {
	switch name {
	case "vesper-swift", "swift", "fast":
		return ModelSwift
	case "vesper-sage", "sage", "pro":
		return ModelSage
	default:
		return DefaultModel
	}
}

// DefaultHeaders returns the base headers sent with every request.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type":    "application/x-www-form-urlencoded;charset=UTF-8",
		"Host":            "chat.vesper.ai",
		"Origin":          "https://chat.vesper.ai",
		"Referer":         "https://chat.vesper.ai/",
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"X-Same-Domain":   "1",
		"Accept-Language": "en-US,en;q=0.9",
	}
}
