package apierr

import (
	"context"
	"errors"
	"strings"
)

// Classify folds a foreign error into a kind by sniffing its message.
// The upstream surfaces mostly generic errors, so this is string matching
// by design; typed signals (context deadlines, cancellation) are checked
// first.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindNetwork
	}

	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg, "timed out", "timeout", "deadline exceeded"):
		return KindTimeout
	case containsAny(msg, "rate limit", "too many requests", "quota", "usage limit", "429"):
		return KindRateLimit
	case containsAny(msg, "unauthorized", "forbidden", "credential", "session expired",
		"not logged in", "authentication", "401", "403"):
		return KindAuth
	case containsAny(msg, "content blocked", "safety", "moderation", "filtered"):
		return KindContentFilter
	case containsAny(msg, "internal server", "bad gateway", "service unavailable",
		"overloaded", "500", "502", "503"):
		return KindServer
	case containsAny(msg, "invalid request", "prompt too long", "empty prompt",
		"validation", "malformed", "400"):
		return KindValidation
	case containsAny(msg, "connection refused", "connection reset", "no such host",
		"network is unreachable", "dial tcp", "broken pipe", "eof", "tls handshake"):
		return KindNetwork
	default:
		return KindUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Info is the user-facing view of a failure.
type Info struct {
	Kind            Kind
	Message         string
	Recoverable     bool
	Actionable      bool
	SuggestedAction string
}

// Describe builds the display info for err: its kind, whether the client
// may retry it, and what the user can do about it.
func Describe(err error) Info {
	kind := KindOf(err)
	info := Info{
		Kind:        kind,
		Message:     err.Error(),
		Recoverable: kind.Recoverable(),
	}

	switch kind {
	case KindAuth:
		info.Actionable = true
		info.SuggestedAction = "run 'vesper import-session' to refresh your credential"
	case KindRateLimit:
		info.SuggestedAction = "wait a moment, or switch to a different model"
	case KindNetwork:
		info.SuggestedAction = "check your internet connection"
	case KindTimeout:
		info.SuggestedAction = "try again"
	case KindServer:
		info.SuggestedAction = "the service is having trouble; try again later"
	case KindContentFilter:
		info.SuggestedAction = "rephrase the prompt"
	case KindValidation:
		info.SuggestedAction = "shorten or adjust the prompt"
	}

	return info
}
