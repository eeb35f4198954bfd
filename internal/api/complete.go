package api

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	"github.com/ddomene/vesper/internal/apierr"
	"github.com/ddomene/vesper/internal/models"
)

// gjson paths into the completion response envelope.
const (
	pathReplyText      = "reply.text"
	pathReplyID        = "reply.id"
	pathConversationID = "conversation.id"
	pathModelName      = "model"
	pathErrorStatus    = "error.status"
	pathErrorMessage   = "error.message"
)

// xssiPrefix is the anti-JSON-hijacking prefix the service prepends to
// every JSON response.
const xssiPrefix = ")]}'"

// CompleteOptions contains per-call options for a completion request.
type CompleteOptions struct {
	Model models.Model
	// ConversationID and ReplyID tie the request to server-side context.
	ConversationID string
	ReplyID        string
}

// Complete sends a prompt and returns the completion, retrying recoverable
// failures under the client's retry policy. One call may therefore block
// for the full backoff schedule.
func (c *Client) Complete(ctx context.Context, prompt string, opts *CompleteOptions) (*models.Completion, error) {
	var out *models.Completion
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		completion, err := c.doComplete(ctx, prompt, opts)
		if err != nil {
			return err
		}
		out = completion
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// doComplete performs a single completion request.
func (c *Client) doComplete(ctx context.Context, prompt string, opts *CompleteOptions) (*models.Completion, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apierr.New(apierr.KindValidation, "complete", "empty prompt")
	}
	if c.IsClosed() {
		return nil, apierr.New(apierr.KindValidation, "complete", "client is closed")
	}

	model := c.Model()
	var convID, replyID string
	if opts != nil {
		if opts.Model.Name != "" {
			model = opts.Model
		}
		convID = opts.ConversationID
		replyID = opts.ReplyID
	}

	payload, err := buildPayload(prompt, convID, replyID)
	if err != nil {
		return nil, apierr.Wrap(apierr.KindUnknown, "build payload", err)
	}

	form := url.Values{}
	form.Set("at", c.CSRFToken())
	form.Set("req", payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		models.EndpointComplete, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apierr.Wrap(apierr.KindUnknown, "create request", err)
	}

	setDefaultHeaders(req)
	for key, value := range model.Header {
		req.Header.Set(key, value)
	}
	setSessionCookies(req, c.Credential())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierr.NewNetwork("complete", models.EndpointComplete, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apierr.FromStatus(resp.StatusCode, "complete", models.EndpointComplete, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.NewNetwork("read response", models.EndpointComplete, err)
	}

	return parseCompletion(body, model.Name)
}

// buildPayload encodes the request envelope for the completion endpoint.
func buildPayload(prompt, conversationID, replyID string) (string, error) {
	envelope := map[string]any{
		"prompt": prompt,
	}
	if conversationID != "" {
		envelope["conversation"] = map[string]string{
			"id":       conversationID,
			"reply_id": replyID,
		}
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseCompletion decodes a completion response body.
func parseCompletion(body []byte, modelName string) (*models.Completion, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(body)), xssiPrefix))
	if !gjson.Valid(raw) {
		return nil, apierr.New(apierr.KindServer, "parse response", "response is not valid JSON")
	}

	parsed := gjson.Parse(raw)

	if status := parsed.Get(pathErrorStatus); status.Exists() {
		return nil, errorFromStatus(status.String(), parsed.Get(pathErrorMessage).String(), modelName)
	}

	text := parsed.Get(pathReplyText)
	if !text.Exists() {
		return nil, apierr.New(apierr.KindServer, "parse response", "no reply text in response")
	}

	name := parsed.Get(pathModelName).String()
	if name == "" {
		name = modelName
	}

	return &models.Completion{
		Text:           text.String(),
		ConversationID: parsed.Get(pathConversationID).String(),
		ReplyID:        parsed.Get(pathReplyID).String(),
		Model:          name,
	}, nil
}

// errorFromStatus maps the service's error envelope onto the taxonomy.
func errorFromStatus(status, message, modelName string) error {
	if message == "" {
		message = "status " + status
	}

	var kind apierr.Kind
	switch status {
	case "UNAUTHENTICATED", "PERMISSION_DENIED":
		kind = apierr.KindAuth
	case "RESOURCE_EXHAUSTED":
		kind = apierr.KindRateLimit
	case "DEADLINE_EXCEEDED":
		kind = apierr.KindTimeout
	case "UNAVAILABLE", "INTERNAL":
		kind = apierr.KindServer
	case "BLOCKED", "SAFETY":
		kind = apierr.KindContentFilter
	case "INVALID_ARGUMENT", "FAILED_PRECONDITION":
		kind = apierr.KindValidation
	default:
		kind = apierr.KindUnknown
	}

	e := apierr.New(kind, "complete", message)
	e.Endpoint = models.EndpointComplete
	if kind == apierr.KindValidation && modelName != "" {
		e.Message = message + " (model " + modelName + ")"
	}
	return e
}
