package api

import (
	"context"
	"sync"

	"github.com/ddomene/vesper/internal/models"
)

// MockClient is a canned CompletionClient for tests and offline TUI work.
type MockClient struct {
	mu sync.Mutex
	// Responses are returned in order; the last one repeats.
	Responses []*models.Completion
	// Errs are consulted first, in order; a nil entry means success.
	Errs  []error
	calls int

	// Prompts records everything sent through Complete.
	Prompts []string
}

// NewMockClient returns a mock that always answers with text.
func NewMockClient(text string) *MockClient {
	return &MockClient{
		Responses: []*models.Completion{{
			Text:           text,
			ConversationID: "conv-mock",
			ReplyID:        "reply-mock",
			Model:          models.DefaultModel.Name,
		}},
	}
}

// Complete implements CompletionClient.
func (m *MockClient) Complete(_ context.Context, prompt string, _ *CompleteOptions) (*models.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := m.calls
	m.calls++
	m.Prompts = append(m.Prompts, prompt)

	if call < len(m.Errs) && m.Errs[call] != nil {
		return nil, m.Errs[call]
	}

	if len(m.Responses) == 0 {
		return &models.Completion{Text: "", Model: models.DefaultModel.Name}, nil
	}
	if call >= len(m.Responses) {
		return m.Responses[len(m.Responses)-1], nil
	}
	return m.Responses[call], nil
}

// Model implements CompletionClient.
func (m *MockClient) Model() models.Model { return models.DefaultModel }

// Calls returns how many times Complete ran.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
