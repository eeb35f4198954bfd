package api

import (
	"context"
	"sync"

	"github.com/ddomene/vesper/internal/apierr"
	"github.com/ddomene/vesper/internal/models"
)

// ChatSession holds one conversation: the ordered, append-only message
// list (the client's only conversational state) plus the server-side
// context needed to continue it. At most one request may be in flight at
// a time; a second concurrent Send is rejected outright rather than
// queued.
type ChatSession struct {
	client CompletionClient

	mu             sync.RWMutex
	model          models.Model
	messages       []models.Message
	conversationID string
	replyID        string
	inFlight       bool
}

// NewChatSession creates a session bound to client using the given model.
func NewChatSession(client CompletionClient, model models.Model) *ChatSession {
	return &ChatSession{
		client: client,
		model:  model,
	}
}

// Send submits a user turn: appends the user message, performs the
// completion (with retries), and appends the assistant reply. On failure
// the error is recorded as an assistant-side error message and returned.
func (s *ChatSession) Send(ctx context.Context, prompt string) (*models.Completion, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, apierr.New(apierr.KindValidation, "send", "a request is already in flight")
	}
	s.inFlight = true
	s.appendLocked(models.NewUserMessage(prompt))
	opts := &CompleteOptions{
		Model:          s.model,
		ConversationID: s.conversationID,
		ReplyID:        s.replyID,
	}
	s.mu.Unlock()

	completion, err := s.client.Complete(ctx, prompt, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		s.appendLocked(models.NewErrorMessage(err))
		return nil, err
	}

	s.appendLocked(models.NewAssistantMessage(completion.Text))
	if completion.ConversationID != "" {
		s.conversationID = completion.ConversationID
	}
	if completion.ReplyID != "" {
		s.replyID = completion.ReplyID
	}
	return completion, nil
}

// appendLocked adds a message, dropping the oldest beyond the cap.
// Callers must hold s.mu.
func (s *ChatSession) appendLocked(msg models.Message) {
	s.messages = append(s.messages, msg)
	if over := len(s.messages) - models.MaxSessionMessages; over > 0 {
		s.messages = append([]models.Message(nil), s.messages[over:]...)
	}
}

// Messages returns a copy of the ordered message list.
func (s *ChatSession) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages in the session.
func (s *ChatSession) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Clear atomically drops every message and the server-side context.
// Derived values (code panels) are recomputed from the message list, so an
// empty list means no panel can survive a clear.
func (s *ChatSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.conversationID = ""
	s.replyID = ""
}

// ConversationID returns the server-side conversation ID.
func (s *ChatSession) ConversationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conversationID
}

// ReplyID returns the last reply ID.
func (s *ChatSession) ReplyID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replyID
}

// SetContext seeds the server-side context, used when resuming a stored
// conversation.
func (s *ChatSession) SetContext(conversationID, replyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationID = conversationID
	s.replyID = replyID
}

// Model returns the session's model.
func (s *ChatSession) Model() models.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// SetModel changes the session's model.
func (s *ChatSession) SetModel(model models.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = model
}
