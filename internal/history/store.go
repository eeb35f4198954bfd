// Package history provides local conversation history storage.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ddomene/vesper/internal/config"
	"github.com/ddomene/vesper/internal/models"
)

// Message is a persisted conversation turn.
type Message struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation represents a complete chat conversation
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`

	// Server-side context for resuming.
	ConversationID string `json:"conversation_id,omitempty"`
	ReplyID        string `json:"reply_id,omitempty"`
}

// Store manages conversation history persistence
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// DefaultStore opens the store under the vesper config directory.
func DefaultStore() (*Store, error) {
	dir, err := config.EnsureConfigDir()
	if err != nil {
		return nil, err
	}
	return NewStore(dir)
}

// NewStore creates a history store rooted at baseDir/history.
func NewStore(baseDir string) (*Store, error) {
	historyDir := filepath.Join(baseDir, "history")
	if err := os.MkdirAll(historyDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &Store{baseDir: historyDir}, nil
}

// Create starts a new conversation for the given model.
func (s *Store) Create(model string) (*Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	conv := &Conversation{
		ID:        uuid.NewString(),
		Title:     "New conversation",
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.writeLocked(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// AddMessage appends a turn to a stored conversation. The first user turn
// becomes the conversation title.
func (s *Store) AddMessage(id string, sender models.Sender, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.readLocked(id)
	if err != nil {
		return err
	}

	conv.Messages = append(conv.Messages, Message{
		Role:      string(sender),
		Content:   content,
		Timestamp: time.Now(),
	})
	if sender == models.SenderUser && conv.Title == "New conversation" {
		conv.Title = titleFrom(content)
	}
	conv.UpdatedAt = time.Now()

	return s.writeLocked(conv)
}

// SetContext records the server-side context for resuming.
func (s *Store) SetContext(id, conversationID, replyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.readLocked(id)
	if err != nil {
		return err
	}
	conv.ConversationID = conversationID
	conv.ReplyID = replyID
	conv.UpdatedAt = time.Now()
	return s.writeLocked(conv)
}

// Get loads one conversation.
func (s *Store) Get(id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readLocked(id)
}

// List returns all conversations, newest first.
func (s *Store) List() ([]*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	var convs []*Conversation
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		conv, err := s.readLocked(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue // skip unreadable entries
		}
		convs = append(convs, conv)
	}

	sort.Slice(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
	return convs, nil
}

// Delete removes one conversation.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(id)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("conversation %s not found", id)
		}
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// DeleteAll removes every stored conversation.
func (s *Store) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("failed to read history directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			if err := os.Remove(filepath.Join(s.baseDir, entry.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) pathFor(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *Store) readLocked(id string) (*Conversation, error) {
	data, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("conversation %s not found", id)
		}
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to parse conversation %s: %w", id, err)
	}
	return &conv, nil
}

func (s *Store) writeLocked(conv *Conversation) error {
	data, err := json.MarshalIndent(conv, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	if err := os.WriteFile(s.pathFor(conv.ID), data, 0o600); err != nil {
		return fmt.Errorf("failed to write conversation: %w", err)
	}
	return nil
}

// titleFrom derives a short title from the first prompt.
func titleFrom(content string) string {
	title := strings.TrimSpace(content)
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	const max = 60
	if len(title) > max {
		title = title[:max-3] + "..."
	}
	if title == "" {
		title = "New conversation"
	}
	return title
}
