package models

import "time"

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is a single turn in the conversation. Messages are append-only
// view models: once created they are never mutated, and the ordered list
// they live in is the only conversational state the client keeps.
type Message struct {
	Content   string
	Sender    Sender
	Timestamp time.Time
	// Err carries the failure that produced this message, if any.
	// Only assistant-side messages ever have one.
	Err error
}

// NewUserMessage creates a user-side message stamped with the current time.
func NewUserMessage(content string) Message {
	return Message{
		Content:   content,
		Sender:    SenderUser,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant-side message stamped with the
// current time.
func NewAssistantMessage(content string) Message {
	return Message{
		Content:   content,
		Sender:    SenderAssistant,
		Timestamp: time.Now(),
	}
}

// NewErrorMessage creates an assistant-side message recording a failed turn.
func NewErrorMessage(err error) Message {
	m := NewAssistantMessage("")
	m.Err = err
	return m
}
