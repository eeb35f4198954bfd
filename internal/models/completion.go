package models

// Completion represents a parsed reply from the completion endpoint.
type Completion struct {
	// Text is the assistant's response body.
	Text string
	// ConversationID ties follow-up turns to the same server-side context.
	ConversationID string
	// ReplyID identifies this reply within the conversation.
	ReplyID string
	// Model is the name of the model that produced the reply.
	Model string
}
