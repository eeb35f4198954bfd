package commands

import (
	"strings"
	"testing"

	"github.com/ddomene/vesper/internal/apierr"
	"github.com/ddomene/vesper/internal/history"
	"github.com/ddomene/vesper/internal/models"
)

func TestFormatErrorMessage(t *testing.T) {
	err := apierr.NewAuth("complete", models.EndpointComplete, "session expired")
	out := formatErrorMessage(err, "Request failed")

	if !strings.Contains(out, "Request failed") {
		t.Error("context missing from formatted error")
	}
	if !strings.Contains(out, "auth") {
		t.Error("kind missing from formatted error")
	}
	if !strings.Contains(out, "import-session") {
		t.Error("auth errors should point at import-session")
	}
}

func TestFormatErrorMessageNil(t *testing.T) {
	if got := formatErrorMessage(nil, "x"); got != "" {
		t.Errorf("formatErrorMessage(nil) = %q, want empty", got)
	}
}

func TestRecordQueryPersistsExchange(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())

	recordQuery("write a loop", &models.Completion{
		Text:           "```go\nfor {}\n```",
		ConversationID: "conv-1",
		ReplyID:        "reply-1",
		Model:          "vesper-swift",
	})

	store, err := history.DefaultStore()
	if err != nil {
		t.Fatal(err)
	}
	conversations, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(conversations) != 1 {
		t.Fatalf("conversations = %d, want 1", len(conversations))
	}

	conv := conversations[0]
	if len(conv.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(conv.Messages))
	}
	if conv.ConversationID != "conv-1" || conv.ReplyID != "reply-1" {
		t.Error("server context not recorded")
	}
	if conv.Title != "write a loop" {
		t.Errorf("Title = %q", conv.Title)
	}
}

func TestRunQueryRejectsEmptyPrompt(t *testing.T) {
	if err := runQuery("   \n ", true); err == nil {
		t.Error("blank prompt should be rejected")
	}
}
