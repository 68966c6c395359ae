// Package assistant implements the conversational core of runbook: the
// command interpreter that turns raw user text plus the current run state
// into replies, the next run state, and optionally a closed run record.
package assistant

import "github.com/google/uuid"

// Role identifies which side of the conversation a message belongs to.
type Role string

const (
	// RoleAssistant marks messages produced by the interpreter.
	RoleAssistant Role = "assistant"
	// RoleUser marks messages produced by the person typing.
	RoleUser Role = "user"
)

// Message is a single chat message. It is a transport artifact: the only
// invariant is id uniqueness.
type Message struct {
	ID      string
	Role    Role
	Content string
}

// NewAssistantMessage creates an assistant message with a fresh id.
func NewAssistantMessage(content string) Message {
	return Message{ID: uuid.NewString(), Role: RoleAssistant, Content: content}
}

// NewUserMessage creates a user message with a fresh id.
func NewUserMessage(content string) Message {
	return Message{ID: uuid.NewString(), Role: RoleUser, Content: content}
}
