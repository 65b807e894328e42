package models

// ChatRole identifies who produced a conversation turn.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ConversationTurn is one entry of the bounded chat history sent to the
// assistant as context.
type ConversationTurn struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
