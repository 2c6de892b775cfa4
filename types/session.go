package types

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in the conversation history.
type Turn struct {
	Role    string `bson:"role" json:"role"`
	Content string `bson:"content" json:"content"`
}

// SessionState is everything tracked for one chat session: the active
// document, the running history and the selected model. It is persisted to
// the session store with a TTL after every request.
type SessionState struct {
	ID            string    `bson:"_id" json:"id"`
	DocumentHash  string    `bson:"document_hash" json:"document_hash"`
	DocumentTitle string    `bson:"document_title" json:"document_title"`
	Model         string    `bson:"model" json:"model"`
	History       []Turn    `bson:"history" json:"history"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}

// Ready reports whether a document has been ingested for this session.
func (s *SessionState) Ready() bool {
	return s != nil && s.DocumentHash != ""
}

// AppendTurn appends a user or assistant message to the history.
func (s *SessionState) AppendTurn(role, content string) {
	s.History = append(s.History, Turn{Role: role, Content: content})
}
