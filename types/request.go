package types

// ChatRequest carries the non-file fields of a chat submission. The PDF, if
// any, travels alongside as multipart form file "file".
type ChatRequest struct {
	SessionID string `form:"session_id" json:"session_id"`
	Question  string `form:"question" json:"question"`
}

type ResetSessionRequest struct {
	SessionID string `json:"session_id"`
}

type SelectModelRequest struct {
	SessionID string `json:"session_id"`
	Model     string `json:"model"`
}
