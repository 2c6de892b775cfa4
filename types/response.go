package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

type ResetSessionResponse struct {
	SessionID string `json:"session_id"`
}

type SessionHistoryResponse struct {
	SessionID     string `json:"session_id"`
	DocumentTitle string `json:"document_title,omitempty"`
	Model         string `json:"model,omitempty"`
	History       []Turn `json:"history"`
}
