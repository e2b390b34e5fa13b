package dto

// ChatTurnDTO is a single prior turn supplied by the client.
type ChatTurnDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

type ChatQueryRequest struct {
	Message     string        `json:"message" validate:"required"`
	ChatHistory []ChatTurnDTO `json:"chat_history" validate:"omitempty,dive"`
	FileIds     []string      `json:"file_ids"`
	UserId      string        `json:"user_id"`
}

// SourceDTO is one retrieved passage that backed the answer.
type SourceDTO struct {
	Text     string  `json:"text"`
	Score    float64 `json:"score"`
	Filename string  `json:"filename"`
	FileId   string  `json:"file_id"`
}

type ChatQueryResponse struct {
	Response string      `json:"response"`
	Sources  []SourceDTO `json:"sources"`
}

// StreamEvent is one server-sent event on the streaming chat endpoint.
// Type is one of "content", "sources", "error", "done".
type StreamEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
