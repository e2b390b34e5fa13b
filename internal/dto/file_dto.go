package dto

import "time"

type FileUploadResponse struct {
	FileId   string `json:"file_id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Message  string `json:"message"`
}

type FileInfoDTO struct {
	FileId      string    `json:"file_id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ChunksCount int       `json:"chunks_count"`
}

type FileListResponse struct {
	Files []FileInfoDTO `json:"files"`
}

type FileDeleteResponse struct {
	FileId  string `json:"file_id"`
	Message string `json:"message"`
}

// FileEmbedEvent is published to the ingestion topic after an upload is
// accepted; the consumer chunks and embeds the file asynchronously.
type FileEmbedEvent struct {
	FileId   string `json:"file_id"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}
