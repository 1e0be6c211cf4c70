package api

import "time"

type OutgoingError struct {
	Code    int    `json:"code" example:"404"`
	Message string `json:"message" example:"file not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type ErrorResponse struct {
	Id    string        `json:"id,omitempty"`
	Error OutgoingError `json:"error"`
}

type FileResponse struct {
	Id              string    `json:"id"`
	NoteId          string    `json:"note_id"`
	Filename        string    `json:"filename"`
	FileType        string    `json:"file_type"`
	FileSize        int64     `json:"file_size"`
	Checksum        string    `json:"checksum"`
	UploadedAt      time.Time `json:"uploaded_at"`
	Status          string    `json:"processing_status"`
	ProcessingError string    `json:"processing_error,omitempty"`
	MdContent       *string   `json:"md_content,omitempty"`
	StatusURL       string    `json:"status_url"`
}

type MarkdownResponse struct {
	Id        string `json:"id"`
	Status    string `json:"processing_status"`
	MdContent string `json:"md_content"`
}

type NotebookResponse struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Subject     string    `json:"subject,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type NoteResponse struct {
	Id         string    `json:"id"`
	NotebookId string    `json:"notebook_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

type SearchHit struct {
	FileId   string  `json:"file_id"`
	Filename string  `json:"filename"`
	Snippet  string  `json:"snippet"`
	Score    float64 `json:"score"`
}

type SearchResponse struct {
	Query string      `json:"query"`
	Hits  []SearchHit `json:"hits"`
}

// requests---------------------

type NotebookRequest struct {
	Name        string `json:"name" validate:"required"`
	Subject     string `json:"subject,omitempty"`
	Description string `json:"description,omitempty"`
}

type NoteRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content,omitempty"`
}

// TextRequest feeds the AI tools: either raw text or the id of a note to read.
type TextRequest struct {
	Text   string `json:"text,omitempty"`
	NoteId string `json:"note_id,omitempty"`
}
