package dto

// CreateNoteRequest is the body for POST /notes. Content is optional.
type CreateNoteRequest struct {
	UserID  string `json:"userId" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}
