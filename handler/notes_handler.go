package handler

import (
	"errors"
	"log"

	"maplenotes/dto"
	"maplenotes/repository"
	"maplenotes/usecase"
	"maplenotes/utils"

	"github.com/gin-gonic/gin"
)

func GetUserNotesHandler(c *gin.Context, notes *usecase.NotesService) {
	userID := c.Param("userId")

	result, err := notes.ListNotes(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Listing notes for %s failed: %v", userID, err)
		utils.InternalError(c, "Failed to fetch notes")
		return
	}

	utils.Success(c, result)
}

func CreateNoteHandler(c *gin.Context, notes *usecase.NotesService) {
	var req dto.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing data")
		return
	}

	note, err := notes.CreateNote(c.Request.Context(), req.UserID, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, repository.ErrMissingFields) {
			utils.BadRequest(c, "Missing data")
			return
		}
		log.Printf("Creating note for %s failed: %v", req.UserID, err)
		utils.InternalError(c, "Failed to create note")
		return
	}

	utils.Created(c, note)
}

// DeleteNoteHandler takes the owner id as a query parameter; the
// partitioned backend needs it to form the delete key.
func DeleteNoteHandler(c *gin.Context, notes *usecase.NotesService) {
	noteID := c.Param("noteId")
	userID := c.Query("userId")

	err := notes.DeleteNote(c.Request.Context(), noteID, userID)
	switch {
	case errors.Is(err, repository.ErrMissingUserID):
		utils.BadRequest(c, "Missing userId")
	case errors.Is(err, repository.ErrNoteNotFound):
		utils.NotFound(c, "Note not found")
	case err != nil:
		log.Printf("Deleting note %s failed: %v", noteID, err)
		utils.InternalError(c, "Failed to delete note")
	default:
		utils.Message(c, "Deleted successfully")
	}
}
