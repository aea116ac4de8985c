package usecase

import (
	"context"

	"maplenotes/model"
	"maplenotes/repository"
	"maplenotes/utils"
)

type NotesService struct {
	Store repository.Store
}

func (s *NotesService) ListNotes(ctx context.Context, userID string) ([]*model.Note, error) {
	notes, err := s.Store.ListNotesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("list")
	return notes, nil
}

func (s *NotesService) CreateNote(ctx context.Context, userID, title, content string) (*model.Note, error) {
	note, err := s.Store.InsertNote(ctx, userID, title, content)
	if err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("create")
	return note, nil
}

func (s *NotesService) DeleteNote(ctx context.Context, noteID, userID string) error {
	if err := s.Store.DeleteNote(ctx, noteID, userID); err != nil {
		return err
	}

	utils.TrackNoteOperation("delete")
	return nil
}
