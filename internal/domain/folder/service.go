package folder

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"filedrive/internal/apperror"
)

const MaxNameLength = 30

const msgNameLength = "Folder Name must be between 1 and 30 characters long."

type Service struct {
	repo Repository
	log  logrus.FieldLogger
}

func NewService(repo Repository, log logrus.FieldLogger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context, userID string) ([]*Folder, error) {
	folders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	if folders == nil {
		folders = []*Folder{}
	}
	return folders, nil
}

// Create validates and sanitises name, then stores the folder for userID.
func (s *Service) Create(ctx context.Context, userID, name string) (*Folder, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 1 || n > MaxNameLength {
		return nil, apperror.NewValidationError(msgNameLength)
	}

	f := &Folder{
		ID:     uuid.NewString(),
		Name:   html.EscapeString(name),
		UserID: userID,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": userID, "folder_id": f.ID}).Info("folder created")
	return f, nil
}

// Get is the explicit existence and ownership check behind the folder redirect.
func (s *Service) Get(ctx context.Context, userID, id string) (*Folder, error) {
	return s.repo.GetOwned(ctx, id, userID)
}

// Delete removes an empty folder. Non-empty folders are refused with ErrFolderNotEmpty.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	err := s.repo.DeleteIfEmpty(ctx, id, userID)
	fields := logrus.Fields{"user_id": userID, "folder_id": id}
	switch {
	case err == nil:
		s.log.WithFields(fields).Info("folder deleted")
		return nil
	case errors.Is(err, ErrFolderNotEmpty):
		s.log.WithFields(fields).Info("folder delete refused: not empty")
		return err
	case errors.Is(err, ErrFolderNotFound):
		return err
	default:
		return fmt.Errorf("delete folder: %w", err)
	}
}
