package folder

import "filedrive/internal/apperror"

var (
	ErrFolderNotFound = apperror.New(apperror.ErrNotFound, "Could not locate folder requested.")
	ErrFolderNotEmpty = apperror.New(apperror.ErrConflict, "Folder must be empty before it can be deleted.")
)
