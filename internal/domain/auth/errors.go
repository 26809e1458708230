package auth

import "filedrive/internal/apperror"

var (
	ErrInvalidCredentials = apperror.New(apperror.ErrUnauthenticated, "Incorrect username or password")
	ErrEmailAlreadyExists = apperror.New(apperror.ErrConflict, "Email is already in use, please use a different one.")
	ErrUserNotFound       = apperror.New(apperror.ErrNotFound, "Could not locate user requested.")
)
