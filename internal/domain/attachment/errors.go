package attachment

import "errors"

var (
	ErrTypeNotAllowed = errors.New("file type is not allowed")
	ErrTooLarge       = errors.New("file exceeds the 10 MB limit")
	ErrEmptyFile      = errors.New("file is empty")
	ErrNotFound       = errors.New("attachment not found")
)
