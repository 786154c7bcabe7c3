package service

import "errors"

var (
	// ErrValidation marks a rejected request body (missing name and the like).
	ErrValidation = errors.New("validation failed")
	// ErrUpload marks an image upload failure; the surrounding mutation is
	// aborted when it occurs.
	ErrUpload = errors.New("image upload failed")
)
