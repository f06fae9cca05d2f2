package service

import (
	"errors"

	"signapi/internal/model"
)

// Sentinel errors surfaced to the HTTP layer. Anything else returned by a
// service is an internal failure (backing store unavailable, storage I/O)
// and maps to a 5xx response.
var (
	ErrIDRequired         = errors.New("id is required")
	ErrReaderNil          = errors.New("reader is nil")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrPlacementNotFound  = errors.New("placement not found")
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrInvalidPage        = errors.New("page number must be positive")
	ErrInvalidStatus      = model.ErrInvalidStatus
)
