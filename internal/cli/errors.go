// Package cli implements the command-line interface.
package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/aidanlsb/mtpoi/internal/index"
	"github.com/aidanlsb/mtpoi/internal/resolver"
	"github.com/aidanlsb/mtpoi/internal/source"
	"github.com/aidanlsb/mtpoi/internal/uobject"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	ErrConfigInvalid = "CONFIG_INVALID"

	// Extraction errors
	ErrRefInvalid = "REF_INVALID"
	ErrSchemaGap  = "SCHEMA_GAP"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Database errors
	ErrDatabaseError  = "DATABASE_ERROR"
	ErrDatabaseLocked = "DATABASE_LOCKED"

	// Validation errors
	ErrValidationFailed = "VALIDATION_FAILED"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"
	ErrTopicNotFound   = "TOPIC_NOT_FOUND"

	// General errors
	ErrCancelled = "CANCELLED"
	ErrInternal  = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnEntitySkipped    = "ENTITY_SKIPPED"
	WarnDropPointUnknown = "DROP_POINT_UNKNOWN"
	WarnDropPointCycle   = "DROP_POINT_CYCLE"
	WarnOutputIssue      = "OUTPUT_ISSUE"
)

// errorCode classifies an extraction error. fallback is used when nothing
// more specific matches.
func errorCode(err error, fallback string) string {
	var refErr *resolver.ReferenceError
	var pathErr *uobject.IndexParseError
	var gapErr *source.SchemaGapError
	var fsErr *fs.PathError
	switch {
	case errors.Is(err, context.Canceled):
		return ErrCancelled
	case errors.As(err, &gapErr):
		return ErrSchemaGap
	case errors.As(err, &pathErr), errors.As(err, &refErr):
		return ErrRefInvalid
	case errors.Is(err, index.ErrIndexLocked):
		return ErrDatabaseLocked
	case errors.Is(err, fs.ErrNotExist):
		return ErrFileNotFound
	case errors.As(err, &fsErr):
		return ErrFileReadError
	}
	return fallback
}
