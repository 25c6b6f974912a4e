package artifactcatalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrNotAuthenticated indicates no active session where one is required
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotAuthorized indicates the resolved role lacks permission for the action
	ErrNotAuthorized = errors.New("not authorized")

	// ErrValidation indicates a required field is missing or blank
	ErrValidation = errors.New("validation failed")

	// ErrInvalidTransition indicates an illegal status transition
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrArtifactNotFound indicates an artifact was not found
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrCategoryNotFound indicates a category was not found
	ErrCategoryNotFound = errors.New("category not found")

	// ErrRoleAssignmentNotFound indicates a principal has no role assignment.
	// Role resolution treats it as RoleNone, not a failure.
	ErrRoleAssignmentNotFound = errors.New("role assignment not found")

	// ErrUploadFailed indicates an image upload failed
	ErrUploadFailed = errors.New("upload failed")
)

// ArtifactError represents an error related to artifact operations
type ArtifactError struct {
	ArtifactID uuid.UUID
	Op         string
	Err        error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact operation %s failed for artifact %s: %v", e.Op, e.ArtifactID, e.Err)
}

func (e *ArtifactError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
