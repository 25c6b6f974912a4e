package artifactcatalog

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository defines the persistence gateway over the backing record store.
// It carries no business logic; authorization and lifecycle decisions are made
// by the service before any call lands here.
type Repository interface {
	// Artifact operations
	CreateArtifact(ctx context.Context, artifact *Artifact) error
	GetArtifact(ctx context.Context, id uuid.UUID) (*Artifact, error)
	UpdateArtifact(ctx context.Context, artifact *Artifact) error
	// DeleteArtifact removes the artifact and cascades deletion of its
	// image rows. Terminal; there is no undelete.
	DeleteArtifact(ctx context.Context, id uuid.UUID) error
	// ListArtifacts returns artifacts ordered by created_at descending.
	// A nil status filter returns all artifacts.
	ListArtifacts(ctx context.Context, status *ArtifactStatus) ([]*Artifact, error)
	// IncrementViewCount atomically increments view_count by one. This is
	// the only operation required to be safe under concurrent callers.
	IncrementViewCount(ctx context.Context, artifactID uuid.UUID) error

	// Artifact image operations
	CreateArtifactImage(ctx context.Context, image *ArtifactImage) error
	ListArtifactImages(ctx context.Context, artifactID uuid.UUID) ([]*ArtifactImage, error)

	// Category operations
	CreateCategory(ctx context.Context, category *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	// ListCategories returns categories ordered by name.
	ListCategories(ctx context.Context) ([]*Category, error)

	// Activity log operations (append-only; no update or delete)
	AppendActivityLog(ctx context.Context, entry *ActivityLogEntry) error
	// ListActivityLogs returns entries newest first.
	ListActivityLogs(ctx context.Context, limit int) ([]*ActivityLogEntry, error)

	// Scan event operations (append-only)
	CreateScanEvent(ctx context.Context, event *ScanEvent) error
	// ListScanEvents returns events newest first.
	ListScanEvents(ctx context.Context) ([]*ScanEvent, error)

	// Role assignment operations
	GetRoleAssignment(ctx context.Context, userID uuid.UUID) (*RoleAssignment, error)
	SetRoleAssignment(ctx context.Context, assignment *RoleAssignment) error
}

// BlobStore defines the interface for the external object-storage service.
// Uploaded objects are publicly readable once stored; there is no cleanup
// contract, so orphaned objects from abandoned saves are never reclaimed.
type BlobStore interface {
	// Upload stores the object under objectKey and returns its stable
	// public URL.
	Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error)

	// Download retrieves the object directly.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the object.
	Delete(ctx context.Context, objectKey string) error
}

// SessionProvider abstracts the identity provider. GetSession returns the
// principal for the active session, or nil when anonymous; the role field of
// the returned principal is not populated here and must be resolved through
// the role-assignment collection.
type SessionProvider interface {
	GetSession(ctx context.Context) (*Principal, error)
	SignOut(ctx context.Context) error
}

// EventSink receives the enumerated invalidation events the core emits after
// each successful mutation. Sink errors never fail the primary operation.
type EventSink interface {
	ArtifactCreated(ctx context.Context, artifact *Artifact) error
	ArtifactUpdated(ctx context.Context, artifact *Artifact) error
	ArtifactApproved(ctx context.Context, artifact *Artifact) error
	ArtifactDeleted(ctx context.Context, artifactID uuid.UUID) error
	CategoryChanged(ctx context.Context) error
	ScanRecorded(ctx context.Context, event *ScanEvent) error
}
