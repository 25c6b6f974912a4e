package artifactcatalog

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the artifact-catalog library.
//
// Mutating operations take the acting principal (or its freshly resolved
// role) and re-evaluate the access control policy server-side; nothing is
// trusted from client-supplied state.
type Service interface {
	// Artifact lifecycle
	CreateArtifact(ctx context.Context, req CreateArtifactRequest) (*SaveResult, error)
	UpdateArtifact(ctx context.Context, req UpdateArtifactRequest) (*SaveResult, error)
	ApproveArtifact(ctx context.Context, artifactID uuid.UUID, actor *Principal) (*Artifact, error)
	DeleteArtifact(ctx context.Context, artifactID uuid.UUID, actor *Principal) error

	// Reads. GetArtifact and ListArtifacts apply the view policy for the
	// given role; PublicCatalog and PublicArtifact are the anonymous paths
	// and only ever return approved artifacts.
	GetArtifact(ctx context.Context, id uuid.UUID, role Role) (*Artifact, error)
	ListArtifacts(ctx context.Context, role Role) ([]*Artifact, error)
	PublicCatalog(ctx context.Context) ([]*Artifact, error)
	PublicArtifact(ctx context.Context, id uuid.UUID) (*Artifact, error)

	// Category management (admin only)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID, actor *Principal) error
	ListCategories(ctx context.Context) ([]*Category, error)

	// Activity log
	ListActivity(ctx context.Context, role Role, limit int) ([]*ActivityLogEntry, error)

	// Telemetry
	RecordScan(ctx context.Context, artifactID uuid.UUID, userAgent string) (*ScanEvent, error)
	RecordView(ctx context.Context, artifactID uuid.UUID) error
	Analytics(ctx context.Context, role Role) (*AnalyticsReport, error)
	Stats(ctx context.Context, role Role) (*DashboardStats, error)
}
