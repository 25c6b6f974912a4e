package artifactcatalog

import (
	"io"

	"github.com/google/uuid"
)

// Request/Response DTOs

// ImageUpload is one file submitted alongside an artifact save. Files are
// uploaded in submission order.
type ImageUpload struct {
	FileName string
	Reader   io.Reader
}

// CreateArtifactRequest contains parameters for creating a new artifact.
// Actor must be the freshly resolved principal for the active session; the
// initial status is derived from its role, never supplied by the caller.
type CreateArtifactRequest struct {
	Actor                *Principal
	Name                 string
	CategoryID           *uuid.UUID
	Description          string
	HistoricalBackground string
	DateOrigin           string
	LocationFound        string
	DisplayLocation      string
	ConditionStatus      string
	Images               []ImageUpload
}

// UpdateArtifactRequest contains parameters for editing an existing artifact.
// Status is never touched by an edit.
type UpdateArtifactRequest struct {
	Actor                *Principal
	ArtifactID           uuid.UUID
	Name                 string
	CategoryID           *uuid.UUID
	Description          string
	HistoricalBackground string
	DateOrigin           string
	LocationFound        string
	DisplayLocation      string
	ConditionStatus      string
	Images               []ImageUpload
}

// SaveResult enumerates how far a create/update saga progressed. The
// multi-step sequence (persist record, derive QR URL, upload images, insert
// image rows) is not transactional: earlier steps are never rolled back when
// a later one fails, so callers can observe partial completion.
type SaveResult struct {
	Artifact *Artifact
	// ImagesAttached counts image rows actually inserted; it may be less
	// than the number submitted when an upload or insert failed mid-loop.
	ImagesAttached int
	// QRCodeSet reports whether the derived QR-code URL write succeeded.
	QRCodeSet bool
	// Err is the first error encountered after the artifact row was
	// persisted, nil on full completion.
	Err error
}

// CreateCategoryRequest contains parameters for creating a category.
type CreateCategoryRequest struct {
	Actor *Principal
	Name  string
}

// AnalyticsReport bundles the derived telemetry reports for the admin
// analytics view.
type AnalyticsReport struct {
	DailyScans   []DailyCount       `json:"daily_scans"`
	Devices      map[DeviceType]int `json:"devices"`
	TopArtifacts []ArtifactViews    `json:"top_artifacts"`
}
