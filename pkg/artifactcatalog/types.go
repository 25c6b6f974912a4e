package artifactcatalog

import (
	"time"

	"github.com/google/uuid"
)

// Role is the domain type for the access level resolved for a principal.
type Role string

// Role constants (typed).
const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleNone  Role = "none"
)

// ArtifactStatus is the domain type for artifact approval states.
type ArtifactStatus string

// Artifact status constants (typed).
const (
	ArtifactStatusPending  ArtifactStatus = "pending"
	ArtifactStatusApproved ArtifactStatus = "approved"
)

// DeviceType is the domain type for scan device classification.
type DeviceType string

// Device type constants (typed).
const (
	DeviceMobile  DeviceType = "Mobile"
	DeviceDesktop DeviceType = "Desktop"
	DeviceUnknown DeviceType = "Unknown"
)

// Principal represents an authenticated actor. It is derived from the active
// session and never persisted by the core; the role is looked up separately
// through the role-assignment collection.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// Category groups artifacts for presentation.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Artifact represents a catalog record. Status starts as "pending" for
// staff-created artifacts and "approved" for admin-created ones; only an
// admin may move it from pending to approved afterwards.
type Artifact struct {
	ID                   uuid.UUID      `json:"id"`
	Name                 string         `json:"name"`
	CategoryID           *uuid.UUID     `json:"category_id,omitempty"`
	Description          string         `json:"description,omitempty"`
	HistoricalBackground string         `json:"historical_background,omitempty"`
	DateOrigin           string         `json:"date_origin,omitempty"`
	LocationFound        string         `json:"location_found,omitempty"`
	DisplayLocation      string         `json:"display_location,omitempty"`
	ConditionStatus      string         `json:"condition_status,omitempty"`
	QRCodeURL            string         `json:"qr_code_url,omitempty"`
	Status               ArtifactStatus `json:"status"`
	ViewCount            int64          `json:"view_count"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`

	// Populated on reads, ordered by DisplayOrder.
	Images []*ArtifactImage `json:"images,omitempty"`
}

// ArtifactImage represents a stored image attached to an artifact.
// DisplayOrder defines presentation order within one artifact only.
type ArtifactImage struct {
	ID           uuid.UUID `json:"id"`
	ArtifactID   uuid.UUID `json:"artifact_id"`
	URL          string    `json:"url"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// ActivityLogEntry is an append-only record of a privileged action. The Role
// field reflects the role held at the moment of the action; entries are never
// updated or deleted.
type ActivityLogEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserEmail string    `json:"user_email"`
	Role      Role      `json:"role"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ScanEvent is an immutable record of a QR-code scan.
type ScanEvent struct {
	ID         uuid.UUID  `json:"id"`
	ArtifactID uuid.UUID  `json:"artifact_id"`
	DeviceType DeviceType `json:"device_type"`
	Browser    string     `json:"browser"`
	UserAgent  string     `json:"user_agent"`
	ScannedAt  time.Time  `json:"scanned_at"`
}

// RoleAssignment maps a principal to an assigned role.
type RoleAssignment struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

// DailyCount is one calendar-day bucket of scan activity.
type DailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// ArtifactViews is one row of the top-artifacts report. Name is truncated
// for display.
type ArtifactViews struct {
	Name  string `json:"name"`
	Views int64  `json:"views"`
}

// DashboardStats summarizes the catalog for the admin dashboard.
type DashboardStats struct {
	Artifacts  int   `json:"artifacts"`
	Categories int   `json:"categories"`
	TotalViews int64 `json:"total_views"`
	WithImages int   `json:"with_images"`
}
