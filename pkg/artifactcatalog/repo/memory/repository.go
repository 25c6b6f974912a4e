package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
)

// Repository implements artifactcatalog.Repository using in-memory storage
type Repository struct {
	mu               sync.RWMutex
	artifacts        map[uuid.UUID]*artifactcatalog.Artifact
	images           map[uuid.UUID]*artifactcatalog.ArtifactImage
	imagesByArtifact map[uuid.UUID][]uuid.UUID // artifact_id -> []image_id
	categories       map[uuid.UUID]*artifactcatalog.Category
	activityLogs     []*artifactcatalog.ActivityLogEntry
	scanEvents       []*artifactcatalog.ScanEvent
	roleAssignments  map[uuid.UUID]*artifactcatalog.RoleAssignment
}

// New creates a new in-memory repository
func New() artifactcatalog.Repository {
	return &Repository{
		artifacts:        make(map[uuid.UUID]*artifactcatalog.Artifact),
		images:           make(map[uuid.UUID]*artifactcatalog.ArtifactImage),
		imagesByArtifact: make(map[uuid.UUID][]uuid.UUID),
		categories:       make(map[uuid.UUID]*artifactcatalog.Category),
		roleAssignments:  make(map[uuid.UUID]*artifactcatalog.RoleAssignment),
	}
}

// Artifact operations

func (r *Repository) CreateArtifact(ctx context.Context, artifact *artifactcatalog.Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	artifactCopy := *artifact
	artifactCopy.Images = nil
	r.artifacts[artifact.ID] = &artifactCopy

	return nil
}

func (r *Repository) GetArtifact(ctx context.Context, id uuid.UUID) (*artifactcatalog.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artifact, exists := r.artifacts[id]
	if !exists {
		return nil, artifactcatalog.ErrArtifactNotFound
	}

	artifactCopy := *artifact
	return &artifactCopy, nil
}

func (r *Repository) UpdateArtifact(ctx context.Context, artifact *artifactcatalog.Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.artifacts[artifact.ID]
	if !exists {
		return artifactcatalog.ErrArtifactNotFound
	}

	artifactCopy := *artifact
	artifactCopy.Images = nil
	// ViewCount is owned by IncrementViewCount; a stale caller copy must
	// not clobber concurrent increments.
	artifactCopy.ViewCount = existing.ViewCount
	r.artifacts[artifact.ID] = &artifactCopy

	return nil
}

func (r *Repository) DeleteArtifact(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.artifacts[id]; !exists {
		return artifactcatalog.ErrArtifactNotFound
	}

	delete(r.artifacts, id)

	// Cascade image rows.
	for _, imageID := range r.imagesByArtifact[id] {
		delete(r.images, imageID)
	}
	delete(r.imagesByArtifact, id)

	return nil
}

func (r *Repository) ListArtifacts(ctx context.Context, status *artifactcatalog.ArtifactStatus) ([]*artifactcatalog.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*artifactcatalog.Artifact
	for _, artifact := range r.artifacts {
		if status != nil && artifact.Status != *status {
			continue
		}
		artifactCopy := *artifact
		result = append(result, &artifactCopy)
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *Repository) IncrementViewCount(ctx context.Context, artifactID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	artifact, exists := r.artifacts[artifactID]
	if !exists {
		return artifactcatalog.ErrArtifactNotFound
	}

	artifact.ViewCount++
	return nil
}

// Artifact image operations

func (r *Repository) CreateArtifactImage(ctx context.Context, image *artifactcatalog.ArtifactImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.artifacts[image.ArtifactID]; !exists {
		return artifactcatalog.ErrArtifactNotFound
	}

	imageCopy := *image
	r.images[image.ID] = &imageCopy
	r.imagesByArtifact[image.ArtifactID] = append(r.imagesByArtifact[image.ArtifactID], image.ID)

	return nil
}

func (r *Repository) ListArtifactImages(ctx context.Context, artifactID uuid.UUID) ([]*artifactcatalog.ArtifactImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*artifactcatalog.ArtifactImage
	for _, imageID := range r.imagesByArtifact[artifactID] {
		if image, exists := r.images[imageID]; exists {
			imageCopy := *image
			result = append(result, &imageCopy)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DisplayOrder < result[j].DisplayOrder
	})

	return result, nil
}

// Category operations

func (r *Repository) CreateCategory(ctx context.Context, category *artifactcatalog.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	categoryCopy := *category
	r.categories[category.ID] = &categoryCopy

	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*artifactcatalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	category, exists := r.categories[id]
	if !exists {
		return nil, artifactcatalog.ErrCategoryNotFound
	}

	categoryCopy := *category
	return &categoryCopy, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.categories[id]; !exists {
		return artifactcatalog.ErrCategoryNotFound
	}

	delete(r.categories, id)

	// Artifacts keep a dangling category reference cleared lazily; the
	// column is nullable by design.
	for _, artifact := range r.artifacts {
		if artifact.CategoryID != nil && *artifact.CategoryID == id {
			artifact.CategoryID = nil
		}
	}

	return nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*artifactcatalog.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*artifactcatalog.Category
	for _, category := range r.categories {
		categoryCopy := *category
		result = append(result, &categoryCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

// Activity log operations

func (r *Repository) AppendActivityLog(ctx context.Context, entry *artifactcatalog.ActivityLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entryCopy := *entry
	r.activityLogs = append(r.activityLogs, &entryCopy)

	return nil
}

func (r *Repository) ListActivityLogs(ctx context.Context, limit int) ([]*artifactcatalog.ActivityLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Newest first.
	result := make([]*artifactcatalog.ActivityLogEntry, 0, len(r.activityLogs))
	for i := len(r.activityLogs) - 1; i >= 0; i-- {
		entryCopy := *r.activityLogs[i]
		result = append(result, &entryCopy)
		if limit > 0 && len(result) == limit {
			break
		}
	}

	return result, nil
}

// Scan event operations

func (r *Repository) CreateScanEvent(ctx context.Context, event *artifactcatalog.ScanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	eventCopy := *event
	r.scanEvents = append(r.scanEvents, &eventCopy)

	return nil
}

func (r *Repository) ListScanEvents(ctx context.Context) ([]*artifactcatalog.ScanEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Newest first.
	result := make([]*artifactcatalog.ScanEvent, 0, len(r.scanEvents))
	for i := len(r.scanEvents) - 1; i >= 0; i-- {
		eventCopy := *r.scanEvents[i]
		result = append(result, &eventCopy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ScannedAt.After(result[j].ScannedAt)
	})

	return result, nil
}

// Role assignment operations

func (r *Repository) GetRoleAssignment(ctx context.Context, userID uuid.UUID) (*artifactcatalog.RoleAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assignment, exists := r.roleAssignments[userID]
	if !exists {
		return nil, artifactcatalog.ErrRoleAssignmentNotFound
	}

	assignmentCopy := *assignment
	return &assignmentCopy, nil
}

func (r *Repository) SetRoleAssignment(ctx context.Context, assignment *artifactcatalog.RoleAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	assignmentCopy := *assignment
	r.roleAssignments[assignment.UserID] = &assignmentCopy

	return nil
}
