package artifactcatalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository    Repository
	blobStore     BlobStore
	eventSink     EventSink
	auditor       *AuditRecorder
	logger        Logger
	publicBaseURL string
	now           func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the object storage backend used for image uploads
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger used for best-effort failures
func WithLogger(logger Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithPublicBaseURL sets the base URL used to derive artifact QR-code URLs
func WithPublicBaseURL(baseURL string) Option {
	return func(s *service) {
		s.publicBaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		now: time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}
	s.auditor = NewAuditRecorder(s.repository, s.logger)

	return s, nil
}

func roleOf(actor *Principal) Role {
	if actor == nil {
		return RoleNone
	}
	if actor.Role == "" {
		return RoleNone
	}
	return actor.Role
}

// Artifact lifecycle

func (s *service) CreateArtifact(ctx context.Context, req CreateArtifactRequest) (*SaveResult, error) {
	role := roleOf(req.Actor)
	if !CanPerform(role, ActionCreateArtifact, "") {
		return nil, fmt.Errorf("%w: role %s cannot create artifacts", ErrNotAuthorized, role)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	condition := req.ConditionStatus
	if condition == "" {
		condition = "Good"
	}

	now := s.now().UTC()
	artifact := &Artifact{
		ID:                   uuid.New(),
		Name:                 req.Name,
		CategoryID:           req.CategoryID,
		Description:          req.Description,
		HistoricalBackground: req.HistoricalBackground,
		DateOrigin:           req.DateOrigin,
		LocationFound:        req.LocationFound,
		DisplayLocation:      req.DisplayLocation,
		ConditionStatus:      condition,
		Status:               initialStatus(role),
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.repository.CreateArtifact(ctx, artifact); err != nil {
		return nil, &ArtifactError{ArtifactID: artifact.ID, Op: "create", Err: err}
	}

	// The artifact row is durable from here on. Remaining steps are a saga
	// with no rollback: the result records how far it got.
	result := &SaveResult{Artifact: artifact}

	if s.publicBaseURL != "" {
		artifact.QRCodeURL = fmt.Sprintf("%s/artifact/%s", s.publicBaseURL, artifact.ID)
		artifact.UpdatedAt = s.now().UTC()
		if err := s.repository.UpdateArtifact(ctx, artifact); err != nil {
			artifact.QRCodeURL = ""
			result.Err = &ArtifactError{ArtifactID: artifact.ID, Op: "set qr url", Err: err}
			return result, nil
		}
		result.QRCodeSet = true
	}

	s.attachImages(ctx, artifact, req.Images, 0, result)

	s.emit(ctx, "artifact created", s.eventSink.ArtifactCreated(ctx, artifact))
	s.auditor.Record(ctx, req.Actor, "create_artifact", fmt.Sprintf("Created artifact %q", artifact.Name))

	return result, nil
}

func (s *service) UpdateArtifact(ctx context.Context, req UpdateArtifactRequest) (*SaveResult, error) {
	role := roleOf(req.Actor)
	if !CanPerform(role, ActionEditArtifact, "") {
		return nil, fmt.Errorf("%w: role %s cannot edit artifacts", ErrNotAuthorized, role)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	artifact, err := s.repository.GetArtifact(ctx, req.ArtifactID)
	if err != nil {
		return nil, err
	}

	artifact.Name = req.Name
	artifact.CategoryID = req.CategoryID
	artifact.Description = req.Description
	artifact.HistoricalBackground = req.HistoricalBackground
	artifact.DateOrigin = req.DateOrigin
	artifact.LocationFound = req.LocationFound
	artifact.DisplayLocation = req.DisplayLocation
	if req.ConditionStatus != "" {
		artifact.ConditionStatus = req.ConditionStatus
	}
	// Status is deliberately untouched: editing never approves.
	artifact.UpdatedAt = s.now().UTC()

	if err := s.repository.UpdateArtifact(ctx, artifact); err != nil {
		return nil, &ArtifactError{ArtifactID: artifact.ID, Op: "update", Err: err}
	}

	result := &SaveResult{Artifact: artifact, QRCodeSet: artifact.QRCodeURL != ""}

	existing, err := s.repository.ListArtifactImages(ctx, artifact.ID)
	if err != nil {
		result.Err = &ArtifactError{ArtifactID: artifact.ID, Op: "list images", Err: err}
		return result, nil
	}
	s.attachImages(ctx, artifact, req.Images, len(existing), result)

	s.emit(ctx, "artifact updated", s.eventSink.ArtifactUpdated(ctx, artifact))
	s.auditor.Record(ctx, req.Actor, "update_artifact", fmt.Sprintf("Updated artifact %q", artifact.Name))

	return result, nil
}

// attachImages uploads each file to the blob store and inserts an image row,
// in submission order, assigning display order sequentially from startOrder.
// Partial failure is not rolled back: rows inserted before the first error
// remain, and the error is recorded on the result.
func (s *service) attachImages(ctx context.Context, artifact *Artifact, uploads []ImageUpload, startOrder int, result *SaveResult) {
	if len(uploads) == 0 {
		return
	}
	if s.blobStore == nil {
		result.Err = fmt.Errorf("%w: no blob store configured", ErrUploadFailed)
		return
	}

	for i, upload := range uploads {
		objectKey := uuid.New().String() + strings.ToLower(filepath.Ext(upload.FileName))
		url, err := s.blobStore.Upload(ctx, objectKey, upload.Reader)
		if err != nil {
			result.Err = &StorageError{Key: objectKey, Op: "upload", Err: err}
			return
		}

		image := &ArtifactImage{
			ID:           uuid.New(),
			ArtifactID:   artifact.ID,
			URL:          url,
			DisplayOrder: startOrder + i,
			CreatedAt:    s.now().UTC(),
		}
		if err := s.repository.CreateArtifactImage(ctx, image); err != nil {
			result.Err = &ArtifactError{ArtifactID: artifact.ID, Op: "attach image", Err: err}
			return
		}
		result.ImagesAttached++
	}
}

func (s *service) ApproveArtifact(ctx context.Context, artifactID uuid.UUID, actor *Principal) (*Artifact, error) {
	role := roleOf(actor)
	if !CanPerform(role, ActionApproveArtifact, "") {
		return nil, fmt.Errorf("%w: role %s cannot approve artifacts", ErrNotAuthorized, role)
	}

	artifact, err := s.repository.GetArtifact(ctx, artifactID)
	if err != nil {
		return nil, err
	}

	if _, err := canApprove(artifact.Status); err != nil {
		return nil, err
	}

	artifact.Status = ArtifactStatusApproved
	artifact.UpdatedAt = s.now().UTC()
	if err := s.repository.UpdateArtifact(ctx, artifact); err != nil {
		return nil, &ArtifactError{ArtifactID: artifact.ID, Op: "approve", Err: err}
	}

	s.emit(ctx, "artifact approved", s.eventSink.ArtifactApproved(ctx, artifact))
	s.auditor.Record(ctx, actor, "approve_artifact", fmt.Sprintf("Approved artifact %q", artifact.Name))

	return artifact, nil
}

func (s *service) DeleteArtifact(ctx context.Context, artifactID uuid.UUID, actor *Principal) error {
	role := roleOf(actor)
	if !CanPerform(role, ActionDeleteArtifact, "") {
		return fmt.Errorf("%w: role %s cannot delete artifacts", ErrNotAuthorized, role)
	}

	artifact, err := s.repository.GetArtifact(ctx, artifactID)
	if err != nil {
		return err
	}

	if err := s.repository.DeleteArtifact(ctx, artifactID); err != nil {
		return &ArtifactError{ArtifactID: artifactID, Op: "delete", Err: err}
	}

	s.emit(ctx, "artifact deleted", s.eventSink.ArtifactDeleted(ctx, artifactID))
	s.auditor.Record(ctx, actor, "delete_artifact", fmt.Sprintf("Deleted artifact %q", artifact.Name))

	return nil
}

// Reads

func (s *service) GetArtifact(ctx context.Context, id uuid.UUID, role Role) (*Artifact, error) {
	artifact, err := s.repository.GetArtifact(ctx, id)
	if err != nil {
		return nil, err
	}

	// Pending artifacts are indistinguishable from absent ones for readers
	// who may not see them.
	if !CanPerform(role, ActionViewArtifact, artifact.Status) {
		return nil, ErrArtifactNotFound
	}

	images, err := s.repository.ListArtifactImages(ctx, artifact.ID)
	if err != nil {
		return nil, err
	}
	artifact.Images = images

	return artifact, nil
}

func (s *service) ListArtifacts(ctx context.Context, role Role) ([]*Artifact, error) {
	var statusFilter *ArtifactStatus
	if !CanPerform(role, ActionViewArtifact, ArtifactStatusPending) {
		approved := ArtifactStatusApproved
		statusFilter = &approved
	}

	artifacts, err := s.repository.ListArtifacts(ctx, statusFilter)
	if err != nil {
		return nil, err
	}

	// Defense in depth: never hand pending artifacts to a reader that may
	// not see them, even if the store ignored the filter.
	if statusFilter != nil {
		filtered := artifacts[:0]
		for _, a := range artifacts {
			if a.Status == ArtifactStatusApproved {
				filtered = append(filtered, a)
			}
		}
		artifacts = filtered
	}

	for _, a := range artifacts {
		images, err := s.repository.ListArtifactImages(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		a.Images = images
	}

	return artifacts, nil
}

func (s *service) PublicCatalog(ctx context.Context) ([]*Artifact, error) {
	return s.ListArtifacts(ctx, RoleNone)
}

func (s *service) PublicArtifact(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	return s.GetArtifact(ctx, id, RoleNone)
}

// Category management

func (s *service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	role := roleOf(req.Actor)
	if !CanPerform(role, ActionManageCategories, "") {
		return nil, fmt.Errorf("%w: role %s cannot manage categories", ErrNotAuthorized, role)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	category := &Category{
		ID:        uuid.New(),
		Name:      req.Name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repository.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	s.emit(ctx, "category created", s.eventSink.CategoryChanged(ctx))
	s.auditor.Record(ctx, req.Actor, "create_category", fmt.Sprintf("Created category %q", category.Name))

	return category, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID, actor *Principal) error {
	role := roleOf(actor)
	if !CanPerform(role, ActionManageCategories, "") {
		return fmt.Errorf("%w: role %s cannot manage categories", ErrNotAuthorized, role)
	}

	category, err := s.repository.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repository.DeleteCategory(ctx, id); err != nil {
		return err
	}

	s.emit(ctx, "category deleted", s.eventSink.CategoryChanged(ctx))
	s.auditor.Record(ctx, actor, "delete_category", fmt.Sprintf("Deleted category %q", category.Name))

	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repository.ListCategories(ctx)
}

// Activity log

func (s *service) ListActivity(ctx context.Context, role Role, limit int) ([]*ActivityLogEntry, error) {
	if !CanPerform(role, ActionViewActivityLog, "") {
		return nil, fmt.Errorf("%w: role %s cannot view the activity log", ErrNotAuthorized, role)
	}
	return s.auditor.List(ctx, limit)
}

// Telemetry

func (s *service) RecordScan(ctx context.Context, artifactID uuid.UUID, userAgent string) (*ScanEvent, error) {
	if _, err := s.repository.GetArtifact(ctx, artifactID); err != nil {
		return nil, err
	}

	event := &ScanEvent{
		ID:         uuid.New(),
		ArtifactID: artifactID,
		DeviceType: ClassifyDevice(userAgent),
		Browser:    ClassifyBrowser(userAgent),
		UserAgent:  userAgent,
		ScannedAt:  s.now().UTC(),
	}
	if err := s.repository.CreateScanEvent(ctx, event); err != nil {
		return nil, err
	}

	s.emit(ctx, "scan recorded", s.eventSink.ScanRecorded(ctx, event))

	return event, nil
}

func (s *service) RecordView(ctx context.Context, artifactID uuid.UUID) error {
	// Delegated to the store's atomic increment: a read-modify-write here
	// would lose updates under concurrent viewers.
	return s.repository.IncrementViewCount(ctx, artifactID)
}

func (s *service) Analytics(ctx context.Context, role Role) (*AnalyticsReport, error) {
	if !CanPerform(role, ActionViewAnalytics, "") {
		return nil, fmt.Errorf("%w: role %s cannot view analytics", ErrNotAuthorized, role)
	}

	events, err := s.repository.ListScanEvents(ctx)
	if err != nil {
		return nil, err
	}
	approved := ArtifactStatusApproved
	artifacts, err := s.repository.ListArtifacts(ctx, &approved)
	if err != nil {
		return nil, err
	}

	return &AnalyticsReport{
		DailyScans:   DailyCounts(events, 14),
		Devices:      DeviceDistribution(events),
		TopArtifacts: TopArtifacts(artifacts, 5),
	}, nil
}

func (s *service) Stats(ctx context.Context, role Role) (*DashboardStats, error) {
	if !CanPerform(role, ActionViewAnalytics, "") {
		return nil, fmt.Errorf("%w: role %s cannot view analytics", ErrNotAuthorized, role)
	}

	artifacts, err := s.repository.ListArtifacts(ctx, nil)
	if err != nil {
		return nil, err
	}
	categories, err := s.repository.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Artifacts:  len(artifacts),
		Categories: len(categories),
	}
	for _, a := range artifacts {
		stats.TotalViews += a.ViewCount
		images, err := s.repository.ListArtifactImages(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if len(images) > 0 {
			stats.WithImages++
		}
	}

	return stats, nil
}

// emit logs a failed event sink delivery; sink errors never fail the
// primary operation.
func (s *service) emit(ctx context.Context, event string, err error) {
	if err != nil && s.logger != nil {
		s.logger.Errorf("event sink rejected %s event: %v", event, err)
	}
}
