package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements artifactcatalog.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) artifactcatalog.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) artifactcatalog.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s", operation)
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found in %s", operation)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Artifact operations

const artifactColumns = `
	id, name, category_id, description, historical_background, date_origin,
	location_found, display_location, condition_status, qr_code_url, status,
	view_count, created_at, updated_at`

func scanArtifact(row pgx.Row) (*artifactcatalog.Artifact, error) {
	var a artifactcatalog.Artifact
	err := row.Scan(
		&a.ID, &a.Name, &a.CategoryID, &a.Description, &a.HistoricalBackground,
		&a.DateOrigin, &a.LocationFound, &a.DisplayLocation, &a.ConditionStatus,
		&a.QRCodeURL, &a.Status, &a.ViewCount, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *Repository) CreateArtifact(ctx context.Context, artifact *artifactcatalog.Artifact) error {
	query := `
		INSERT INTO artifacts (
			id, name, category_id, description, historical_background,
			date_origin, location_found, display_location, condition_status,
			qr_code_url, status, view_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		artifact.ID, artifact.Name, artifact.CategoryID, artifact.Description,
		artifact.HistoricalBackground, artifact.DateOrigin, artifact.LocationFound,
		artifact.DisplayLocation, artifact.ConditionStatus, artifact.QRCodeURL,
		artifact.Status, artifact.ViewCount, artifact.CreatedAt, artifact.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create artifact", err)
	}

	return nil
}

func (r *Repository) GetArtifact(ctx context.Context, id uuid.UUID) (*artifactcatalog.Artifact, error) {
	query := `SELECT` + artifactColumns + ` FROM artifacts WHERE id = $1`

	artifact, err := scanArtifact(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, artifactcatalog.ErrArtifactNotFound
		}
		return nil, r.handlePostgresError("get artifact", err)
	}

	return artifact, nil
}

func (r *Repository) UpdateArtifact(ctx context.Context, artifact *artifactcatalog.Artifact) error {
	query := `
		UPDATE artifacts SET
			name = $2, category_id = $3, description = $4,
			historical_background = $5, date_origin = $6, location_found = $7,
			display_location = $8, condition_status = $9, qr_code_url = $10,
			status = $11, updated_at = $12
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		artifact.ID, artifact.Name, artifact.CategoryID, artifact.Description,
		artifact.HistoricalBackground, artifact.DateOrigin, artifact.LocationFound,
		artifact.DisplayLocation, artifact.ConditionStatus, artifact.QRCodeURL,
		artifact.Status, artifact.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("update artifact", err)
	}
	if tag.RowsAffected() == 0 {
		return artifactcatalog.ErrArtifactNotFound
	}

	return nil
}

func (r *Repository) DeleteArtifact(ctx context.Context, id uuid.UUID) error {
	// Image rows cascade via the artifact_images.artifact_id foreign key.
	tag, err := r.db.Exec(ctx, `DELETE FROM artifacts WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete artifact", err)
	}
	if tag.RowsAffected() == 0 {
		return artifactcatalog.ErrArtifactNotFound
	}

	return nil
}

func (r *Repository) ListArtifacts(ctx context.Context, status *artifactcatalog.ArtifactStatus) ([]*artifactcatalog.Artifact, error) {
	query := `SELECT` + artifactColumns + ` FROM artifacts`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list artifacts", err)
	}
	defer rows.Close()

	var result []*artifactcatalog.Artifact
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			return nil, r.handlePostgresError("list artifacts", err)
		}
		result = append(result, artifact)
	}

	return result, rows.Err()
}

func (r *Repository) IncrementViewCount(ctx context.Context, artifactID uuid.UUID) error {
	// Single-statement increment; the database serializes concurrent
	// callers so no update is lost.
	tag, err := r.db.Exec(ctx,
		`UPDATE artifacts SET view_count = view_count + 1 WHERE id = $1`, artifactID)
	if err != nil {
		return r.handlePostgresError("increment view count", err)
	}
	if tag.RowsAffected() == 0 {
		return artifactcatalog.ErrArtifactNotFound
	}

	return nil
}

// Artifact image operations

func (r *Repository) CreateArtifactImage(ctx context.Context, image *artifactcatalog.ArtifactImage) error {
	query := `
		INSERT INTO artifact_images (id, artifact_id, image_url, display_order, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		image.ID, image.ArtifactID, image.URL, image.DisplayOrder, image.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create artifact image", err)
	}

	return nil
}

func (r *Repository) ListArtifactImages(ctx context.Context, artifactID uuid.UUID) ([]*artifactcatalog.ArtifactImage, error) {
	query := `
		SELECT id, artifact_id, image_url, display_order, created_at
		FROM artifact_images
		WHERE artifact_id = $1
		ORDER BY display_order`

	rows, err := r.db.Query(ctx, query, artifactID)
	if err != nil {
		return nil, r.handlePostgresError("list artifact images", err)
	}
	defer rows.Close()

	var result []*artifactcatalog.ArtifactImage
	for rows.Next() {
		var image artifactcatalog.ArtifactImage
		if err := rows.Scan(&image.ID, &image.ArtifactID, &image.URL, &image.DisplayOrder, &image.CreatedAt); err != nil {
			return nil, r.handlePostgresError("list artifact images", err)
		}
		result = append(result, &image)
	}

	return result, rows.Err()
}

// Category operations

func (r *Repository) CreateCategory(ctx context.Context, category *artifactcatalog.Category) error {
	query := `INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, query, category.ID, category.Name, category.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create category", err)
	}

	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*artifactcatalog.Category, error) {
	var category artifactcatalog.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, name, created_at FROM categories WHERE id = $1`, id).
		Scan(&category.ID, &category.Name, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, artifactcatalog.ErrCategoryNotFound
		}
		return nil, r.handlePostgresError("get category", err)
	}

	return &category, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return artifactcatalog.ErrCategoryNotFound
	}

	return nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*artifactcatalog.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, r.handlePostgresError("list categories", err)
	}
	defer rows.Close()

	var result []*artifactcatalog.Category
	for rows.Next() {
		var category artifactcatalog.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedAt); err != nil {
			return nil, r.handlePostgresError("list categories", err)
		}
		result = append(result, &category)
	}

	return result, rows.Err()
}

// Activity log operations

func (r *Repository) AppendActivityLog(ctx context.Context, entry *artifactcatalog.ActivityLogEntry) error {
	query := `
		INSERT INTO activity_logs (id, user_id, user_email, role, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.UserID, entry.UserEmail, entry.Role, entry.Action,
		entry.Details, entry.CreatedAt)
	if err != nil {
		return r.handlePostgresError("append activity log", err)
	}

	return nil
}

func (r *Repository) ListActivityLogs(ctx context.Context, limit int) ([]*artifactcatalog.ActivityLogEntry, error) {
	query := `
		SELECT id, user_id, user_email, role, action, details, created_at
		FROM activity_logs
		ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list activity logs", err)
	}
	defer rows.Close()

	var result []*artifactcatalog.ActivityLogEntry
	for rows.Next() {
		var entry artifactcatalog.ActivityLogEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.UserEmail, &entry.Role,
			&entry.Action, &entry.Details, &entry.CreatedAt); err != nil {
			return nil, r.handlePostgresError("list activity logs", err)
		}
		result = append(result, &entry)
	}

	return result, rows.Err()
}

// Scan event operations

func (r *Repository) CreateScanEvent(ctx context.Context, event *artifactcatalog.ScanEvent) error {
	query := `
		INSERT INTO qr_scans (id, artifact_id, device_type, browser, user_agent, scanned_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		event.ID, event.ArtifactID, event.DeviceType, event.Browser,
		event.UserAgent, event.ScannedAt)
	if err != nil {
		return r.handlePostgresError("create scan event", err)
	}

	return nil
}

func (r *Repository) ListScanEvents(ctx context.Context) ([]*artifactcatalog.ScanEvent, error) {
	query := `
		SELECT id, artifact_id, device_type, browser, user_agent, scanned_at
		FROM qr_scans
		ORDER BY scanned_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list scan events", err)
	}
	defer rows.Close()

	var result []*artifactcatalog.ScanEvent
	for rows.Next() {
		var event artifactcatalog.ScanEvent
		if err := rows.Scan(&event.ID, &event.ArtifactID, &event.DeviceType,
			&event.Browser, &event.UserAgent, &event.ScannedAt); err != nil {
			return nil, r.handlePostgresError("list scan events", err)
		}
		result = append(result, &event)
	}

	return result, rows.Err()
}

// Role assignment operations

func (r *Repository) GetRoleAssignment(ctx context.Context, userID uuid.UUID) (*artifactcatalog.RoleAssignment, error) {
	var assignment artifactcatalog.RoleAssignment
	err := r.db.QueryRow(ctx,
		`SELECT user_id, role FROM user_roles WHERE user_id = $1`, userID).
		Scan(&assignment.UserID, &assignment.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, artifactcatalog.ErrRoleAssignmentNotFound
		}
		return nil, r.handlePostgresError("get role assignment", err)
	}

	return &assignment, nil
}

func (r *Repository) SetRoleAssignment(ctx context.Context, assignment *artifactcatalog.RoleAssignment) error {
	query := `
		INSERT INTO user_roles (user_id, role)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`

	_, err := r.db.Exec(ctx, query, assignment.UserID, assignment.Role)
	if err != nil {
		return r.handlePostgresError("set role assignment", err)
	}

	return nil
}
