package artifactcatalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditRecorder appends immutable activity log entries for privileged
// actions. Logging is fire-and-forget, at-most-once: a missing session is an
// intentional skip, and a store failure drops the entry without surfacing to
// the caller or blocking the primary action.
type AuditRecorder struct {
	repository Repository
	logger     Logger
	now        func() time.Time
}

// NewAuditRecorder creates a new audit recorder. The logger may be nil, in
// which case dropped entries go unreported.
func NewAuditRecorder(repo Repository, logger Logger) *AuditRecorder {
	return &AuditRecorder{
		repository: repo,
		logger:     logger,
		now:        time.Now,
	}
}

// Record appends an activity log entry attributed to the given principal.
// The principal's role must reflect the role held at the moment of the
// action; callers pass the freshly resolved principal, never one cached
// earlier. A nil principal means no active session: the call is a silent
// no-op and no entry is written.
func (r *AuditRecorder) Record(ctx context.Context, principal *Principal, action, details string) {
	if principal == nil {
		return
	}

	entry := &ActivityLogEntry{
		ID:        uuid.New(),
		UserID:    principal.ID,
		UserEmail: principal.Email,
		Role:      principal.Role,
		Action:    action,
		Details:   details,
		CreatedAt: r.now().UTC(),
	}

	if err := r.repository.AppendActivityLog(ctx, entry); err != nil {
		// Best-effort: the entry is dropped, the primary action proceeds.
		if r.logger != nil {
			r.logger.Errorf("activity log entry dropped: action=%s err=%v", action, err)
		}
	}
}

// List returns activity log entries newest first. Filtering by role or action
// is a presentation concern and happens client-side.
func (r *AuditRecorder) List(ctx context.Context, limit int) ([]*ActivityLogEntry, error) {
	return r.repository.ListActivityLogs(ctx, limit)
}
