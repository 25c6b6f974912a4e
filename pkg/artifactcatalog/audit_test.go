package artifactcatalog_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog/repo/memory"
)

type capturingLogger struct {
	errors []string
}

func (l *capturingLogger) Infof(format string, args ...interface{}) {}

func (l *capturingLogger) Errorf(format string, args ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

// brokenLogStore fails every activity log append.
type brokenLogStore struct {
	artifactcatalog.Repository
}

func (b *brokenLogStore) AppendActivityLog(ctx context.Context, entry *artifactcatalog.ActivityLogEntry) error {
	return errors.New("disk full")
}

func TestAuditRecorder(t *testing.T) {
	ctx := context.Background()

	t.Run("nil principal writes nothing", func(t *testing.T) {
		repo := memory.New()
		recorder := artifactcatalog.NewAuditRecorder(repo, nil)

		recorder.Record(ctx, nil, "delete_artifact", "should not appear")

		entries, err := recorder.List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("store failure drops the entry and reports it", func(t *testing.T) {
		logger := &capturingLogger{}
		recorder := artifactcatalog.NewAuditRecorder(&brokenLogStore{Repository: memory.New()}, logger)

		recorder.Record(ctx, adminActor, "approve_artifact", "Approved artifact")

		require.Len(t, logger.errors, 1)
		assert.Contains(t, logger.errors[0], "approve_artifact")
	})

	t.Run("entry captures the role held at action time", func(t *testing.T) {
		repo := memory.New()
		recorder := artifactcatalog.NewAuditRecorder(repo, nil)

		actor := &artifactcatalog.Principal{ID: uuid.New(), Email: "curator@museum.test", Role: artifactcatalog.RoleStaff}
		recorder.Record(ctx, actor, "create_artifact", "Created artifact")

		// A later promotion must not rewrite history.
		actor.Role = artifactcatalog.RoleAdmin

		entries, err := recorder.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, artifactcatalog.RoleStaff, entries[0].Role)
		assert.Equal(t, "curator@museum.test", entries[0].UserEmail)
	})

	t.Run("list returns newest first and honors the limit", func(t *testing.T) {
		repo := memory.New()
		recorder := artifactcatalog.NewAuditRecorder(repo, nil)

		for i := 0; i < 5; i++ {
			recorder.Record(ctx, adminActor, fmt.Sprintf("action_%d", i), "")
		}

		entries, err := recorder.List(ctx, 3)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "action_4", entries[0].Action)
		assert.Equal(t, "action_2", entries[2].Action)
	})
}

func TestServiceAuditTrail(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	artifact := createArtifact(t, svc, staffActor, "Logged Relic")
	_, err := svc.ApproveArtifact(ctx, artifact.ID, adminActor)
	require.NoError(t, err)

	t.Run("anonymous callers cannot read the log", func(t *testing.T) {
		_, err := svc.ListActivity(ctx, artifactcatalog.RoleNone, 0)
		assert.ErrorIs(t, err, artifactcatalog.ErrNotAuthorized)
	})

	t.Run("privileged actions are attributed", func(t *testing.T) {
		entries, err := svc.ListActivity(ctx, artifactcatalog.RoleAdmin, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		// Newest first: the approval precedes the creation.
		assert.Equal(t, "approve_artifact", entries[0].Action)
		assert.Equal(t, adminActor.Email, entries[0].UserEmail)
		assert.Equal(t, artifactcatalog.RoleAdmin, entries[0].Role)

		assert.Equal(t, "create_artifact", entries[1].Action)
		assert.Equal(t, staffActor.Email, entries[1].UserEmail)
		assert.Equal(t, artifactcatalog.RoleStaff, entries[1].Role)
	})

	t.Run("denied actions leave no trace", func(t *testing.T) {
		err := svc.DeleteArtifact(ctx, artifact.ID, staffActor)
		require.ErrorIs(t, err, artifactcatalog.ErrNotAuthorized)

		entries, err := svc.ListActivity(ctx, artifactcatalog.RoleAdmin, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}
