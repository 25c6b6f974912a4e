package artifactcatalog

import (
	"context"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when no caching layer subscribes or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) ArtifactCreated(ctx context.Context, artifact *Artifact) error { return nil }

func (n *NoopEventSink) ArtifactUpdated(ctx context.Context, artifact *Artifact) error { return nil }

func (n *NoopEventSink) ArtifactApproved(ctx context.Context, artifact *Artifact) error { return nil }

func (n *NoopEventSink) ArtifactDeleted(ctx context.Context, artifactID uuid.UUID) error { return nil }

func (n *NoopEventSink) CategoryChanged(ctx context.Context) error { return nil }

func (n *NoopEventSink) ScanRecorded(ctx context.Context, event *ScanEvent) error { return nil }

// Logger interface for logging events
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// LoggingEventSink is an event sink that logs events but takes no other action
// Useful for development and debugging
type LoggingEventSink struct {
	logger Logger
}

// NewLoggingEventSink creates a new logging event sink
func NewLoggingEventSink(logger Logger) EventSink {
	return &LoggingEventSink{logger: logger}
}

// ArtifactCreated logs the artifact creation event
func (l *LoggingEventSink) ArtifactCreated(ctx context.Context, artifact *Artifact) error {
	l.logger.Infof("Artifact created: ID=%s, Name=%s, Status=%s", artifact.ID, artifact.Name, artifact.Status)
	return nil
}

// ArtifactUpdated logs the artifact update event
func (l *LoggingEventSink) ArtifactUpdated(ctx context.Context, artifact *Artifact) error {
	l.logger.Infof("Artifact updated: ID=%s, Name=%s", artifact.ID, artifact.Name)
	return nil
}

// ArtifactApproved logs the artifact approval event
func (l *LoggingEventSink) ArtifactApproved(ctx context.Context, artifact *Artifact) error {
	l.logger.Infof("Artifact approved: ID=%s, Name=%s", artifact.ID, artifact.Name)
	return nil
}

// ArtifactDeleted logs the artifact deletion event
func (l *LoggingEventSink) ArtifactDeleted(ctx context.Context, artifactID uuid.UUID) error {
	l.logger.Infof("Artifact deleted: ID=%s", artifactID)
	return nil
}

// CategoryChanged logs the category change event
func (l *LoggingEventSink) CategoryChanged(ctx context.Context) error {
	l.logger.Infof("Categories changed")
	return nil
}

// ScanRecorded logs the scan ingestion event
func (l *LoggingEventSink) ScanRecorded(ctx context.Context, event *ScanEvent) error {
	l.logger.Infof("Scan recorded: Artifact=%s, Device=%s, Browser=%s", event.ArtifactID, event.DeviceType, event.Browser)
	return nil
}
