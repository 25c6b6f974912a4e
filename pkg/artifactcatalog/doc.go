// Package artifactcatalog implements a role-gated artifact catalog with a
// two-step approval workflow, an append-only activity log, and scan/view
// telemetry aggregation.
//
// The package is storage-agnostic: records are persisted through the
// Repository interface (in-memory and PostgreSQL implementations live under
// repo/), image files through the BlobStore interface (memory, filesystem and
// S3 implementations under storage/). Sessions come from an external identity
// provider abstracted behind SessionProvider; the role for a session is
// resolved through the role-assignment collection, never trusted from the
// client.
//
// A minimal setup:
//
//	svc, err := artifactcatalog.New(
//	    artifactcatalog.WithRepository(memory.New()),
//	    artifactcatalog.WithBlobStore(memorystorage.New()),
//	)
//
// Mutations emit enumerated invalidation events (ArtifactCreated,
// ArtifactApproved, ...) through an EventSink so caching layers can subscribe
// without the core knowing about caching at all.
package artifactcatalog
