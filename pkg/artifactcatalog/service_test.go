package artifactcatalog_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog"
	"github.com/tendant/artifact-catalog/pkg/artifactcatalog/repo/memory"
	memorystorage "github.com/tendant/artifact-catalog/pkg/artifactcatalog/storage/memory"
)

var (
	adminActor = &artifactcatalog.Principal{ID: uuid.New(), Email: "admin@museum.test", Role: artifactcatalog.RoleAdmin}
	staffActor = &artifactcatalog.Principal{ID: uuid.New(), Email: "staff@museum.test", Role: artifactcatalog.RoleStaff}
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []artifactcatalog.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []artifactcatalog.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []artifactcatalog.Option{
				artifactcatalog.WithRepository(memory.New()),
			},
			expectError: false,
		},
		{
			name: "with repository and blob store should succeed",
			options: []artifactcatalog.Option{
				artifactcatalog.WithRepository(memory.New()),
				artifactcatalog.WithBlobStore(memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := artifactcatalog.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T, extra ...artifactcatalog.Option) (artifactcatalog.Service, artifactcatalog.Repository) {
	t.Helper()

	repo := memory.New()
	options := append([]artifactcatalog.Option{
		artifactcatalog.WithRepository(repo),
		artifactcatalog.WithBlobStore(memorystorage.New()),
		artifactcatalog.WithPublicBaseURL("https://museum.test"),
	}, extra...)

	svc, err := artifactcatalog.New(options...)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc, repo
}

func createArtifact(t *testing.T, svc artifactcatalog.Service, actor *artifactcatalog.Principal, name string) *artifactcatalog.Artifact {
	t.Helper()

	result, err := svc.CreateArtifact(context.Background(), artifactcatalog.CreateArtifactRequest{
		Actor: actor,
		Name:  name,
	})
	require.NoError(t, err)
	require.NoError(t, result.Err)

	return result.Artifact
}

func TestCreateArtifact(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("staff creation starts pending", func(t *testing.T) {
		artifact := createArtifact(t, svc, staffActor, "Bronze Mirror")
		assert.Equal(t, artifactcatalog.ArtifactStatusPending, artifact.Status)
	})

	t.Run("admin creation starts approved", func(t *testing.T) {
		artifact := createArtifact(t, svc, adminActor, "Jade Amulet")
		assert.Equal(t, artifactcatalog.ArtifactStatusApproved, artifact.Status)
	})

	t.Run("anonymous creation rejected", func(t *testing.T) {
		_, err := svc.CreateArtifact(ctx, artifactcatalog.CreateArtifactRequest{Name: "Forged Entry"})
		assert.ErrorIs(t, err, artifactcatalog.ErrNotAuthorized)
	})

	t.Run("blank name rejected before any write", func(t *testing.T) {
		_, err := svc.CreateArtifact(ctx, artifactcatalog.CreateArtifactRequest{
			Actor: adminActor,
			Name:  "   ",
		})
		assert.ErrorIs(t, err, artifactcatalog.ErrValidation)
	})

	t.Run("condition status defaults to Good", func(t *testing.T) {
		artifact := createArtifact(t, svc, adminActor, "Clay Tablet")
		assert.Equal(t, "Good", artifact.ConditionStatus)
	})

	t.Run("qr code url derived from public base", func(t *testing.T) {
		artifact := createArtifact(t, svc, adminActor, "Stone Seal")
		assert.Equal(t, "https://museum.test/artifact/"+artifact.ID.String(), artifact.QRCodeURL)
	})
}

func TestApproveArtifact(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("admin approves pending artifact", func(t *testing.T) {
		artifact := createArtifact(t, svc, staffActor, "Iron Spearhead")

		approved, err := svc.ApproveArtifact(ctx, artifact.ID, adminActor)
		require.NoError(t, err)
		assert.Equal(t, artifactcatalog.ArtifactStatusApproved, approved.Status)
	})

	t.Run("approving an approved artifact fails", func(t *testing.T) {
		artifact := createArtifact(t, svc, adminActor, "Silver Coin")

		_, err := svc.ApproveArtifact(ctx, artifact.ID, adminActor)
		assert.ErrorIs(t, err, artifactcatalog.ErrInvalidTransition)
	})

	t.Run("staff approval rejected and status unchanged", func(t *testing.T) {
		artifact := createArtifact(t, svc, staffActor, "Amber Bead")

		_, err := svc.ApproveArtifact(ctx, artifact.ID, staffActor)
		assert.ErrorIs(t, err, artifactcatalog.ErrNotAuthorized)

		current, err := svc.GetArtifact(ctx, artifact.ID, artifactcatalog.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, artifactcatalog.ArtifactStatusPending, current.Status)
	})

	t.Run("anonymous approval rejected", func(t *testing.T) {
		artifact := createArtifact(t, svc, staffActor, "Glass Vial")

		_, err := svc.ApproveArtifact(ctx, artifact.ID, nil)
		assert.ErrorIs(t, err, artifactcatalog.ErrNotAuthorized)
	})

	t.Run("unknown artifact", func(t *testing.T) {
		_, err := svc.ApproveArtifact(ctx, uuid.New(), adminActor)
		assert.ErrorIs(t, err, artifactcatalog.ErrArtifactNotFound)
	})
}

func TestUpdateArtifact(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("staff cannot edit", func(t *testing.T) {
		artifact := createArtifact(t, svc, staffActor, "Wooden Idol")

		_, err := svc.UpdateArtifact(ctx, artifactcatalog.UpdateArtifactRequest{
			Actor:      staffActor,
			ArtifactID: artifact.ID,
			Name:       "Renamed Idol",
		})
		assert.ErrorIs(t, err, artifactcatalog.ErrNotAuthorized)
	})

	t.Run("edit never changes status", func(t *testing.T) {
		artifact := createArtifact(t, svc, staffActor, "Painted Urn")

		result, err := svc.UpdateArtifact(ctx, artifactcatalog.UpdateArtifactRequest{
			Actor:       adminActor,
			ArtifactID:  artifact.ID,
			Name:        "Painted Urn (restored)",
			Description: "Restored in 1998",
		})
		require.NoError(t, err)
		require.NoError(t, result.Err)
		assert.Equal(t, artifactcatalog.ArtifactStatusPending, result.Artifact.Status)
		assert.Equal(t, "Painted Urn (restored)", result.Artifact.Name)
	})

	t.Run("unknown artifact", func(t *testing.T) {
		_, err := svc.UpdateArtifact(ctx, artifactcatalog.UpdateArtifactRequest{
			Actor:      adminActor,
			ArtifactID: uuid.New(),
			Name:       "Ghost",
		})
		assert.ErrorIs(t, err, artifactcatalog.ErrArtifactNotFound)
	})
}

func TestDeleteArtifact(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	t.Run("staff cannot delete", func(t *testing.T) {
		artifact := createArtifact(t, svc, adminActor, "Gold Ring")

		err := svc.DeleteArtifact(ctx, artifact.ID, staffActor)
		assert.ErrorIs(t, err, artifactcatalog.ErrNotAuthorized)
	})

	t.Run("delete is terminal and cascades images", func(t *testing.T) {
		result, err := svc.CreateArtifact(ctx, artifactcatalog.CreateArtifactRequest{
			Actor: adminActor,
			Name:  "Mosaic Fragment",
			Images: []artifactcatalog.ImageUpload{
				{FileName: "front.jpg", Reader: strings.NewReader("front")},
				{FileName: "back.jpg", Reader: strings.NewReader("back")},
			},
		})
		require.NoError(t, err)
		require.NoError(t, result.Err)
		require.Equal(t, 2, result.ImagesAttached)

		artifactID := result.Artifact.ID
		require.NoError(t, svc.DeleteArtifact(ctx, artifactID, adminActor))

		_, err = repo.GetArtifact(ctx, artifactID)
		assert.ErrorIs(t, err, artifactcatalog.ErrArtifactNotFound)

		images, err := repo.ListArtifactImages(ctx, artifactID)
		require.NoError(t, err)
		assert.Empty(t, images)

		artifacts, err := repo.ListArtifacts(ctx, nil)
		require.NoError(t, err)
		for _, a := range artifacts {
			assert.NotEqual(t, artifactID, a.ID)
		}
	})
}

func TestImageAttachment(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("display order assigned in submission order", func(t *testing.T) {
		result, err := svc.CreateArtifact(ctx, artifactcatalog.CreateArtifactRequest{
			Actor: adminActor,
			Name:  "Ceremonial Mask",
			Images: []artifactcatalog.ImageUpload{
				{FileName: "a.jpg", Reader: strings.NewReader("a")},
				{FileName: "b.jpg", Reader: strings.NewReader("b")},
				{FileName: "c.jpg", Reader: strings.NewReader("c")},
			},
		})
		require.NoError(t, err)
		require.NoError(t, result.Err)
		assert.Equal(t, 3, result.ImagesAttached)

		artifact, err := svc.GetArtifact(ctx, result.Artifact.ID, artifactcatalog.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, artifact.Images, 3)
		for i, image := range artifact.Images {
			assert.Equal(t, i, image.DisplayOrder)
			assert.NotEmpty(t, image.URL)
		}
	})

	t.Run("appended images continue the order", func(t *testing.T) {
		result, err := svc.CreateArtifact(ctx, artifactcatalog.CreateArtifactRequest{
			Actor:  adminActor,
			Name:   "Tapestry",
			Images: []artifactcatalog.ImageUpload{{FileName: "one.jpg", Reader: strings.NewReader("1")}},
		})
		require.NoError(t, err)
		require.NoError(t, result.Err)

		updated, err := svc.UpdateArtifact(ctx, artifactcatalog.UpdateArtifactRequest{
			Actor:      adminActor,
			ArtifactID: result.Artifact.ID,
			Name:       "Tapestry",
			Images: []artifactcatalog.ImageUpload{
				{FileName: "two.jpg", Reader: strings.NewReader("2")},
			},
		})
		require.NoError(t, err)
		require.NoError(t, updated.Err)

		artifact, err := svc.GetArtifact(ctx, result.Artifact.ID, artifactcatalog.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, artifact.Images, 2)
		assert.Equal(t, 0, artifact.Images[0].DisplayOrder)
		assert.Equal(t, 1, artifact.Images[1].DisplayOrder)
	})
}

// flakyBlobStore fails every upload after the first n.
type flakyBlobStore struct {
	artifactcatalog.BlobStore
	mu        sync.Mutex
	succeeded int
	allow     int
}

func (f *flakyBlobStore) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.succeeded >= f.allow {
		return "", errors.New("bucket unavailable")
	}
	f.succeeded++
	return f.BlobStore.Upload(ctx, objectKey, reader)
}

func TestImageAttachmentPartialFailure(t *testing.T) {
	repo := memory.New()
	store := &flakyBlobStore{BlobStore: memorystorage.New(), allow: 1}
	svc, err := artifactcatalog.New(
		artifactcatalog.WithRepository(repo),
		artifactcatalog.WithBlobStore(store),
	)
	require.NoError(t, err)

	ctx := context.Background()
	result, err := svc.CreateArtifact(ctx, artifactcatalog.CreateArtifactRequest{
		Actor: adminActor,
		Name:  "Fresco Panel",
		Images: []artifactcatalog.ImageUpload{
			{FileName: "a.jpg", Reader: strings.NewReader("a")},
			{FileName: "b.jpg", Reader: strings.NewReader("b")},
			{FileName: "c.jpg", Reader: strings.NewReader("c")},
		},
	})
	require.NoError(t, err)

	// The artifact row and the first image survive; nothing is rolled back.
	assert.Error(t, result.Err)
	assert.Equal(t, 1, result.ImagesAttached)

	artifact, err := svc.GetArtifact(ctx, result.Artifact.ID, artifactcatalog.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, artifact.Images, 1)
}

// leakyRepository ignores status filters to exercise the defense-in-depth
// post-filter on public reads.
type leakyRepository struct {
	artifactcatalog.Repository
}

func (l *leakyRepository) ListArtifacts(ctx context.Context, status *artifactcatalog.ArtifactStatus) ([]*artifactcatalog.Artifact, error) {
	return l.Repository.ListArtifacts(ctx, nil)
}

func TestPublicReadsNeverExposePending(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	pending := createArtifact(t, svc, staffActor, "Unvetted Relic")
	approved := createArtifact(t, svc, adminActor, "Vetted Relic")

	t.Run("public catalog filters pending", func(t *testing.T) {
		catalog, err := svc.PublicCatalog(ctx)
		require.NoError(t, err)

		ids := make([]uuid.UUID, 0, len(catalog))
		for _, a := range catalog {
			ids = append(ids, a.ID)
		}
		assert.Contains(t, ids, approved.ID)
		assert.NotContains(t, ids, pending.ID)
	})

	t.Run("public get hides pending as not found", func(t *testing.T) {
		_, err := svc.PublicArtifact(ctx, pending.ID)
		assert.ErrorIs(t, err, artifactcatalog.ErrArtifactNotFound)
	})

	t.Run("pending filtered even when the store ignores filters", func(t *testing.T) {
		leaky := &leakyRepository{Repository: memory.New()}
		svc, err := artifactcatalog.New(artifactcatalog.WithRepository(leaky))
		require.NoError(t, err)

		result, err := svc.CreateArtifact(ctx, artifactcatalog.CreateArtifactRequest{
			Actor: staffActor,
			Name:  "Leaked Relic",
		})
		require.NoError(t, err)
		require.NoError(t, result.Err)

		catalog, err := svc.PublicCatalog(ctx)
		require.NoError(t, err)
		assert.Empty(t, catalog)
	})

	t.Run("staff sees pending artifacts", func(t *testing.T) {
		artifacts, err := svc.ListArtifacts(ctx, artifactcatalog.RoleStaff)
		require.NoError(t, err)

		var found bool
		for _, a := range artifacts {
			if a.ID == pending.ID {
				found = true
			}
		}
		assert.True(t, found)
	})
}

func TestRecordViewConcurrent(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	artifact := createArtifact(t, svc, adminActor, "Popular Exhibit")

	const viewers = 100
	var wg sync.WaitGroup
	wg.Add(viewers)
	for i := 0; i < viewers; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.RecordView(ctx, artifact.ID))
		}()
	}
	wg.Wait()

	current, err := svc.GetArtifact(ctx, artifact.ID, artifactcatalog.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(viewers), current.ViewCount)
}

func TestRecordScan(t *testing.T) {
	svc, repo := setupTestService(t)
	ctx := context.Background()

	artifact := createArtifact(t, svc, adminActor, "Scanned Exhibit")

	event, err := svc.RecordScan(ctx, artifact.ID, "Mozilla/5.0 (iPhone) Safari/605.1.15")
	require.NoError(t, err)
	assert.Equal(t, artifactcatalog.DeviceMobile, event.DeviceType)
	assert.Equal(t, "Safari", event.Browser)

	events, err := repo.ListScanEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)

	t.Run("unknown artifact rejected", func(t *testing.T) {
		_, err := svc.RecordScan(ctx, uuid.New(), "curl/8.4.0")
		assert.ErrorIs(t, err, artifactcatalog.ErrArtifactNotFound)
	})
}

func TestCategoryManagement(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("staff cannot manage categories", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, artifactcatalog.CreateCategoryRequest{
			Actor: staffActor,
			Name:  "Ceramics",
		})
		assert.ErrorIs(t, err, artifactcatalog.ErrNotAuthorized)
	})

	t.Run("categories listed by name", func(t *testing.T) {
		for _, name := range []string{"Textiles", "Ceramics", "Metalwork"} {
			_, err := svc.CreateCategory(ctx, artifactcatalog.CreateCategoryRequest{
				Actor: adminActor,
				Name:  name,
			})
			require.NoError(t, err)
		}

		categories, err := svc.ListCategories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 3)
		assert.Equal(t, "Ceramics", categories[0].Name)
		assert.Equal(t, "Metalwork", categories[1].Name)
		assert.Equal(t, "Textiles", categories[2].Name)
	})

	t.Run("delete clears artifact references", func(t *testing.T) {
		category, err := svc.CreateCategory(ctx, artifactcatalog.CreateCategoryRequest{
			Actor: adminActor,
			Name:  "Doomed",
		})
		require.NoError(t, err)

		result, err := svc.CreateArtifact(ctx, artifactcatalog.CreateArtifactRequest{
			Actor:      adminActor,
			Name:       "Categorized Relic",
			CategoryID: &category.ID,
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteCategory(ctx, category.ID, adminActor))

		artifact, err := svc.GetArtifact(ctx, result.Artifact.ID, artifactcatalog.RoleAdmin)
		require.NoError(t, err)
		assert.Nil(t, artifact.CategoryID)
	})
}

func TestAnalytics(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	artifact := createArtifact(t, svc, adminActor, "Analyzed Exhibit")
	_, err := svc.RecordScan(ctx, artifact.ID, "Mozilla/5.0 (iPhone) Mobile Safari")
	require.NoError(t, err)
	_, err = svc.RecordScan(ctx, artifact.ID, "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0")
	require.NoError(t, err)

	t.Run("staff cannot view analytics", func(t *testing.T) {
		_, err := svc.Analytics(ctx, artifactcatalog.RoleStaff)
		assert.ErrorIs(t, err, artifactcatalog.ErrNotAuthorized)
	})

	t.Run("admin report aggregates scans", func(t *testing.T) {
		report, err := svc.Analytics(ctx, artifactcatalog.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Devices[artifactcatalog.DeviceMobile])
		assert.Equal(t, 1, report.Devices[artifactcatalog.DeviceDesktop])
		require.Len(t, report.DailyScans, 1)
		assert.Equal(t, 2, report.DailyScans[0].Count)
	})

	t.Run("stats summarize the catalog", func(t *testing.T) {
		stats, err := svc.Stats(ctx, artifactcatalog.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Artifacts)
		assert.Equal(t, int64(0), stats.TotalViews)
	})
}
