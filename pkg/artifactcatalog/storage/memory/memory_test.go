package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	backend := New()
	ctx := context.Background()

	t.Run("upload and download", func(t *testing.T) {
		url, err := backend.Upload(ctx, "abc.jpg", strings.NewReader("image bytes"))
		require.NoError(t, err)
		assert.Equal(t, "memory://artifact-images/abc.jpg", url)

		reader, err := backend.Download(ctx, "abc.jpg")
		require.NoError(t, err)
		defer reader.Close()

		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "image bytes", string(data))
	})

	t.Run("delete", func(t *testing.T) {
		_, err := backend.Upload(ctx, "gone.jpg", strings.NewReader("x"))
		require.NoError(t, err)

		require.NoError(t, backend.Delete(ctx, "gone.jpg"))

		_, err = backend.Download(ctx, "gone.jpg")
		assert.Error(t, err)
		assert.Error(t, backend.Delete(ctx, "gone.jpg"))
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := backend.Download(ctx, "never-uploaded")
		assert.Error(t, err)
	})
}
