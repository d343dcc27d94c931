package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	t.Parallel()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := t.Context()

	key, err := s.Upload(ctx, strings.NewReader("line-1\n"), "exports/2025-07/bank.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "exports/2025-07/bank.txt", key)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "line-1\n", string(body))

	// Re-upload replaces the content
	_, err = s.Upload(ctx, strings.NewReader("line-2\n"), key, "text/plain")
	require.NoError(t, err)
	rc, err = s.Download(ctx, key)
	require.NoError(t, err)
	body, _ = io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "line-2\n", string(body))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_RejectsEscapingPaths(t *testing.T) {
	t.Parallel()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := t.Context()

	for _, path := range []string{"../outside.txt", "exports/../../outside.txt", ".", ""} {
		_, err := s.Upload(ctx, strings.NewReader("x"), path, "text/plain")
		assert.ErrorIs(t, err, ErrInvalidPath, path)
	}
}
