package rewriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.mp3")
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestRewritePreservesPrefixAndSuffix(t *testing.T) {
	original := []byte("PREFIX" + "OLDTAG" + "AUDIOBODY")
	path := writeTemp(t, original)

	err := Rewrite(path, len("PREFIX"), len("OLDTAG"), []byte("MUCHLONGERTAG"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PREFIXMUCHLONGERTAGAUDIOBODY", string(got))

	assert.False(t, Stale(path))
}

func TestRewriteShrinking(t *testing.T) {
	original := []byte("PRE" + "LONGOLDTAG" + "BODY")
	path := writeTemp(t, original)

	err := Rewrite(path, len("PRE"), len("LONGOLDTAG"), []byte("X"))
	require.NoError(t, err)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PREXBODY", string(got))
}

func TestRewriteMissingFileReturnsIOError(t *testing.T) {
	err := Rewrite(filepath.Join(t.TempDir(), "missing.mp3"), 0, 0, []byte("x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
}

func TestStaleDetectsLeftoverSibling(t *testing.T) {
	path := writeTemp(t, []byte("hello"))
	require.NoError(t, os.WriteFile(path+ModExt, []byte("partial"), 0o644))
	assert.True(t, Stale(path))
}
