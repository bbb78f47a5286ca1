package id3v1

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dda119141/mp3tags/meta"
)

func buildFile(t *testing.T, audio []byte, withTag bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.mp3")

	buf := append([]byte{}, audio...)
	if withTag {
		trailer := make([]byte, TagSize)
		copy(trailer, "TAG")
		buf = append(buf, trailer...)
	}
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestLoadNoTag(t *testing.T) {
	path := buildFile(t, []byte("just audio data, no tag here"), false)
	_, status := Load(path)
	assert.Equal(t, meta.NoTag, status)
}

func TestReadEmptySlots(t *testing.T) {
	path := buildFile(t, []byte("AUDIO"), true)
	tag, status := Load(path)
	require.Equal(t, meta.Ok, status)

	title, st := tag.Read(meta.Title)
	require.Equal(t, meta.Ok, st)
	assert.Equal(t, "", title)
}

func TestWriteAndReadBackAlbum(t *testing.T) {
	path := buildFile(t, []byte("AUDIOBODY"), true)
	tag, status := Load(path)
	require.Equal(t, meta.Ok, status)

	st := tag.Write(meta.Album, "ABC")
	require.Equal(t, meta.Ok, st)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	fileSize := int64(len(raw))
	albumStart := fileSize - TagSize + 3 + 60
	assert.Equal(t, []byte("ABC"), raw[albumStart:albumStart+3])
	assert.True(t, bytes.Equal(raw[albumStart+3:albumStart+30], make([]byte, 27)))

	reloaded, status := Load(path)
	require.Equal(t, meta.Ok, status)
	album, st := reloaded.Read(meta.Album)
	require.Equal(t, meta.Ok, st)
	assert.Equal(t, "ABC", album)
}

func TestWriteTooLongRefused(t *testing.T) {
	path := buildFile(t, []byte("AUDIO"), true)
	tag, status := Load(path)
	require.Equal(t, meta.Ok, status)

	tooLong := make([]byte, 31)
	for i := range tooLong {
		tooLong[i] = 'a'
	}
	st := tag.Write(meta.Title, string(tooLong))
	assert.Equal(t, meta.PayloadTooLargeForFrame, st)
}

func TestWritePreservesFileSize(t *testing.T) {
	path := buildFile(t, []byte("AUDIOBODY"), true)
	before, err := os.Stat(path)
	require.NoError(t, err)

	tag, status := Load(path)
	require.Equal(t, meta.Ok, status)
	st := tag.Write(meta.Comment, "hi")
	require.Equal(t, meta.Ok, st)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.Size(), after.Size())
}

func TestGenreByteAndName(t *testing.T) {
	path := buildFile(t, []byte("AUDIO"), true)
	tag, status := Load(path)
	require.Equal(t, meta.Ok, status)

	st := tag.Write(meta.Genre, "9")
	require.Equal(t, meta.Ok, st)

	reloaded, status := Load(path)
	require.Equal(t, meta.Ok, status)

	b, ok := reloaded.GenreByte()
	require.True(t, ok)
	assert.Equal(t, byte(9), b)

	name, ok := GenreName(b)
	require.True(t, ok)
	assert.Equal(t, "Metal", name)
}
