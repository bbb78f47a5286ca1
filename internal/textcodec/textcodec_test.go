package textcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatin1RoundTrip(t *testing.T) {
	enc, err := Encode("Hello", Latin1)
	require.NoError(t, err)

	got, err := Decode(enc, Latin1, false)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got)
}

func TestUtf16WithBomLittleEndian(t *testing.T) {
	// 0xFF 0xFE 'H' 0x00 'i' 0x00 is UTF-16LE "Hi" with a BOM (a frame
	// payload after its 0x01 encoding byte).
	payload := []byte{0xFF, 0xFE, 'H', 0x00, 'i', 0x00}
	got, err := Decode(payload, Utf16WithBom, false)
	require.NoError(t, err)
	assert.Equal(t, "Hi", got)
}

func TestUtf16WithBomBigEndian(t *testing.T) {
	payload := []byte{0xFE, 0xFF, 0x00, 'H', 0x00, 'i'}
	got, err := Decode(payload, Utf16WithBom, false)
	require.NoError(t, err)
	assert.Equal(t, "Hi", got)
}

func TestUtf16BeNoBom(t *testing.T) {
	payload := []byte{0x00, 'H', 0x00, 'i'}
	got, err := Decode(payload, Utf16Be, false)
	require.NoError(t, err)
	assert.Equal(t, "Hi", got)
}

func TestUtf8WithBom(t *testing.T) {
	payload := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Hi")...)
	got, err := Decode(payload, Utf8, false)
	require.NoError(t, err)
	assert.Equal(t, "Hi", got)
}

func TestUtf8Plain(t *testing.T) {
	got, err := Decode([]byte("Héllo\x00"), Utf8, false)
	require.NoError(t, err)
	assert.Equal(t, "Héllo", got)
}

func TestStripsTrailingNullAndNonPrintable(t *testing.T) {
	got, err := Decode([]byte("Album\x00\x01"), Latin1, false)
	require.NoError(t, err)
	assert.Equal(t, "Album", got)
}

func TestUtf16EncodeDecodeSurrogatePair(t *testing.T) {
	// U+1F600 requires a surrogate pair in UTF-16.
	s := "\U0001F600"
	enc, err := Encode(s, Utf16WithBom)
	require.NoError(t, err)

	got, err := Decode(enc, Utf16WithBom, false)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestStrictModeRejectsInvalidUtf8(t *testing.T) {
	_, err := Decode([]byte{0xFF, 0xFE, 0xFD}, Utf8, true)
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestLenientModeReplacesInvalidUtf8(t *testing.T) {
	got, err := Decode([]byte{'h', 0xFF, 'i'}, Utf8, false)
	require.NoError(t, err)
	assert.Contains(t, got, "h")
	assert.Contains(t, got, "i")
}
