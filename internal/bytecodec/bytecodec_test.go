package bytecodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchsafeRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 127, 128, 0x7F, 0x3FFF, 0x1FFFFF, 0x0FFFFFFF} {
		enc := Encode(n, 4, Synchsafe)
		got, err := Decode(enc, 0, 4, Synchsafe)
		require.NoError(t, err)
		assert.Equal(t, n, got, "round trip for %d", n)
	}
}

func TestBigEndianRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 255, 256, 0xFFFFFF} {
		enc := Encode(n, 3, BigEndian)
		got, err := Decode(enc, 0, 3, BigEndian)
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestLittleEndianRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 0xAABBCCDD, 0xFFFFFFFF} {
		enc := Encode(n, 4, LittleEndian)
		got, err := Decode(enc, 0, 4, LittleEndian)
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestKnownSynchsafeValue(t *testing.T) {
	// 0x0FFFFFFF <-> 0x7F7F7F7F, the classic ID3v2 synchsafe maximum.
	enc := Encode(0x0FFFFFFF, 4, Synchsafe)
	assert.Equal(t, []byte{0x7F, 0x7F, 0x7F, 0x7F}, enc)

	got, err := Decode([]byte{0x7F, 0x7F, 0x7F, 0x7F}, 0, 4, Synchsafe)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0FFFFFFF), got)
}

func TestUpdateSizeFieldWithExtra(t *testing.T) {
	current := Encode(8, 4, BigEndian)
	updated, err := UpdateSizeField(current, 10, BigEndian)
	require.NoError(t, err)

	got, err := Decode(updated, 0, 4, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, uint64(18), got)
}

func TestUpdateSizeFieldPreservesScheme(t *testing.T) {
	current := Encode(5, 4, Synchsafe)
	updated, err := UpdateSizeField(current, 3, Synchsafe)
	require.NoError(t, err)

	// A synchsafe re-decode must see the incremented value; decoding the
	// same bytes as plain big-endian must NOT see 8 unless every byte
	// happens to be <0x80 (true here), so check scheme didn't flip by
	// confirming no byte in the result sets bit 7.
	for _, b := range updated {
		assert.Zero(t, b&0x80)
	}

	got, err := Decode(updated, 0, 4, Synchsafe)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), got)
}

func TestUpdateSizeFieldOverflow(t *testing.T) {
	current := []byte{0x7F, 0x7F, 0x7F, 0x7F} // synchsafe maximum, 0x0FFFFFFF
	_, err := UpdateSizeField(current, 1, Synchsafe)
	assert.ErrorIs(t, err, ErrSizeOverflow)
}

func TestDecodeOutOfBounds(t *testing.T) {
	_, err := Decode([]byte{1, 2}, 0, 4, BigEndian)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}
