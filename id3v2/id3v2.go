// Package id3v2 reads and writes ID3v2.2/2.3/2.4 tags: a 10-byte header
// ("ID3" + version + flags + synchsafe size) followed by a sequence of
// frames whose identifier length, header length, and frame-size encoding
// scheme all depend on the version byte.
//
// Ported from original_source/include/id3v2_base.hpp and
// id3v2_common.hpp's TagReadWriter/writeFramePayload, which parse the
// header, locate a frame by searching the decoded tag area for its
// identifier, and grow a frame by building an extended buffer before
// handing it to a splice-and-rename writer. Generalized here from one
// hand-written Get/Set pair per frame to the shared meta.MetaEntry
// vocabulary, and from the teacher's per-version registration
// subpackages (jlubawy-go-id3v2/id3v230) to a single package holding all
// three Layouts, since every version must always be available (see
// DESIGN.md).
package id3v2

import (
	"errors"
	"os"

	"go.uber.org/zap"

	"github.com/dda119141/mp3tags/internal/bytecodec"
	"github.com/dda119141/mp3tags/internal/rewriter"
	"github.com/dda119141/mp3tags/internal/textcodec"
	"github.com/dda119141/mp3tags/meta"
)

// TagHeaderSize is the fixed 10-byte ID3v2 header length, the same
// across every version: "ID3" (3) + major + revision + flags (3) +
// synchsafe size (4).
const TagHeaderSize = 10

const magic = "ID3"

var log = zap.NewNop().Sugar()

// SetLogger routes id3v2 diagnostics into an application's zap pipeline.
func SetLogger(l *zap.SugaredLogger) { log = l }

var errNoFrame = errors.New("id3v2: frame not found")

// Tag is a loaded, writable view over one file's ID3v2 tag.
type Tag struct {
	path   string
	layout Layout
	major  byte
	buffer []byte // header (10 bytes) + frames + padding, file offset 0
}

// Major reports the ID3v2 major version (2, 3, or 4) this tag was read
// as, letting a caller interpret a version-dependent mapping such as
// Year (spec.md §9).
func (t *Tag) Major() byte { return t.major }

// Load detects and reads path's ID3v2 header and tag body.
func Load(path string) (*Tag, meta.StatusCode) {
	f, err := os.Open(path)
	if err != nil {
		return nil, meta.IoError
	}
	defer f.Close()

	header := make([]byte, TagHeaderSize)
	if _, err := f.ReadAt(header, 0); err != nil {
		return nil, meta.NoTag
	}
	if string(header[:3]) != magic {
		return nil, meta.NoTag
	}

	major := header[3]
	layout, ok := layoutForMajor(major)
	if !ok {
		return nil, meta.TagVersionError
	}

	tagSizeVal, err := bytecodec.Decode(header, 6, 4, bytecodec.Synchsafe)
	if err != nil {
		return nil, meta.IoError
	}
	if tagSizeVal == 0 {
		return nil, meta.NoTagLength
	}

	total := TagHeaderSize + int(tagSizeVal)
	buffer := make([]byte, total)
	if _, err := f.ReadAt(buffer, 0); err != nil {
		return nil, meta.IoError
	}

	log.Debugw("loaded id3v2 tag", "path", path, "major", major, "size", tagSizeVal)
	return &Tag{path: path, layout: layout, major: major, buffer: buffer}, meta.Ok
}

func decodeSize(buf []byte, offset, length int, layout Layout) (int, error) {
	v, err := bytecodec.Decode(buf, offset, length, layout.SizeScheme)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Read extracts entry's payload. Text frames (identifiers starting with
// "T", plus COMM) carry a leading encoding byte dispatched to textcodec;
// anything else is returned as raw bytes.
func (t *Tag) Read(entry meta.MetaEntry) (string, meta.StatusCode) {
	id, ok := frameID(t.layout, entry)
	if !ok {
		return "", meta.NoFrame
	}

	fr, err := t.find(id)
	if err != nil {
		return "", meta.NoFrame
	}

	payload := t.buffer[fr.contentStart : fr.contentStart+fr.size]

	if !isTextFrame(id) {
		return string(trimTrailingZeros(payload)), meta.Ok
	}
	if len(payload) == 0 {
		return "", meta.Ok
	}

	text, err := textcodec.Decode(payload[1:], textcodec.Encoding(payload[0]), false)
	if err != nil {
		return "", meta.IoError
	}
	return text, meta.Ok
}

// Write patches entry's frame in place when the new payload still fits,
// or grows the tag (frame size, tag size, splice-and-rename) when it
// does not. A MetaEntry with no existing frame is not created — tag/frame
// creation is a non-goal (spec.md §4.6).
func (t *Tag) Write(entry meta.MetaEntry, content string) meta.StatusCode {
	id, ok := frameID(t.layout, entry)
	if !ok {
		return meta.NoFrame
	}

	fr, err := t.find(id)
	if err != nil {
		return meta.NoFrame
	}

	newPayload, status := t.buildPayload(id, fr, content)
	if status != meta.Ok {
		return status
	}

	if len(newPayload) <= fr.size {
		return t.writeInPlace(fr, newPayload)
	}
	return t.grow(fr, newPayload)
}

// buildPayload renders content for entry's frame, preserving the
// existing text-frame encoding byte and stripping the terminator
// textcodec.Encode appends — ID3v2 frame sizes delimit content exactly,
// so a trailing NUL is not written (spec.md §8 scenario 1 and 5 both
// show a frame-size delta equal to the raw content length delta, with no
// terminator byte counted).
func (t *Tag) buildPayload(id string, fr *frameLoc, content string) ([]byte, meta.StatusCode) {
	if !isTextFrame(id) {
		return []byte(content), meta.Ok
	}

	var encByte byte
	if fr.size > 0 {
		encByte = t.buffer[fr.contentStart]
	}
	enc := textcodec.Encoding(encByte)

	encoded, err := textcodec.Encode(content, enc)
	if err != nil {
		return nil, meta.IoError
	}
	encoded = stripTerminator(enc, encoded)

	return append([]byte{encByte}, encoded...), meta.Ok
}

func stripTerminator(enc textcodec.Encoding, b []byte) []byte {
	n := 1
	if enc == textcodec.Utf16WithBom || enc == textcodec.Utf16Be {
		n = 2
	}
	if len(b) >= n {
		return b[:len(b)-n]
	}
	return b
}

func trimTrailingZeros(b []byte) []byte {
	end := len(b)
	for end > 0 && b[end-1] == 0x00 {
		end--
	}
	return b[:end]
}

func (t *Tag) writeInPlace(fr *frameLoc, newPayload []byte) meta.StatusCode {
	padded := make([]byte, fr.size)
	copy(padded, newPayload)

	f, err := os.OpenFile(t.path, os.O_WRONLY, 0o644)
	if err != nil {
		return meta.IoError
	}
	defer f.Close()

	if _, err := f.WriteAt(padded, int64(fr.contentStart)); err != nil {
		return meta.IoError
	}
	log.Debugw("wrote id3v2 frame in place", "path", t.path)
	return meta.Ok
}

func (t *Tag) grow(fr *frameLoc, newPayload []byte) meta.StatusCode {
	delta := len(newPayload) - fr.size

	buf := append([]byte{}, t.buffer...)

	frameSizeOffset := fr.idStart + t.layout.IDLength
	newFrameSize, err := bytecodec.UpdateSizeField(buf[frameSizeOffset:frameSizeOffset+t.layout.SizeLen], delta, t.layout.SizeScheme)
	if err != nil {
		return meta.ContentLengthBiggerThanFrameArea
	}
	copy(buf[frameSizeOffset:frameSizeOffset+t.layout.SizeLen], newFrameSize)

	newTagSize, err := bytecodec.UpdateSizeField(buf[6:10], delta, bytecodec.Synchsafe)
	if err != nil {
		return meta.ContentLengthBiggerThanFrameArea
	}
	copy(buf[6:10], newTagSize)

	tail := append([]byte{}, buf[fr.contentStart+fr.size:]...)

	extended := make([]byte, 0, len(buf)+delta)
	extended = append(extended, buf[:fr.contentStart]...)
	extended = append(extended, newPayload...)
	extended = append(extended, tail...)

	if err := rewriter.Rewrite(t.path, 0, len(t.buffer), extended); err != nil {
		log.Warnw("id3v2 rewrite failed", "path", t.path, "err", err)
		return meta.FileRenameError
	}

	log.Debugw("grew id3v2 frame", "path", t.path, "delta", delta)
	return meta.Ok
}
