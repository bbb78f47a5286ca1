// Package ape reads and writes the APEv2 tag: a 32-byte footer (with an
// optional mirrored 32-byte header) bracketing a list of
// {size, flags, NUL-terminated key, payload} frames, located either at
// end-of-file or 128 bytes earlier when an ID3v1 trailer follows it.
//
// Ported from original_source/include/ape.hpp's apeTagProperties/tagReader,
// which locates the footer by probing both positions, reads the whole tag
// region into one buffer, and grows a frame by building an extended buffer
// before handing it to a splice-and-rename writer; here generalized from
// one hand-written Get/Set pair per field to the shared meta.MetaEntry
// vocabulary, and writing through the shared rewriter package instead of
// ape.hpp's own ReWriteFile/renameFile duplicate.
package ape

import (
	"os"

	"go.uber.org/zap"

	"github.com/dda119141/mp3tags/internal/bytecodec"
	"github.com/dda119141/mp3tags/internal/rewriter"
	"github.com/dda119141/mp3tags/internal/textcodec"
	"github.com/dda119141/mp3tags/meta"
)

// FooterSize is the fixed size of the APEv2 header and footer structures;
// both share the same layout.
const FooterSize = 32

const preamble = "APETAGEX"

const id3v1TrailerSize = 128

const headerPresentFlag = 0x80000000

var log = zap.NewNop().Sugar()

// SetLogger routes ape diagnostics into an application's zap pipeline.
func SetLogger(l *zap.SugaredLogger) { log = l }

// keys maps the MetaEntry vocabulary to the uppercase ASCII APE key names,
// following original_source/include/ape.hpp's GetTitle/GetAlbum/... family.
var keys = map[meta.MetaEntry]string{
	meta.Title:    "TITLE",
	meta.Artist:   "ARTIST",
	meta.Album:    "ALBUM",
	meta.Year:     "YEAR",
	meta.Comment:  "COMMENT",
	meta.Genre:    "GENRE",
	meta.Composer: "COMPOSER",
}

// frame describes one parsed APE frame's location and metadata, all as
// absolute byte offsets within the file.
type frame struct {
	key          string
	payloadFlags uint32
	frameStart   int64
	payloadStart int64
	payloadSize  uint32
}

// Tag is a loaded, writable view over one file's APEv2 tag.
type Tag struct {
	path          string
	footerBegin   int64
	tagStart      int64 // first byte of the frame area
	headerPresent bool
	headerStart   int64
	frames        []frame
}

// Load locates and parses the APEv2 footer (and frame list) of path,
// probing 128 bytes before end-of-file first (an ID3v1 trailer following
// the tag) and then end-of-file itself.
func Load(path string) (*Tag, meta.StatusCode) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, meta.IoError
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, meta.IoError
	}
	defer f.Close()

	footerBegin, status := locateFooter(f, info.Size())
	if status != meta.Ok {
		return nil, status
	}

	footer := make([]byte, FooterSize)
	if _, err := f.ReadAt(footer, footerBegin); err != nil {
		return nil, meta.IoError
	}

	version, _ := bytecodec.Decode(footer, 8, 4, bytecodec.LittleEndian)
	if version != 1000 && version != 2000 {
		return nil, meta.TagVersionError
	}

	tagSizeVal, _ := bytecodec.Decode(footer, 12, 4, bytecodec.LittleEndian)
	if tagSizeVal == 0 {
		return nil, meta.NoTagLength
	}
	tagSize := int64(tagSizeVal)

	flagsVal, _ := bytecodec.Decode(footer, 20, 4, bytecodec.LittleEndian)
	headerPresent := flagsVal&headerPresentFlag != 0

	// tagSize is footer-inclusive (spec.md §4.5), so the frame area itself
	// begins footerSize bytes after footerBegin-tagSize.
	tagStart := footerBegin - tagSize + FooterSize
	headerStart := tagStart - FooterSize

	region := make([]byte, tagSize-FooterSize)
	if len(region) > 0 {
		if _, err := f.ReadAt(region, tagStart); err != nil {
			return nil, meta.IoError
		}
	}

	frames, status := parseFrames(region, tagStart)
	if status != meta.Ok {
		return nil, status
	}

	log.Debugw("loaded ape tag", "path", path, "frames", len(frames))
	return &Tag{
		path:          path,
		footerBegin:   footerBegin,
		tagStart:      tagStart,
		headerPresent: headerPresent,
		headerStart:   headerStart,
		frames:        frames,
	}, meta.Ok
}

func locateFooter(f *os.File, fileSize int64) (int64, meta.StatusCode) {
	// Probe EOF-128 (APE footer followed by an ID3v1 trailer) before bare
	// EOF, matching original_source/include/ape.hpp's tagReader constructor
	// order, which assumes an ID3v1 trailer is present first and falls
	// back to its absence (spec.md §4.5, SPEC_FULL.md §5.5).
	candidates := []int64{fileSize - id3v1TrailerSize - FooterSize, fileSize - FooterSize}
	buf := make([]byte, len(preamble))

	for _, pos := range candidates {
		if pos < 0 {
			continue
		}
		if _, err := f.ReadAt(buf, pos); err != nil {
			continue
		}
		if string(buf) == preamble {
			return pos, meta.Ok
		}
	}
	return 0, meta.NoTag
}

// parseFrames performs the linear key-list scan spec.md §4.5 requires
// (APE keys are NUL-terminated, so substring search cannot be trusted to
// land on a real frame boundary).
func parseFrames(region []byte, regionStart int64) ([]frame, meta.StatusCode) {
	var frames []frame
	offset := 0

	for offset < len(region) {
		if offset+8 > len(region) {
			return nil, meta.IoError
		}
		payloadSizeVal, _ := bytecodec.Decode(region, offset, 4, bytecodec.LittleEndian)
		flagsVal, _ := bytecodec.Decode(region, offset+4, 4, bytecodec.LittleEndian)

		keyStart := offset + 8
		keyEnd := keyStart
		for keyEnd < len(region) && region[keyEnd] != 0x00 {
			keyEnd++
		}
		if keyEnd >= len(region) {
			return nil, meta.IoError
		}
		key := string(region[keyStart:keyEnd])

		payloadStart := keyEnd + 1
		payloadSize := int(payloadSizeVal)
		if payloadStart+payloadSize > len(region) {
			return nil, meta.IoError
		}

		frames = append(frames, frame{
			key:          key,
			payloadFlags: uint32(flagsVal),
			frameStart:   regionStart + int64(offset),
			payloadStart: regionStart + int64(payloadStart),
			payloadSize:  uint32(payloadSize),
		})

		offset = payloadStart + payloadSize
	}

	return frames, meta.Ok
}

func (t *Tag) find(entry meta.MetaEntry) (*frame, meta.StatusCode) {
	key, ok := keys[entry]
	if !ok {
		return nil, meta.NoFrame
	}
	for i := range t.frames {
		if t.frames[i].key == key {
			return &t.frames[i], meta.Ok
		}
	}
	return nil, meta.NoFrame
}

// Read extracts the MetaEntry's payload as UTF-8, lenient-decoded.
func (t *Tag) Read(entry meta.MetaEntry) (string, meta.StatusCode) {
	fr, status := t.find(entry)
	if status != meta.Ok {
		return "", status
	}

	f, err := os.Open(t.path)
	if err != nil {
		return "", meta.IoError
	}
	defer f.Close()

	payload := make([]byte, fr.payloadSize)
	if fr.payloadSize > 0 {
		if _, err := f.ReadAt(payload, fr.payloadStart); err != nil {
			return "", meta.IoError
		}
	}

	text, err := textcodec.Decode(payload, textcodec.Utf8, false)
	if err != nil {
		return "", meta.IoError
	}
	return text, meta.Ok
}

// Write updates an existing frame's payload in place when it still fits,
// or grows the tag (frame size, tag size in footer and header-if-present,
// then a splice-and-rename) when it does not. Per spec.md §4.6, a
// MetaEntry with no existing frame is not created — APE tag/frame
// creation is a non-goal.
func (t *Tag) Write(entry meta.MetaEntry, content string) meta.StatusCode {
	fr, status := t.find(entry)
	if status != meta.Ok {
		return status
	}

	encoded, err := textcodec.Encode(content, textcodec.Utf8)
	if err != nil {
		return meta.IoError
	}
	encoded = encoded[:len(encoded)-1] // strip the NUL terminator Encode appends; APE values are not NUL-terminated

	if len(encoded) <= int(fr.payloadSize) {
		return t.writeInPlace(fr, encoded)
	}
	return t.grow(fr, encoded)
}

func (t *Tag) writeInPlace(fr *frame, encoded []byte) meta.StatusCode {
	padded := make([]byte, fr.payloadSize)
	copy(padded, encoded)

	f, err := os.OpenFile(t.path, os.O_WRONLY, 0o644)
	if err != nil {
		return meta.IoError
	}
	defer f.Close()

	if _, err := f.WriteAt(padded, fr.payloadStart); err != nil {
		return meta.IoError
	}
	log.Debugw("wrote ape frame in place", "path", t.path, "key", fr.key)
	return meta.Ok
}

func (t *Tag) grow(fr *frame, encoded []byte) meta.StatusCode {
	delta := len(encoded) - int(fr.payloadSize)

	regionStart := t.tagStart
	if t.headerPresent {
		regionStart = t.headerStart
	}
	regionEnd := t.footerBegin + FooterSize
	origLen := int(regionEnd - regionStart)

	f, err := os.Open(t.path)
	if err != nil {
		return meta.IoError
	}
	buf := make([]byte, origLen)
	_, err = f.ReadAt(buf, regionStart)
	f.Close()
	if err != nil {
		return meta.IoError
	}

	frameSizeOffset := int(fr.frameStart - regionStart)
	newFrameSize, err := bytecodec.UpdateSizeField(buf[frameSizeOffset:frameSizeOffset+4], delta, bytecodec.LittleEndian)
	if err != nil {
		return meta.ContentLengthBiggerThanFrameArea
	}
	copy(buf[frameSizeOffset:frameSizeOffset+4], newFrameSize)

	footerSizeOffset := int(t.footerBegin-regionStart) + 12
	newTagSize, err := bytecodec.UpdateSizeField(buf[footerSizeOffset:footerSizeOffset+4], delta, bytecodec.LittleEndian)
	if err != nil {
		return meta.ContentLengthBiggerThanFrameArea
	}
	copy(buf[footerSizeOffset:footerSizeOffset+4], newTagSize)

	if t.headerPresent {
		headerSizeOffset := 12
		copy(buf[headerSizeOffset:headerSizeOffset+4], newTagSize)
	}

	payloadOffset := int(fr.payloadStart - regionStart)
	tail := append([]byte{}, buf[payloadOffset+int(fr.payloadSize):]...)

	extended := make([]byte, 0, len(buf)+delta)
	extended = append(extended, buf[:payloadOffset]...)
	extended = append(extended, encoded...)
	extended = append(extended, tail...)

	if err := rewriter.Rewrite(t.path, int(regionStart), origLen, extended); err != nil {
		log.Warnw("ape rewrite failed", "path", t.path, "err", err)
		return meta.FileRenameError
	}

	log.Debugw("grew ape frame", "path", t.path, "key", fr.key, "delta", delta)
	return meta.Ok
}
