// Package id3v1 reads and writes the fixed 128-byte ID3v1 trailer:
// a 3-byte "TAG" magic followed by fixed-offset Latin-1 fields for
// title, artist, album, year, comment, and a single genre byte.
//
// Ported from original_source/include/id3v1.hpp's tagReadWriter, which
// reads the trailing 128 bytes, validates the "TAG" magic, and exposes
// fixed-offset Get/Set operations; here generalized to the shared
// meta.MetaEntry vocabulary instead of one hand-written function per
// field (GetTitle/SetTitle/...), which spec.md treats as an out-of-scope
// semantic façade.
package id3v1

import (
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/dda119141/mp3tags/internal/textcodec"
	"github.com/dda119141/mp3tags/meta"
)

// TagSize is the fixed size of the ID3v1 trailer.
const TagSize = 128

const magic = "TAG"

var log = zap.NewNop().Sugar()

// SetLogger routes id3v1 diagnostics into an application's zap pipeline.
func SetLogger(l *zap.SugaredLogger) { log = l }

type slot struct {
	start, end int
}

// slots maps each MetaEntry this format supports to its fixed byte range
// within the 125-byte payload that follows the "TAG" magic (spec.md §3).
var slots = map[meta.MetaEntry]slot{
	meta.Title:   {0, 30},
	meta.Artist:  {30, 60},
	meta.Album:   {60, 90},
	meta.Year:    {90, 94},
	meta.Comment: {94, 124},
	meta.Genre:   {124, 125},
}

// Tag is a loaded, writable view over one file's ID3v1 trailer.
type Tag struct {
	path     string
	fileSize int64
	tagStart int64 // offset of the "TAG" magic within the file
	payload  []byte
}

// Load detects and reads the ID3v1 trailer of path, returning
// meta.NoTag if the last 128 bytes do not begin with "TAG".
func Load(path string) (*Tag, meta.StatusCode) {
	info, err := os.Stat(path)
	if err != nil {
		log.Warnw("stat failed", "path", path, "err", err)
		return nil, meta.IoError
	}
	if info.Size() < TagSize {
		return nil, meta.NoTag
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, meta.IoError
	}
	defer f.Close()

	tagStart := info.Size() - TagSize
	buf := make([]byte, TagSize)
	if _, err := f.ReadAt(buf, tagStart); err != nil {
		log.Warnw("read trailer failed", "path", path, "err", err)
		return nil, meta.IoError
	}

	if string(buf[:3]) != magic {
		return nil, meta.NoTag
	}

	return &Tag{
		path:     path,
		fileSize: info.Size(),
		tagStart: tagStart,
		payload:  buf[3:],
	}, meta.Ok
}

// Read extracts the given MetaEntry, stripping trailing NULs and
// non-printable bytes. For Genre it returns the raw byte as a decimal
// string since §4.4/§9 treat the genre-table mapping as a read-only
// enrichment exposed separately via GenreName.
func (t *Tag) Read(entry meta.MetaEntry) (string, meta.StatusCode) {
	s, ok := slots[entry]
	if !ok {
		return "", meta.NoFrame
	}

	raw := t.payload[s.start:s.end]
	if entry == meta.Genre {
		return strconv.Itoa(int(raw[0])), meta.Ok
	}
	text, err := textcodec.Decode(raw, textcodec.Latin1, false)
	if err != nil {
		return "", meta.IoError
	}
	return text, meta.Ok
}

// GenreByte returns the raw ID3v1 genre byte, and whether a Genre slot
// was present at all (every ID3v1 tag has one; false only signals a
// malformed/absent tag view).
func (t *Tag) GenreByte() (byte, bool) {
	s := slots[meta.Genre]
	if len(t.payload) <= s.start {
		return 0, false
	}
	return t.payload[s.start], true
}

// Write patches the slot for entry in place and rewrites the trailer.
// ID3v1 slots are fixed-length: content longer than the slot is refused
// with PayloadTooLargeForFrame rather than grown, since ID3v1 never
// changes file length (spec.md §4.4).
func (t *Tag) Write(entry meta.MetaEntry, content string) meta.StatusCode {
	s, ok := slots[entry]
	if !ok {
		return meta.NoFrame
	}
	width := s.end - s.start

	var raw []byte
	var status meta.StatusCode
	if entry == meta.Genre {
		raw, status = encodeGenre(content, width)
	} else {
		raw, status = encodeLatin1(content, width)
	}
	if status != meta.Ok {
		return status
	}

	f, err := os.OpenFile(t.path, os.O_WRONLY, 0o644)
	if err != nil {
		return meta.IoError
	}
	defer f.Close()

	offset := t.tagStart + 3 + int64(s.start)
	if _, err := f.WriteAt(raw, offset); err != nil {
		log.Warnw("write slot failed", "path", t.path, "entry", entry, "err", err)
		return meta.IoError
	}

	copy(t.payload[s.start:s.end], raw)
	log.Debugw("wrote id3v1 slot", "path", t.path, "entry", entry.String())
	return meta.Ok
}

func encodeLatin1(content string, width int) ([]byte, meta.StatusCode) {
	enc, err := textcodec.Encode(content, textcodec.Latin1)
	if err != nil {
		return nil, meta.IoError
	}
	// textcodec.Encode appends a trailing NUL terminator; ID3v1 slots are
	// fixed-width with zero padding, not NUL-terminated, so trim it back
	// off before measuring against the slot width.
	if len(enc) > 0 && enc[len(enc)-1] == 0x00 {
		enc = enc[:len(enc)-1]
	}
	if len(enc) > width {
		return nil, meta.PayloadTooLargeForFrame
	}

	out := make([]byte, width)
	copy(out, enc)
	return out, meta.Ok
}

func encodeGenre(content string, width int) ([]byte, meta.StatusCode) {
	if width != 1 {
		return nil, meta.PayloadTooLargeForFrame
	}
	var b byte
	if n, ok := parseByte(content); ok {
		b = n
	} else if len(content) > 0 {
		return nil, meta.PayloadTooLargeForFrame
	}
	return []byte{b}, meta.Ok
}

func parseByte(s string) (byte, bool) {
	if s == "" {
		return 0, false
	}
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n > 255 {
			return 0, false
		}
	}
	return byte(n), true
}
