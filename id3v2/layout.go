package id3v2

import "github.com/dda119141/mp3tags/internal/bytecodec"

// Layout captures the per-version rules spec.md §9 asks to model as a
// tagged variant rather than runtime-dispatched objects: identifier
// length, full frame-header length, and the scheme used to decode a
// frame's own size field. Grounded on original_source's id3v2_v00.hpp
// (3-byte ID, 6-byte header, 3-byte big-endian size), id3v2_v30.hpp
// (4-byte ID, 10-byte header, 4-byte big-endian size), and
// id3v2_v40.hpp/spec.md §4.1 (4-byte ID, 10-byte header, synchsafe size).
//
// Kept as one package with a Layout value per version rather than the
// teacher's id3v230 registration-subpackage pattern: all three versions
// must always be available to every operation, not gated behind a
// caller's blank import (see DESIGN.md).
type Layout struct {
	Major     byte
	IDLength  int
	HeaderLen int
	SizeLen   int
	SizeScheme bytecodec.Scheme
	HasFlags  bool
}

var (
	layoutV22 = Layout{Major: 2, IDLength: 3, HeaderLen: 6, SizeLen: 3, SizeScheme: bytecodec.BigEndian, HasFlags: false}
	layoutV23 = Layout{Major: 3, IDLength: 4, HeaderLen: 10, SizeLen: 4, SizeScheme: bytecodec.BigEndian, HasFlags: true}
	layoutV24 = Layout{Major: 4, IDLength: 4, HeaderLen: 10, SizeLen: 4, SizeScheme: bytecodec.Synchsafe, HasFlags: true}
)

// layoutForMajor resolves the major version byte from the tag header
// (offset 3) to its Layout, or false if unsupported.
func layoutForMajor(major byte) (Layout, bool) {
	switch major {
	case 2:
		return layoutV22, true
	case 3:
		return layoutV23, true
	case 4:
		return layoutV24, true
	default:
		return Layout{}, false
	}
}
