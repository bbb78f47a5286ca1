package id3v2

import "github.com/dda119141/mp3tags/meta"

// idsV22 maps MetaEntry to its 3-character ID3v2.2 frame identifier,
// taken from the commented-out tag_names table in
// original_source/include/id3v2_v00.hpp.
var idsV22 = map[meta.MetaEntry]string{
	meta.Album:           "TAL",
	meta.Artist:          "TP1",
	meta.Genre:           "TCO",
	meta.Title:           "TT2",
	meta.Year:            "TYE",
	meta.Composer:        "TCM",
	meta.Date:            "TDA",
	meta.TextWriter:      "TXT",
	meta.TrackPosition:   "TRK",
	meta.AudioEncryption: "CRA",
	meta.Language:        "TLA",
	meta.Time:            "TIM",
	meta.OriginalFilename: "TOF",
	meta.FileType:        "TFT",
	meta.BandOrchestra:   "TP2",
	meta.Comment:         "COM",
}

// idsV23 maps MetaEntry to its 4-character ID3v2.3 frame identifier,
// taken from the commented-out tag_names table in
// original_source/include/id3v2_v30.hpp.
var idsV23 = map[meta.MetaEntry]string{
	meta.Album:           "TALB",
	meta.Artist:          "TPE1",
	meta.Genre:           "TCON",
	meta.Title:           "TIT2",
	meta.Year:            "TYER",
	meta.Composer:        "TCOM",
	meta.Date:            "TDAT",
	meta.TextWriter:      "TEXT",
	meta.TrackPosition:   "TRCK",
	meta.AudioEncryption: "AENC",
	meta.Language:        "TLAN",
	meta.Time:            "TIME",
	meta.OriginalFilename: "TOFN",
	meta.FileType:        "TFLT",
	meta.BandOrchestra:   "TPE2",
	meta.Comment:         "COMM",
}

// idsV24 is idsV23 with the frames ID3v2.4 folded into TDRC (timestamp):
// Year, Date, and Time all read/write TDRC in v2.4 (spec.md §9 flags this
// as the Year/TDRC-vs-TYER Open Question; DESIGN.md records the decision
// to also fold Date/Time the same way rather than inventing a fourth
// frame for them).
var idsV24 = func() map[meta.MetaEntry]string {
	m := make(map[meta.MetaEntry]string, len(idsV23))
	for k, v := range idsV23 {
		m[k] = v
	}
	m[meta.Year] = "TDRC"
	m[meta.Date] = "TDRC"
	m[meta.Time] = "TDRC"
	return m
}()

// frameID resolves entry to its identifier under layout, and whether the
// mapping exists at all for this version.
func frameID(layout Layout, entry meta.MetaEntry) (string, bool) {
	var table map[meta.MetaEntry]string
	switch layout.Major {
	case 2:
		table = idsV22
	case 4:
		table = idsV24
	default:
		table = idsV23
	}
	id, ok := table[entry]
	return id, ok
}

// isTextFrame reports whether id follows the text-frame payload shape
// (a leading encoding byte): true for any frame beginning with "T", plus
// COMM, following original_source/include/id3v2_common.hpp's
// `frameID.find_first_of("T") == 0` check (generalized to also cover
// COMM, whose payload begins with the same encoding-byte convention).
func isTextFrame(id string) bool {
	return len(id) > 0 && (id[0] == 'T' || id == "COM" || id == "COMM")
}
