// Package meta defines the format-independent vocabulary shared by the
// id3v1, id3v2, and ape tag engines: the semantic field enumeration
// (MetaEntry), the tag formats that can carry it (TagKind), and the
// closed set of outcomes an engine operation can report (StatusCode,
// FrameStatus).
package meta

// MetaEntry names a semantic tag field independent of any format's own
// spelling for it (an ID3v2 frame ID, an APE key, an ID3v1 slot).
type MetaEntry int

const (
	Album MetaEntry = iota
	Artist
	Genre
	Title
	Year
	Composer
	Date
	TextWriter
	TrackPosition
	AudioEncryption
	Language
	Time
	OriginalFilename
	FileType
	BandOrchestra
	Comment
)

var metaEntryNames = map[MetaEntry]string{
	Album:            "Album",
	Artist:           "Artist",
	Genre:            "Genre",
	Title:            "Title",
	Year:             "Year",
	Composer:         "Composer",
	Date:             "Date",
	TextWriter:       "TextWriter",
	TrackPosition:    "TrackPosition",
	AudioEncryption:  "AudioEncryption",
	Language:         "Language",
	Time:             "Time",
	OriginalFilename: "OriginalFilename",
	FileType:         "FileType",
	BandOrchestra:    "BandOrchestra",
	Comment:          "Comment",
}

func (e MetaEntry) String() string {
	if s, ok := metaEntryNames[e]; ok {
		return s
	}
	return "Unknown"
}

// TagKind identifies which container format a FrameStatus describes.
type TagKind int

const (
	Id3v1 TagKind = iota
	Id3v2
	Ape
)

func (k TagKind) String() string {
	switch k {
	case Id3v1:
		return "id3v1"
	case Id3v2:
		return "id3v2"
	case Ape:
		return "ape"
	default:
		return "unknown"
	}
}

// StatusCode is the closed set of outcomes an engine operation can report.
// Parse-layer failures are returned through this type, never panicked or
// thrown, per the propagation policy in spec.md §7.
type StatusCode int

const (
	Ok StatusCode = iota
	NoTag
	NoFrame
	FrameIdBadPosition
	PayloadTooLargeForFrame
	TagVersionError
	NoTagLength
	ContentLengthBiggerThanFrameArea
	FileRenameError
	IoError
)

func (s StatusCode) String() string {
	switch s {
	case Ok:
		return "Ok"
	case NoTag:
		return "NoTag"
	case NoFrame:
		return "NoFrame"
	case FrameIdBadPosition:
		return "FrameIdBadPosition"
	case PayloadTooLargeForFrame:
		return "PayloadTooLargeForFrame"
	case TagVersionError:
		return "TagVersionError"
	case NoTagLength:
		return "NoTagLength"
	case ContentLengthBiggerThanFrameArea:
		return "ContentLengthBiggerThanFrameArea"
	case FileRenameError:
		return "FileRenameError"
	case IoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// FrameStatus reports which tag format an operation targeted and how it
// concluded. The facade collects one of these per format it touches so a
// caller can tell, for example, that ID3v2 succeeded while ID3v1 refused
// due to slot size.
type FrameStatus struct {
	Kind   TagKind
	Status StatusCode
}

func (fs FrameStatus) OK() bool { return fs.Status == Ok }

func NewStatus(kind TagKind, status StatusCode) FrameStatus {
	return FrameStatus{Kind: kind, Status: status}
}
