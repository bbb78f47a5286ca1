package id3v2

import "github.com/dda119141/mp3tags/internal/framesearch"

// frameLoc is a located frame's header and content positions, relative
// to the tag buffer (which starts at file offset 0 — ID3v2 always sits
// at the front of the file).
type frameLoc struct {
	idStart      int
	contentStart int
	size         int
}

// find locates id's frame by searching the tag buffer for the
// identifier text (grounded on original_source/include/id3v2_common.hpp's
// TagReadWriter::findFrameSettings, which runs id3::search_tag over the
// decoded tag area). Because a frame identifier can coincidentally occur
// inside an earlier frame's payload, every candidate is validated by
// re-parsing it as a frame header (spec.md §4.3) and the search resumes
// past any candidate that doesn't hold up.
func (t *Tag) find(id string) (*frameLoc, error) {
	minOffset := TagHeaderSize

	for {
		pos, err := framesearch.Find(t.buffer, []byte(id), minOffset)
		if err != nil {
			return nil, errNoFrame
		}

		headerEnd := pos + t.layout.IDLength + t.layout.SizeLen
		if headerEnd > len(t.buffer) {
			minOffset = pos + 1
			continue
		}

		sizeVal, err := decodeSize(t.buffer, pos+t.layout.IDLength, t.layout.SizeLen, t.layout)
		if err != nil {
			minOffset = pos + 1
			continue
		}

		contentStart := pos + t.layout.HeaderLen
		if sizeVal == 0 || contentStart+sizeVal > len(t.buffer) {
			minOffset = pos + 1
			continue
		}

		return &frameLoc{idStart: pos, contentStart: contentStart, size: sizeVal}, nil
	}
}
