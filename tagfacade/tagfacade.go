// Package tagfacade dispatches MetaEntry reads and writes across whichever
// of APEv2, ID3v1, and ID3v2 a file actually carries, so a caller does not
// need to probe each format itself.
//
// Ported from original_source/include/printEntries.hpp's print_meta_entries,
// which loops every meta_entry across whichever handle (id3v1, ape,
// id3v2) it was given and prints the ones present; generalized here into a
// single entry point that tries all three formats per call instead of
// requiring the caller to already know which format a file uses.
package tagfacade

import (
	"go.uber.org/zap"

	"github.com/dda119141/mp3tags/ape"
	"github.com/dda119141/mp3tags/id3v1"
	"github.com/dda119141/mp3tags/id3v2"
	"github.com/dda119141/mp3tags/meta"
)

var log = zap.NewNop().Sugar()

// SetLogger routes tagfacade diagnostics into an application's zap pipeline.
func SetLogger(l *zap.SugaredLogger) { log = l }

// Entry pairs a MetaEntry with the payload ReadAll found for it, and which
// tag format supplied it.
type Entry struct {
	MetaEntry meta.MetaEntry
	Kind      meta.TagKind
	Payload   string
}

// allMetaEntries lists every MetaEntry in declaration order, mirroring
// printEntries.hpp's `for (i = 1; i < max_meta_entries; i++)` sweep.
var allMetaEntries = []meta.MetaEntry{
	meta.Album, meta.Artist, meta.Genre, meta.Title, meta.Year,
	meta.Composer, meta.Date, meta.TextWriter, meta.TrackPosition,
	meta.AudioEncryption, meta.Language, meta.Time, meta.OriginalFilename,
	meta.FileType, meta.BandOrchestra, meta.Comment,
}

// Read returns entry's first non-empty payload, trying APE, then ID3v1,
// then ID3v2. This order is unusual — ID3v2 is the richest and most common
// format in practice — but it is what spec.md itself specifies, and is
// carried here literally rather than silently reordered (see DESIGN.md's
// Open Question record). NoTag and NoFrame are distinct outcomes: NoTag
// means the file carries none of the three formats at all, NoFrame means
// at least one tag was loaded but none of them holds entry.
func Read(path string, entry meta.MetaEntry) (string, meta.FrameStatus) {
	var anyTagPresent bool

	if apeTag, status := ape.Load(path); status == meta.Ok {
		anyTagPresent = true
		if text, st := apeTag.Read(entry); st == meta.Ok {
			return text, meta.NewStatus(meta.Ape, meta.Ok)
		}
	}

	if v1Tag, status := id3v1.Load(path); status == meta.Ok {
		anyTagPresent = true
		if text, st := v1Tag.Read(entry); st == meta.Ok {
			return text, meta.NewStatus(meta.Id3v1, meta.Ok)
		}
	}

	if v2Tag, status := id3v2.Load(path); status == meta.Ok {
		anyTagPresent = true
		if text, st := v2Tag.Read(entry); st == meta.Ok {
			return text, meta.NewStatus(meta.Id3v2, meta.Ok)
		}
	}

	if !anyTagPresent {
		return "", meta.NewStatus(meta.Id3v2, meta.NoTag)
	}
	return "", meta.NewStatus(meta.Id3v2, meta.NoFrame)
}

// Write patches entry in every tag format path actually carries, returning
// one FrameStatus per format attempted. A format the file doesn't carry at
// all is omitted rather than reported as an error, since writing a tag
// into an untagged file is a non-goal (spec.md §7). A format that is
// present but doesn't map or hold entry (e.g. APE has no Composer frame
// in this file) still reports its FrameStatus, so a caller can see which
// formats actually accepted the write and which refused. If the file
// carries none of the three formats, Write reports a single NoTag status
// rather than returning silently empty (spec.md §4.8, §8 scenario 6).
func Write(path string, entry meta.MetaEntry, content string) []meta.FrameStatus {
	var results []meta.FrameStatus

	if apeTag, status := ape.Load(path); status == meta.Ok {
		st := apeTag.Write(entry, content)
		results = append(results, meta.NewStatus(meta.Ape, st))
		log.Debugw("facade write", "kind", "ape", "entry", entry.String(), "status", st.String())
	}

	if v1Tag, status := id3v1.Load(path); status == meta.Ok {
		st := v1Tag.Write(entry, content)
		results = append(results, meta.NewStatus(meta.Id3v1, st))
		log.Debugw("facade write", "kind", "id3v1", "entry", entry.String(), "status", st.String())
	}

	if v2Tag, status := id3v2.Load(path); status == meta.Ok {
		st := v2Tag.Write(entry, content)
		results = append(results, meta.NewStatus(meta.Id3v2, st))
		log.Debugw("facade write", "kind", "id3v2", "entry", entry.String(), "status", st.String())
	}

	if len(results) == 0 {
		log.Debugw("facade write", "entry", entry.String(), "status", meta.NoTag.String())
		return []meta.FrameStatus{meta.NewStatus(meta.Id3v2, meta.NoTag)}
	}

	return results
}

// ReadAll sweeps every MetaEntry across every tag format path carries,
// collecting the entries that actually resolve to a payload. Grounded on
// original_source/include/printEntries.hpp's print_meta_entries, which
// does the same sweep per-handle for display; here the three handles are
// tried per entry in the same APE, ID3v1, ID3v2 order as Read.
func ReadAll(path string) []Entry {
	apeTag, apeStatus := ape.Load(path)
	v1Tag, v1Status := id3v1.Load(path)
	v2Tag, v2Status := id3v2.Load(path)

	var out []Entry
	for _, entry := range allMetaEntries {
		if apeStatus == meta.Ok {
			if text, st := apeTag.Read(entry); st == meta.Ok {
				out = append(out, Entry{MetaEntry: entry, Kind: meta.Ape, Payload: text})
				continue
			}
		}
		if v1Status == meta.Ok {
			if text, st := v1Tag.Read(entry); st == meta.Ok {
				out = append(out, Entry{MetaEntry: entry, Kind: meta.Id3v1, Payload: text})
				continue
			}
		}
		if v2Status == meta.Ok {
			if text, st := v2Tag.Read(entry); st == meta.Ok {
				out = append(out, Entry{MetaEntry: entry, Kind: meta.Id3v2, Payload: text})
			}
		}
	}
	return out
}
