// Package rewriter implements the atomic tag-region splice-and-rename
// that every growing tag write needs: read the bytes on either side of
// the tag region, write prefix+newTag+suffix to a sibling file, then
// rename the sibling over the original. Ported from
// original_source/include/id3v2_common.hpp's ReWriteFile and
// include/ape.hpp's ReWriteFile/renameFile, which follow the same
// read-whole-sides / write-sibling / rename discipline.
package rewriter

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ModExt is the sibling-file suffix used during a rewrite. Not a stable
// contract: callers should only assume it is cleaned up on success.
const ModExt = ".mod"

var log = zap.NewNop().Sugar()

// SetLogger lets an embedding application route rewriter diagnostics into
// its own zap pipeline; the default is a no-op logger so importing this
// package has no logging side effects.
func SetLogger(l *zap.SugaredLogger) { log = l }

// ErrIO wraps a read/write failure prior to the commit point (step 7 in
// spec.md §4.7); the original file is untouched.
var ErrIO = errors.New("rewriter: io error")

// ErrRename wraps a failure renaming the sibling over the original; the
// sibling is left in place for recovery.
var ErrRename = errors.New("rewriter: rename error")

// Rewrite produces the final file: the bytes of path before tagStart,
// followed by newTag, followed by the bytes of path after
// tagStart+origTagLength. Every write that changes a tag's length goes
// through it; writes that fit the existing frame or slot are patched in
// place by the format packages without a rewrite.
func Rewrite(path string, tagStart, origTagLength int, newTag []byte) error {
	prefix, suffix, err := readSides(path, tagStart, origTagLength)
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}

	modPath := path + ModExt
	if err := writeSibling(modPath, prefix, newTag, suffix); err != nil {
		_ = os.Remove(modPath)
		log.Warnw("rewrite failed, cleaned up sibling", "path", modPath, "err", err)
		return errors.Wrap(ErrIO, err.Error())
	}

	if err := os.Rename(modPath, path); err != nil {
		log.Errorw("rename failed, sibling left for recovery", "path", modPath, "err", err)
		return errors.Wrap(ErrRename, err.Error())
	}

	log.Debugw("rewrote tag region", "path", path, "tagStart", tagStart, "newTagLen", len(newTag))
	return nil
}

func readSides(path string, tagStart, origTagLength int) (prefix, suffix []byte, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	prefix = make([]byte, tagStart)
	if _, err := io.ReadFull(f, prefix); err != nil {
		return nil, nil, err
	}

	if _, err := f.Seek(int64(tagStart+origTagLength), io.SeekStart); err != nil {
		return nil, nil, err
	}
	suffix, err = io.ReadAll(f)
	if err != nil {
		return nil, nil, err
	}
	return prefix, suffix, nil
}

func writeSibling(modPath string, prefix, tag, suffix []byte) error {
	info, statErr := os.Stat(modPath[:len(modPath)-len(ModExt)])
	mode := os.FileMode(0o644)
	if statErr == nil {
		mode = info.Mode()
	}

	f, err := os.OpenFile(modPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, chunk := range [][]byte{prefix, tag, suffix} {
		if _, err := f.Write(chunk); err != nil {
			return err
		}
	}
	return nil
}

// Stale reports whether path has a ".mod" sibling left behind by a prior
// failed write — a caller observing this should treat it as a failed
// write and may remove it (spec.md §5).
func Stale(path string) bool {
	_, err := os.Stat(path + ModExt)
	return err == nil
}
