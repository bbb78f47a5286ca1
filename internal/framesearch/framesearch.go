// Package framesearch locates a frame identifier inside a tag region,
// honoring the format-specific rule for how far past the tag's own
// header a valid frame boundary can start.
//
// Below a few kilobytes it defers to bytes.Index (stdlib, already
// Rabin-Karp-backed for short needles — no suitable third-party
// Boyer-Moore implementation appears anywhere in the example pack, so
// this one component is justified stdlib-only in DESIGN.md); above that
// threshold it switches to a Boyer-Moore-Horspool bad-character scan, as
// spec.md §4.3 calls for once a tag region is large.
package framesearch

import (
	"bytes"
	"errors"
)

// ErrNotFound is returned when the identifier does not occur in the region.
var ErrNotFound = errors.New("framesearch: identifier not found")

// boyerMooreThreshold is the region size (in bytes) above which the
// Horspool scan is used instead of bytes.Index.
const boyerMooreThreshold = 4096

// Find returns the offset (relative to region[0]) of the first occurrence
// of id within region, or ErrNotFound. minOffset is the smallest offset a
// legitimate frame identifier could start at (the id3v2 package passes the
// 10-byte tag header size); occurrences before it are skipped since
// they cannot be a real frame boundary — they are either the tag's own
// header or a false-positive match inside a prior frame's payload.
func Find(region []byte, id []byte, minOffset int) (int, error) {
	if len(id) == 0 || len(region) < len(id) {
		return 0, ErrNotFound
	}

	start := minOffset
	if start < 0 {
		start = 0
	}
	if start > len(region) {
		return 0, ErrNotFound
	}

	haystack := region[start:]

	var offset int
	if len(haystack) >= boyerMooreThreshold {
		offset = horspool(haystack, id)
	} else {
		offset = bytes.Index(haystack, id)
	}

	if offset < 0 {
		return 0, ErrNotFound
	}
	return start + offset, nil
}

// horspool implements the Boyer-Moore-Horspool bad-character search,
// returning the offset of the first match of needle in haystack, or -1.
func horspool(haystack, needle []byte) int {
	n := len(needle)
	if n == 0 || n > len(haystack) {
		return -1
	}

	var badChar [256]int
	for i := range badChar {
		badChar[i] = n
	}
	for i := 0; i < n-1; i++ {
		badChar[needle[i]] = n - 1 - i
	}

	pos := 0
	last := n - 1
	for pos <= len(haystack)-n {
		i := last
		for i >= 0 && haystack[pos+i] == needle[i] {
			i--
		}
		if i < 0 {
			return pos
		}
		pos += badChar[haystack[pos+last]]
	}
	return -1
}
