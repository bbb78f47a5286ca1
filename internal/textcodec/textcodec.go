// Package textcodec decodes and encodes tag text across the four
// encodings an ID3v2 text frame's leading encoding byte can select, and
// applies the printable-character/NUL-padding trimming every tag format
// uses.
//
// Encoding/decoding itself is delegated to golang.org/x/text rather than
// hand-rolled, following the pack's own id3v2 readers (other_examples'
// arenzana-id3v2, and the tmthrgd/oshokin/lion187chen id3v2 libraries),
// all of which lean on golang.org/x/text/encoding for exactly this.
package textcodec

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is the ID3v2 text-frame encoding selector, keyed by the leading
// payload byte (spec.md §4.2/§3 TextEncoding).
type Encoding byte

const (
	Latin1       Encoding = 0x00
	Utf16WithBom Encoding = 0x01
	Utf16Be      Encoding = 0x02
	Utf8         Encoding = 0x03
)

// ErrInvalidEncoding is returned under strict mode when a payload is not
// valid for its declared encoding.
var ErrInvalidEncoding = errors.New("textcodec: invalid encoding")

var (
	utf16LEBOM   = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	utf16BEBOM   = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	utf16BENoBOM = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	utf16LEWrite = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
)

// Decode converts payload bytes in the given encoding to a Unicode string,
// stripping a single trailing NUL and non-printable characters from both
// ends (for Latin-1, non-printable ASCII is dropped anywhere in the string;
// see trimASCII). Under lenient mode (strict=false, the default for callers) invalid
// sequences are replaced with U+FFFD instead of failing.
func Decode(payload []byte, enc Encoding, strict bool) (string, error) {
	switch enc {
	case Latin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(trimTrailingZero(payload))
		if err != nil {
			return "", errOrEmpty(strict)
		}
		return trimASCII(string(out)), nil

	case Utf16WithBom:
		xenc := utf16BEBOM
		if len(payload) >= 2 && payload[0] == 0xFF && payload[1] == 0xFE {
			xenc = utf16LEBOM
		}
		return decodeUTF16(payload, xenc, strict)

	case Utf16Be:
		return decodeUTF16(payload, utf16BENoBOM, strict)

	case Utf8:
		payload = stripUTF8BOM(trimTrailingZero(payload))
		if !utf8.Valid(payload) {
			if strict {
				return "", ErrInvalidEncoding
			}
			payload = bytes.ToValidUTF8(payload, []byte("�"))
		}
		return trim(string(payload)), nil

	default:
		return "", ErrInvalidEncoding
	}
}

func decodeUTF16(payload []byte, xenc encoding.Encoding, strict bool) (string, error) {
	dec := xenc.NewDecoder()
	if !strict {
		dec = encoding.ReplaceUnsupported(dec)
	}
	out, err := dec.Bytes(payload)
	if err != nil {
		return "", errOrEmpty(strict)
	}
	return trim(string(out)), nil
}

func errOrEmpty(strict bool) error {
	if strict {
		return ErrInvalidEncoding
	}
	return nil
}

// Encode renders s under the target encoding, returning the byte sequence
// WITHOUT the leading encoding-byte prefix (callers needing the ID3v2
// frame prefix byte prepend it themselves, since the prefix is a frame
// concern, not a text-codec concern) and without padding (callers pad to
// the frame's payload length).
func Encode(s string, enc Encoding) ([]byte, error) {
	switch enc {
	case Latin1:
		b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, ErrInvalidEncoding
		}
		return append(b, 0x00), nil

	case Utf16WithBom:
		b, err := utf16LEWrite.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, ErrInvalidEncoding
		}
		return append(b, 0x00, 0x00), nil

	case Utf16Be:
		b, err := utf16BENoBOM.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, ErrInvalidEncoding
		}
		return append(b, 0x00, 0x00), nil

	case Utf8:
		return append([]byte(s), 0x00), nil

	default:
		return nil, ErrInvalidEncoding
	}
}

func trimTrailingZero(b []byte) []byte {
	return bytes.TrimSuffix(b, []byte{0x00})
}

func stripUTF8BOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

// trim strips a single trailing NUL and non-printable (control) characters
// from both ends of a decoded Unicode string, per spec.md §4.2.
func trim(s string) string {
	return trimWith(s, func(r rune) bool { return r >= 0x20 && r != 0x7F })
}

// trimASCII implements the Latin-1-specific rule in spec.md §4.2: strip a
// trailing NUL, then drop every codepoint outside the printable-ASCII
// window [0x20, 0x7E] — not just at the ends. This mirrors
// original_source's stripLeft (id3.hpp), which despite its name runs
// std::remove_if(isprint) + erase over the whole string under the "C"
// locale, dropping accented characters wherever they occur.
func trimASCII(s string) string {
	s = strings.TrimSuffix(s, "\x00")
	var b strings.Builder
	for _, r := range s {
		if r >= 0x20 && r <= 0x7E {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func trimWith(s string, printable func(rune) bool) string {
	s = strings.TrimSuffix(s, "\x00")
	runes := []rune(s)

	start := 0
	for start < len(runes) && !printable(runes[start]) {
		start++
	}
	end := len(runes)
	for end > start && !printable(runes[end-1]) {
		end--
	}
	return string(runes[start:end])
}
