package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much of the input is inspected before choosing a decoder.
const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// fallback is used when neither a BOM nor chardet identifies the input.
// Nordic bank exports that are not UTF-8 are almost always Windows-1252.
var fallback encoding.Encoding = charmap.Windows1252

// legacyCharsets maps chardet results to decoders for the single-byte encodings
// seen in Finnish exports.
var legacyCharsets = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-15":  charmap.ISO8859_15,
	"ISO-8859-9":   charmap.ISO8859_9,
}

// Charset reports the encoding chosen for the given prefix of an input.
// It returns "UTF-8" when no transcoding is needed.
func Charset(prefix []byte) string {
	switch {
	case bytes.HasPrefix(prefix, bomUTF8):
		return "UTF-8"
	case bytes.HasPrefix(prefix, bomUTF16LE):
		return "UTF-16LE"
	case bytes.HasPrefix(prefix, bomUTF16BE):
		return "UTF-16BE"
	case utf8.Valid(prefix):
		return "UTF-8"
	}

	result, err := chardet.NewTextDetector().DetectBest(prefix)
	if err == nil {
		if result.Charset == "UTF-8" {
			return "UTF-8"
		}

		if _, ok := legacyCharsets[result.Charset]; ok {
			return result.Charset
		}
	}

	return "windows-1252"
}

// NewUTF8Reader returns a reader that yields r decoded to UTF-8.
// A UTF-8 BOM is stripped, UTF-16 input with a BOM is decoded, valid UTF-8 passes through,
// and anything else is decoded from the charset chardet reports, falling back to Windows-1252.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch charset := Charset(buf); charset {
	case "UTF-8":
		if bytes.HasPrefix(buf, bomUTF8) {
			_, _ = br.Discard(len(bomUTF8))
		}

		return br, nil
	case "UTF-16LE":
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case "UTF-16BE":
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	default:
		enc, ok := legacyCharsets[charset]
		if !ok {
			enc = fallback
		}

		return transform.NewReader(br, enc.NewDecoder()), nil
	}
}
