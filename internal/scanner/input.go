package scanner

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const maxReadBytes = 32 << 20

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

func readText(r io.Reader, encoding string) ([]byte, error) {
	encoding = strings.TrimSpace(encoding)
	raw, err := io.ReadAll(io.LimitReader(r, maxReadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxReadBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, maxReadBytes)
	}

	// Magic numbers such as "BM" or "%PDF" are printable, so only sniff
	// input that already failed the text check. An explicit encoding is
	// trusted as text.
	if encoding == "" && !isLikelyText(raw) {
		if kind, _ := filetype.Match(raw); kind != filetype.Unknown {
			return nil, fmt.Errorf("%w: detected %s", ErrNotText, kind.MIME.Value)
		}
	}

	text, err := decode(raw, encoding)
	if err != nil {
		return nil, err
	}
	if bytes.IndexByte(text, 0x00) >= 0 {
		return nil, fmt.Errorf("%w: contains NUL bytes", ErrNotText)
	}
	return text, nil
}

// isLikelyText accepts a UTF-16 BOM, or NUL-free valid UTF-8.
func isLikelyText(b []byte) bool {
	if bytes.HasPrefix(b, utf16LEBOM) || bytes.HasPrefix(b, utf16BEBOM) {
		return true
	}
	if bytes.IndexByte(b, 0x00) >= 0 {
		return false
	}
	return utf8.Valid(b)
}

// decode converts raw input to UTF-8. A named encoding wins; otherwise a
// UTF-16 BOM selects UTF-16 and anything else must already be valid UTF-8.
func decode(raw []byte, encoding string) ([]byte, error) {
	encoding = strings.TrimSpace(encoding)
	switch {
	case encoding != "":
		enc, err := htmlindex.Get(encoding)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown encoding %q", ErrEncoding, encoding)
		}
		out, _, err := transform.Bytes(enc.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
		}
		return bytes.TrimPrefix(out, utf8BOM), nil
	case bytes.HasPrefix(raw, utf16LEBOM), bytes.HasPrefix(raw, utf16BEBOM):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
		}
		return out, nil
	default:
		raw = bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: input is not valid UTF-8; pass an explicit encoding", ErrEncoding)
		}
		return raw, nil
	}
}

type extraction struct {
	passwords     []string
	skippedHeader bool
	skippedEmpty  int
	column        string
}

func (e extraction) notes() []string {
	var notes []string
	if e.column != "" {
		notes = append(notes, fmt.Sprintf("read column %q", e.column))
	}
	if e.skippedHeader {
		notes = append(notes, "skipped header row")
	}
	if e.skippedEmpty > 0 {
		notes = append(notes, fmt.Sprintf("skipped %d rows with an empty password field", e.skippedEmpty))
	}
	return notes
}

func (s *Scanner) extract(text []byte) (extraction, error) {
	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = s.opts.Delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	if s.opts.Column != "" {
		return extractColumn(r, s.opts.Column)
	}
	return extractFirstField(r)
}

// extractFirstField takes the first field of each record. Only the first
// non-empty record may be a header, and only when it reads "password".
func extractFirstField(r *csv.Reader) (extraction, error) {
	var out extraction
	first := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return extraction{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		pw := firstField(rec)
		if pw == "" {
			out.skippedEmpty++
			continue
		}
		if first {
			first = false
			if strings.EqualFold(pw, HeaderToken) {
				out.skippedHeader = true
				continue
			}
		}
		out.passwords = append(out.passwords, pw)
	}
}

func extractColumn(r *csv.Reader, column string) (extraction, error) {
	out := extraction{column: column}

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return extraction{}, fmt.Errorf("%w: file is empty, expected a column named %q", ErrMissingColumn, column)
	}
	if err != nil {
		return extraction{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	idx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return extraction{}, fmt.Errorf("%w: file must contain a column named %q", ErrMissingColumn, column)
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return extraction{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if idx >= len(rec) {
			out.skippedEmpty++
			continue
		}
		pw := strings.TrimSpace(rec[idx])
		if pw == "" {
			out.skippedEmpty++
			continue
		}
		out.passwords = append(out.passwords, pw)
	}
}

func firstField(rec []string) string {
	if len(rec) == 0 {
		return ""
	}
	return strings.TrimSpace(rec[0])
}
