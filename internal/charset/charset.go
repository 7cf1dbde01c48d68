// Package charset turns subtitle bytes in legacy or UTF-16/32 encodings into
// UTF-8 before parsing.
package charset

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/dimchansky/utfbom"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// Auto requests BOM sniffing followed by statistical detection
const Auto = "auto"

var ErrUnknownEncoding = errors.New("unknown text encoding")

// chardet names that htmlindex does not resolve directly
var detectedEncodings = map[string]encoding.Encoding{
	"GB-18030":    simplifiedchinese.GB18030,
	"Big5":        traditionalchinese.Big5,
	"Shift_JIS":   japanese.ShiftJIS,
	"EUC-JP":      japanese.EUCJP,
	"ISO-2022-JP": japanese.ISO2022JP,
	"EUC-KR":      korean.EUCKR,
}

// result of decoding: UTF-8 text plus the name of the source encoding
type Result struct {
	Text     []byte
	Encoding string
}

// Decode converts data to UTF-8. With an empty name or Auto the encoding is
// taken from a byte-order mark, then assumed UTF-8 if valid, then detected.
// Otherwise name is an encoding label such as "gbk", "big5" or "utf-16le".
func Decode(data []byte, name string) (Result, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, Auto) {
		return decodeAuto(data)
	}

	enc, err := Lookup(name)
	if err != nil {
		return Result{}, err
	}
	text, err := decodeWith(data, enc)
	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to decode input as %s", name)
	}
	return Result{Text: text, Encoding: name}, nil
}

// Lookup resolves an encoding label
func Lookup(name string) (encoding.Encoding, error) {
	if enc, ok := detectedEncodings[name]; ok {
		return enc, nil
	}
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	case "utf-32le":
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), nil
	case "utf-32be":
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(ErrUnknownEncoding, "%q", name),
			"use a WHATWG label such as utf-8, gbk, gb18030, big5, shift_jis or utf-16le",
		)
	}
	return enc, nil
}

func decodeAuto(data []byte) (Result, error) {
	reader, bom := utfbom.Skip(bytes.NewReader(data))

	var enc encoding.Encoding
	switch bom {
	case utfbom.UTF8:
		enc = unicode.UTF8
	case utfbom.UTF16LittleEndian:
		enc = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case utfbom.UTF16BigEndian:
		enc = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case utfbom.UTF32LittleEndian:
		enc = utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
	case utfbom.UTF32BigEndian:
		enc = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
	}
	if enc != nil {
		text, err := io.ReadAll(transform.NewReader(reader, enc.NewDecoder()))
		if err != nil {
			return Result{}, errors.Wrapf(err, "failed to decode %s input", bom)
		}
		return Result{Text: text, Encoding: bom.String()}, nil
	}

	if utf8.Valid(data) {
		return Result{Text: data, Encoding: "UTF-8"}, nil
	}

	detected, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return Result{}, errors.Wrap(err, "failed to detect input encoding")
	}
	enc, err = Lookup(detected.Charset)
	if err != nil {
		return Result{}, errors.Wrapf(err, "detected encoding %s", detected.Charset)
	}
	text, err := decodeWith(data, enc)
	if err != nil {
		return Result{}, errors.Wrapf(err, "failed to decode input as %s", detected.Charset)
	}
	return Result{Text: text, Encoding: detected.Charset}, nil
}

func decodeWith(data []byte, enc encoding.Encoding) ([]byte, error) {
	r := transform.NewReader(bytes.NewReader(data), enc.NewDecoder())
	return io.ReadAll(r)
}
