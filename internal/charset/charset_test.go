package charset

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

const sample = "1\n00:00:01,000 --> 00:00:02,500\n你好，世界\n"

func encode(t *testing.T, enc encoding.Encoding, s string) []byte {
	t.Helper()
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return out
}

func TestDecodeAutoBOM(t *testing.T) {
	tests := []struct {
		name string
		enc  encoding.Encoding
	}{
		{"utf-8 bom", unicode.UTF8BOM},
		{"utf-16le bom", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
		{"utf-16be bom", unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
		{"utf-32le bom", utf32.UTF32(utf32.LittleEndian, utf32.UseBOM)},
		{"utf-32be bom", utf32.UTF32(utf32.BigEndian, utf32.UseBOM)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decode(encode(t, tt.enc, sample), Auto)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if string(res.Text) != sample {
				t.Errorf("Text = %q, want %q", res.Text, sample)
			}
			if res.Encoding == "" {
				t.Error("Encoding should name the byte-order mark")
			}
		})
	}
}

func TestDecodeAutoPlainUTF8(t *testing.T) {
	for _, name := range []string{"", "auto", "AUTO"} {
		res, err := Decode([]byte(sample), name)
		if err != nil {
			t.Fatalf("Decode(%q): %v", name, err)
		}
		if string(res.Text) != sample || res.Encoding != "UTF-8" {
			t.Errorf("Decode(%q) = %q as %s", name, res.Text, res.Encoding)
		}
	}
}

func TestDecodeAutoDetectsGB18030(t *testing.T) {
	text := strings.Repeat(
		"1\n00:00:01,000 --> 00:00:02,500\n我们今天晚上去看电影，你想一起来吗？\n\n"+
			"2\n00:00:03,000 --> 00:00:04,500\n当然可以，我们在电影院门口见面吧。\n\n", 5)

	res, err := Decode(encode(t, simplifiedchinese.GB18030, text), Auto)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(res.Text) != text {
		t.Errorf("decoded text differs (detected %s)", res.Encoding)
	}
}

func TestDecodeNamed(t *testing.T) {
	tests := []struct {
		label string
		enc   encoding.Encoding
	}{
		{"gbk", simplifiedchinese.GBK},
		{"GB18030", simplifiedchinese.GB18030},
		{"big5", traditionalchinese.Big5},
		{"shift_jis", japanese.ShiftJIS},
		{"utf-16le", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
		{"utf-32be", utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)},
		{"utf8", unicode.UTF8},
	}

	text := "1\n00:00:01,000 --> 00:00:02,500\n你好\n"
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			res, err := Decode(encode(t, tt.enc, text), tt.label)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if string(res.Text) != text {
				t.Errorf("Text = %q, want %q", res.Text, text)
			}
			if res.Encoding != tt.label {
				t.Errorf("Encoding = %q, want %q", res.Encoding, tt.label)
			}
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("klingon")
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("expected ErrUnknownEncoding, got %v", err)
	}
	if errors.FlattenHints(err) == "" {
		t.Error("unknown encoding should carry a hint")
	}

	if _, err := Decode([]byte("x"), "klingon"); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("Decode: expected ErrUnknownEncoding, got %v", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	res, err := Decode(nil, Auto)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(res.Text) != 0 {
		t.Errorf("Text = %q, want empty", res.Text)
	}
}
