// Package internal provides character encoding detection and conversion.
// Detection follows the HTML encoding sniffing rules implemented by
// golang.org/x/net/html/charset: byte order mark, a Content-Type charset
// parameter, a <meta> prescan of the first 1024 bytes, then a UTF-8
// validity check with windows-1252 as the fallback.
package internal

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrUnknownCharset is returned when a forced charset label has no decoder.
var ErrUnknownCharset = errors.New("unknown charset")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EncodingDetector handles charset detection and conversion.
type EncodingDetector struct {
	// ForcedEncoding overrides detection when set (any WHATWG label).
	ForcedEncoding string

	// ContentType is an optional Content-Type header value whose charset
	// parameter is honored during detection.
	ContentType string
}

// DetectCharset returns the encoding of data and its canonical name.
func (ed *EncodingDetector) DetectCharset(data []byte) (encoding.Encoding, string, error) {
	if ed.ForcedEncoding != "" {
		enc, name := charset.Lookup(strings.TrimSpace(ed.ForcedEncoding))
		if enc == nil {
			return nil, "", ErrUnknownCharset
		}
		return enc, name, nil
	}
	contentType := ed.ContentType
	if contentType == "" {
		contentType = "text/html"
	}
	enc, name, _ := charset.DetermineEncoding(data, contentType)
	return enc, name, nil
}

// ToUTF8 decodes data from enc. UTF-8 input that is already valid is
// returned unchanged apart from a leading byte order mark.
func (ed *EncodingDetector) ToUTF8(data []byte, enc encoding.Encoding, name string) ([]byte, error) {
	if name == "utf-8" && utf8.Valid(data) {
		return bytes.TrimPrefix(data, utf8BOM), nil
	}
	converted, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, err
	}
	// Some decoders keep the byte order mark as U+FEFF.
	return bytes.TrimPrefix(converted, utf8BOM), nil
}

// DetectAndConvert detects the charset and converts to UTF-8 in one step.
func (ed *EncodingDetector) DetectAndConvert(data []byte) ([]byte, string, error) {
	enc, name, err := ed.DetectCharset(data)
	if err != nil {
		return nil, "", err
	}
	converted, err := ed.ToUTF8(data, enc, name)
	return converted, name, err
}

// DetectAndConvertToUTF8String detects encoding and converts to a UTF-8 string.
// If forcedEncoding is not empty it is used instead of detection.
// Returns the string and the name of the encoding that was used.
func DetectAndConvertToUTF8String(data []byte, forcedEncoding string) (string, string, error) {
	ed := &EncodingDetector{ForcedEncoding: forcedEncoding}
	converted, name, err := ed.DetectAndConvert(data)
	if err != nil {
		return "", "", err
	}
	return string(converted), name, nil
}
