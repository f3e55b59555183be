package vcard

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
)

// defaultPhotoType is used when the payload is not a recognizable image.
const defaultPhotoType = "image/jpeg"

// PhotoMediaType returns the detected media type of the embedded photo,
// or "" when the card has none.
func (c *Card) PhotoMediaType() string {
	if c.photoData == nil {
		return ""
	}
	return detectPhotoType(c.photoData)
}

// handlePhoto stores an inline payload or a reference. The last PHOTO wins.
func handlePhoto(d *draft, p Property) error {
	if isBase64Encoding(p) {
		data, err := decodeBase64(p.Value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPhoto, err)
		}
		d.card.photoData, d.card.photoURI = data, ""
		return nil
	}
	if payload, ok := dataURIPayload(p.Value); ok && !isURIValue(p) {
		data, err := decodeBase64(payload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPhoto, err)
		}
		d.card.photoData, d.card.photoURI = data, ""
		return nil
	}
	d.card.photoData, d.card.photoURI = nil, p.Value
	return nil
}

// isURIValue reports an explicit VALUE=uri, which keeps a data: URI as a
// reference instead of decoding it.
func isURIValue(p Property) bool {
	v, _ := p.Param("VALUE")
	return strings.EqualFold(strings.TrimSpace(v), "uri")
}

// photoURILine writes a reference photo. data: URIs get VALUE=uri so they
// read back as references.
func photoURILine(uri string) string {
	if _, ok := dataURIPayload(uri); ok {
		return uriLine("PHOTO", ";VALUE=uri", uri)
	}
	return uriLine("PHOTO", "", uri)
}

func isBase64Encoding(p Property) bool {
	enc, _ := p.Param("ENCODING")
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "b", "b64", "base64":
		return true
	}
	return false
}

// dataURIPayload extracts the payload of a "data:<type>;base64,<payload>" URI.
func dataURIPayload(v string) (string, bool) {
	if len(v) < 5 || !strings.EqualFold(v[:5], "data:") {
		return "", false
	}
	meta, payload, ok := strings.Cut(v[5:], ",")
	if !ok || !strings.HasSuffix(strings.ToLower(meta), ";base64") {
		return "", false
	}
	return payload, true
}

// decodeBase64 tolerates embedded whitespace and missing padding.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		var rawErr error
		if data, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr != nil {
			return nil, err
		}
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func photoLine(v Version, data []byte) string {
	mediaType := detectPhotoType(data)
	payload := base64.StdEncoding.EncodeToString(data)
	subtype := strings.ToUpper(strings.TrimPrefix(mediaType, "image/"))

	switch v {
	case V21:
		return "PHOTO;ENCODING=BASE64;TYPE=" + subtype + ":" + payload
	case V40:
		return uriLine("PHOTO", "", "data:"+mediaType+";base64,"+payload)
	default:
		return "PHOTO;ENCODING=b64;TYPE=" + subtype + ":" + payload
	}
}

// detectPhotoType sniffs the image format of an embedded photo.
func detectPhotoType(data []byte) string {
	if len(data) == 0 {
		return defaultPhotoType
	}
	mt := mimetype.Detect(data).String()
	if !strings.HasPrefix(mt, "image/") {
		return defaultPhotoType
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

