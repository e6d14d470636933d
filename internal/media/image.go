package media

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes bounds a decoded image payload
const MaxImageBytes = 8 << 20

var (
	ErrMalformed = errors.New("image must be a base64 data URL")
	ErrNotImage  = errors.New("payload is not an image")
	ErrTooLarge  = errors.New("image is too large")
)

// Image is a decoded upload ready to be stored
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DecodeDataURL parses a "data:<type>;base64,<payload>" string as sent by the
// client. The declared type is ignored; the content type is sniffed from the
// bytes and must be an image.
func DecodeDataURL(payload string) (*Image, error) {
	if !strings.HasPrefix(payload, "data:") {
		return nil, ErrMalformed
	}
	header, encoded, ok := strings.Cut(payload[len("data:"):], ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, ErrMalformed
	}
	if base64.StdEncoding.DecodedLen(len(encoded)) > MaxImageBytes+3 {
		return nil, ErrTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformed
	}
	if len(data) == 0 {
		return nil, ErrMalformed
	}
	if len(data) > MaxImageBytes {
		return nil, ErrTooLarge
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, ErrNotImage
	}
	return &Image{Data: data, ContentType: mtype.String(), Extension: mtype.Extension()}, nil
}
