package media

import (
	"encoding/base64"
	"testing"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

func dataURL(kind string, data []byte) string {
	return "data:" + kind + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestDecodeDataURL(t *testing.T) {
	img, err := DecodeDataURL(dataURL("image/png", pngBytes))
	if err != nil {
		t.Fatalf("DecodeDataURL: %v", err)
	}
	if img.ContentType != "image/png" || img.Extension != ".png" {
		t.Fatalf("got %s %s, want image/png .png", img.ContentType, img.Extension)
	}
	if len(img.Data) != len(pngBytes) {
		t.Fatalf("decoded %d bytes, want %d", len(img.Data), len(pngBytes))
	}
}

func TestDecodeDataURLSniffsInsteadOfTrustingHeader(t *testing.T) {
	// declared as jpeg, really a png
	img, err := DecodeDataURL(dataURL("image/jpeg", pngBytes))
	if err != nil {
		t.Fatal(err)
	}
	if img.ContentType != "image/png" {
		t.Fatalf("content type = %s", img.ContentType)
	}
}

func TestDecodeDataURLErrors(t *testing.T) {
	cases := map[string]struct {
		payload string
		want    error
	}{
		"plain url":     {"https://example.com/a.png", ErrMalformed},
		"no base64":     {"data:image/png,abc", ErrMalformed},
		"no comma":      {"data:image/png;base64", ErrMalformed},
		"bad base64":    {"data:image/png;base64,@@@", ErrMalformed},
		"empty payload": {"data:image/png;base64,", ErrMalformed},
		"text payload":  {dataURL("image/png", []byte("hello world, not an image")), ErrNotImage},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeDataURL(tc.payload); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}
