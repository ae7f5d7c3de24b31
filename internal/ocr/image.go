package ocr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxImageBytes bounds the size of an uploaded ticket photo
const MaxImageBytes = 20 << 20

// Image is a base64-encoded picture ready for the interpretation service
type Image struct {
	MIMEType string
	Data     string
}

// Size returns the decoded size in bytes
func (i Image) Size() int {
	n := len(i.Data) / 4 * 3
	return n - strings.Count(i.Data[max(0, len(i.Data)-2):], "=")
}

// EncodeImage reads a picture and base64-encodes it. Input that is already a
// data URI ("data:image/png;base64,....") is unwrapped instead.
func EncodeImage(r io.Reader) (Image, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("failed to read image: %w", err)
	}
	if len(raw) == 0 {
		return Image{}, ErrEmptyImage
	}
	if len(raw) > MaxImageBytes {
		return Image{}, fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	}

	if bytes.HasPrefix(raw, []byte("data:")) {
		return ParseDataURI(string(raw))
	}

	return Image{
		MIMEType: detectImageType(raw),
		Data:     base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// ParseDataURI splits a base64 data URI into its MIME type and payload
func ParseDataURI(uri string) (Image, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(uri), ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return Image{}, fmt.Errorf("malformed data URI")
	}
	if payload == "" {
		return Image{}, ErrEmptyImage
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return Image{}, fmt.Errorf("malformed base64 payload: %w", err)
	}

	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if mime == "" {
		mime = "image/jpeg"
	}
	return Image{MIMEType: mime, Data: payload}, nil
}

func detectImageType(raw []byte) string {
	ct := http.DetectContentType(raw)
	if strings.HasPrefix(ct, "image/") {
		return ct
	}
	return "image/jpeg"
}
