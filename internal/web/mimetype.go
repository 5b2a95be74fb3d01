package web

import (
	"fmt"
	"strings"
)

const (
	MimeTypeJSON     = "application/json"
	MimeTypeJpeg     = "image/jpeg"
	MimeTypePng      = "image/png"
	HeaderAccept     = "Accept"
	HeaderUserAgent  = "User-Agent"
	HeaderAPIKey     = "X-Api-Key"
	DefaultUserAgent = "CardSearch/0.1"
)

// NewMimeType creates a MimeType from the given content-type.
func NewMimeType(contentType string) MimeType {
	ct := strings.Split(contentType, ";")[0]

	return MimeType{value: strings.TrimSpace(strings.ToLower(ct))}
}

type MimeType struct {
	value string
}

// BuildFilename appends a file extension to the given name.
// An error is returned for unsupported mime-types or empty names.
func (m MimeType) BuildFilename(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("can't build file name without prefix")
	}

	switch m.value {
	case MimeTypeJSON:
		return name + ".json", nil
	case MimeTypeJpeg:
		return name + ".jpg", nil
	case MimeTypePng:
		return name + ".png", nil
	default:
		return "", fmt.Errorf("unsupported mime type %s", m.value)
	}
}

// IsJpeg returns true if mime-type is image/jpeg.
func (m MimeType) IsJpeg() bool {
	return m.value == MimeTypeJpeg
}

// Raw returns the extracted mime-type.
func (m MimeType) Raw() string {
	return m.value
}
