package domain

import "encoding/base64"

// UploadedImage is the portrait held in session state, kept exactly as
// received: the raw bytes base64 encoded plus the MIME type they arrived with.
type UploadedImage struct {
	Base64   string
	MIMEType string
}

// Bytes decodes the stored payload back into raw image bytes.
func (u UploadedImage) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(u.Base64)
}

// Ready reports whether a session holds both inputs a generation attempt
// needs. It is a pure projection of the two values; nothing else feeds the
// gate.
func Ready(image *UploadedImage, theme string) bool {
	return image != nil && theme != ""
}

// GenerationInput is the snapshot of session inputs one attempt runs with.
// Edits made to the session while the attempt is in flight do not affect it.
type GenerationInput struct {
	Image UploadedImage
	Theme string
}

// StudioView is the client-facing projection of a session.
type StudioView struct {
	ID          string `json:"id"`
	HasImage    bool   `json:"has_image"`
	Theme       string `json:"theme,omitempty"`
	Ready       bool   `json:"ready"`
	Generating  bool   `json:"generating"`
	ResultCount int    `json:"result_count"`
}
