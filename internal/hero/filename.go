package hero

import (
	"fmt"
	"strings"
	"time"
)

// ExtensionForMIME maps an image MIME type to a download file extension.
// Unknown types fall back to png, the format Gemini returns by default.
func ExtensionForMIME(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}

// ResultFilename derives the suggested download name for one generated image.
// The millisecond timestamp is offset by the part index so every image in a
// multi-part response gets a distinct name.
func ResultFilename(theme string, at time.Time, index int, mimeType string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(theme))), "-")
	if slug == "" {
		slug = "hero"
	}
	return fmt.Sprintf("superhero-%s-%d.%s", slug, at.UnixMilli()+int64(index), ExtensionForMIME(mimeType))
}
