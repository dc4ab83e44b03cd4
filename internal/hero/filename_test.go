package hero

import (
	"testing"
	"time"
)

func TestExtensionForMIME(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"image/png", "png"},
		{"image/jpeg", "jpg"},
		{"IMAGE/JPEG", "jpg"},
		{"image/webp", "webp"},
		{"image/gif", "gif"},
		{"application/octet-stream", "png"},
		{"", "png"},
	}
	for _, tc := range tests {
		if got := ExtensionForMIME(tc.mime); got != tc.want {
			t.Fatalf("ExtensionForMIME(%q) = %q, want %q", tc.mime, got, tc.want)
		}
	}
}

func TestResultFilename(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	got := ResultFilename("Marvel", at, 0, "image/png")
	if got != "superhero-marvel-1700000000000.png" {
		t.Fatalf("ResultFilename = %q", got)
	}

	got = ResultFilename("Image Comics", at, 0, "image/jpeg")
	if got != "superhero-image-comics-1700000000000.jpg" {
		t.Fatalf("ResultFilename = %q", got)
	}
}

func TestResultFilenameUniquePerPart(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	first := ResultFilename("DC", at, 0, "image/png")
	second := ResultFilename("DC", at, 1, "image/png")
	if first == second {
		t.Fatalf("filenames for sibling parts should differ, both %q", first)
	}
	if second != "superhero-dc-1700000000001.png" {
		t.Fatalf("second filename = %q", second)
	}
}
