package domain

import "encoding/base64"

// Result is one generated superhero image together with the download name
// derived for it.
type Result struct {
	Filename string
	MIMEType string
	Data     []byte
}

// DataURL renders the image as a data URL so the page can display and
// download it without a second round trip.
func (r Result) DataURL() string {
	return "data:" + r.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}
