package hero

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Theme is one selectable superhero universe. Value is what clients submit
// and what generation interpolates; Label is the display form.
type Theme struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DefaultThemes is used when THEMES is not configured.
const DefaultThemes = "Marvel,DC"

// titler capitalizes leading letters without lowering the rest, so acronyms
// like DC survive intact.
var titler = cases.Title(language.English, cases.NoLower)

// ParseThemes builds the theme catalog from a comma separated list. Entries
// are trimmed, blanks are dropped and duplicates are removed
// case-insensitively with the first spelling winning.
func ParseThemes(raw string) []Theme {
	if strings.TrimSpace(raw) == "" {
		raw = DefaultThemes
	}
	values := lo.FilterMap(strings.Split(raw, ","), func(v string, _ int) (string, bool) {
		v = strings.TrimSpace(v)
		return v, v != ""
	})
	values = lo.UniqBy(values, strings.ToLower)
	return lo.Map(values, func(v string, _ int) Theme {
		return Theme{Value: v, Label: titler.String(v)}
	})
}
