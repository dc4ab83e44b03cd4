package hero

import "testing"

func TestParseThemes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Theme
	}{
		{
			name: "defaults when empty",
			raw:  "",
			want: []Theme{{Value: "Marvel", Label: "Marvel"}, {Value: "DC", Label: "DC"}},
		},
		{
			name: "trims and drops blanks",
			raw:  " Marvel , , DC ,",
			want: []Theme{{Value: "Marvel", Label: "Marvel"}, {Value: "DC", Label: "DC"}},
		},
		{
			name: "dedupes case-insensitively keeping first spelling",
			raw:  "Marvel,marvel,DC",
			want: []Theme{{Value: "Marvel", Label: "Marvel"}, {Value: "DC", Label: "DC"}},
		},
		{
			name: "labels capitalize without mangling acronyms",
			raw:  "marvel,DC,image comics",
			want: []Theme{
				{Value: "marvel", Label: "Marvel"},
				{Value: "DC", Label: "DC"},
				{Value: "image comics", Label: "Image Comics"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseThemes(tc.raw)
			if len(got) != len(tc.want) {
				t.Fatalf("ParseThemes(%q) returned %d themes, want %d", tc.raw, len(got), len(tc.want))
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("theme %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}
