package hero

import (
	"fmt"
	"strings"
)

// BuildInstruction renders the edit instruction sent to the model alongside
// the uploaded portrait. The theme name is interpolated twice; the identity
// constraint is fixed so every attempt asks for a recognizable face.
func BuildInstruction(theme string) string {
	theme = strings.TrimSpace(theme)
	parts := []string{
		fmt.Sprintf("Transform the person in this photo into a %s superhero.", theme),
		"Keep the person's face clearly recognizable and preserve their facial identity.",
		fmt.Sprintf("Add a detailed superhero costume in the style of the %s universe, a dynamic heroic pose, and a dramatic action background.", theme),
	}
	return strings.Join(parts, " ")
}
