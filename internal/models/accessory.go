// ABOUTME: Accessory model for supplementary exercises.
// ABOUTME: Accessories carry a name and tags only; no derived statistics.
package models

// Accessory represents a supplementary exercise paired with pillars.
type Accessory struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Tags []string `json:"tags,omitempty"`
}

// NewAccessory creates a new Accessory with a slug ID derived from the name.
func NewAccessory(name string, tags ...string) *Accessory {
	return &Accessory{
		ID:   CustomSlug(name),
		Name: name,
		Tags: tags,
	}
}
