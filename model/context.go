package model

// Context is a reusable situational tag (place, tool, energy).
type Context struct {
	ID    string `json:"id" firestore:"id"`
	Name  string `json:"name" firestore:"name"`
	Icon  string `json:"icon,omitempty" firestore:"icon,omitempty"`
	Color string `json:"color,omitempty" firestore:"color,omitempty"`
}

func (c Context) Key() string { return c.ID }
