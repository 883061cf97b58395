package domain

// ExerciseCardData is the display model shared by catalog exercises and
// custom exercises. Catalog ids are >= 0, custom exercises get negative
// pseudo-ids so both can live in one list.
type ExerciseCardData struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`               // HTML as delivered upstream
	DescriptionText string   `json:"descriptionText,omitempty"` // plain-text rendering of Description
	Category        string   `json:"category,omitempty"`
	Focus           []string `json:"focus"`
	Images          []string `json:"images"` // main image first
	Custom          bool     `json:"custom,omitempty"`
}

// ExercisePage is one window of exercises. A nil NextOffset means the
// catalog is exhausted for the current filters.
type ExercisePage struct {
	Items      []ExerciseCardData `json:"items"`
	NextOffset *int               `json:"nextOffset"`
}

// ExerciseCategory is a catalog category.
type ExerciseCategory struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label,omitempty"` // localized name for display
}
