package catalog

// Wire shapes of the wger REST API. Only the fields the catalog reads are
// declared.

type listResponse[T any] struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []T     `json:"results"`
}

type wgerCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type wgerImage struct {
	ID     int    `json:"id"`
	Image  string `json:"image"`
	IsMain bool   `json:"is_main"`
}

type wgerMuscle struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	NameEN  string `json:"name_en"`
	IsFront bool   `json:"is_front"`
}

type wgerTranslation struct {
	ID          int    `json:"id"`
	Language    int    `json:"language"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type wgerExerciseInfo struct {
	ID               int64             `json:"id"`
	Category         *wgerCategory     `json:"category"`
	Images           []wgerImage       `json:"images"`
	Muscles          []wgerMuscle      `json:"muscles"`
	MusclesSecondary []wgerMuscle      `json:"muscles_secondary"`
	Translations     []wgerTranslation `json:"translations"`
	LastUpdate       string            `json:"last_update"`
}
