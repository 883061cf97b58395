package catalog

// categoryLabels localizes upstream category names for display.
var categoryLabels = map[string]string{
	"Abs":       "Abdômen",
	"Arms":      "Braços",
	"Back":      "Costas",
	"Chest":     "Peito",
	"Legs":      "Pernas",
	"Calves":    "Panturrilhas",
	"Shoulders": "Ombros",
	"Cardio":    "Cardio",
	"Neck":      "Pescoço",
	"Glutes":    "Glúteos",
}

// CategoryLabel returns the display label for an upstream category name,
// or the name itself when there is no translation.
func CategoryLabel(name string) string {
	if label, ok := categoryLabels[name]; ok {
		return label
	}
	return name
}

// focusKeyword maps an English muscle keyword to its focus group label.
type focusKeyword struct {
	keyword string // lowercase
	label   string
}

// focusTable is matched in order; the first keyword contained in the
// muscle's English name wins.
var focusTable = []focusKeyword{
	{"biceps", "Bíceps"},
	{"triceps", "Tríceps"},
	{"chest", "Peito"},
	{"pectoralis", "Peito"},
	{"abs", "Abdômen"},
	{"abdominals", "Abdômen"},
	{"back", "Costas"},
	{"latissimus", "Costas"},
	{"hamstrings", "Posterior da coxa"},
	{"quadriceps", "Quadríceps"},
	{"calves", "Panturrilha"},
	{"shoulders", "Ombros"},
	{"deltoid", "Ombros"},
	{"forearms", "Antebraço"},
	{"glutes", "Glúteos"},
}

// FocusGroups lists the distinct focus labels in table order, for filter
// pickers.
func FocusGroups() []string {
	seen := make(map[string]bool, len(focusTable))
	out := make([]string, 0, len(focusTable))
	for _, f := range focusTable {
		if !seen[f.label] {
			seen[f.label] = true
			out = append(out, f.label)
		}
	}
	return out
}
