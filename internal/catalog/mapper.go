package catalog

import (
	"regexp"
	"slices"
	"strings"

	"alcyxob/trainer-link/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// pickTranslation returns the first translation in language with a
// non-blank name, trimmed.
func pickTranslation(ts []wgerTranslation, language int) (name, description string, ok bool) {
	for _, t := range ts {
		if t.Language != language {
			continue
		}
		if n := strings.TrimSpace(t.Name); n != "" {
			return n, strings.TrimSpace(t.Description), true
		}
	}
	return "", "", false
}

// musclesToFocus maps primary then secondary muscles to focus labels.
// Unknown muscles keep their upstream name. Labels are unique, first
// occurrence wins.
func musclesToFocus(primary, secondary []wgerMuscle) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(label string) {
		if label != "" && !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	for _, m := range slices.Concat(primary, secondary) {
		add(focusLabel(m))
	}
	return out
}

func focusLabel(m wgerMuscle) string {
	en := strings.ToLower(m.NameEN)
	for _, f := range focusTable {
		if strings.Contains(en, f.keyword) {
			return f.label
		}
	}
	return m.Name
}

// orderImages puts the main image first and keeps the rest in upstream order.
func orderImages(images []wgerImage) []string {
	sorted := slices.Clone(images)
	slices.SortStableFunc(sorted, func(a, b wgerImage) int {
		switch {
		case a.IsMain == b.IsMain:
			return 0
		case a.IsMain:
			return -1
		default:
			return 1
		}
	})
	out := make([]string, 0, len(sorted))
	for _, img := range sorted {
		if img.Image != "" {
			out = append(out, img.Image)
		}
	}
	return out
}

// mapExercise projects an upstream record. ok is false when the record has
// no usable translation in language.
func mapExercise(ex wgerExerciseInfo, language int) (domain.ExerciseCardData, bool) {
	name, desc, ok := pickTranslation(ex.Translations, language)
	if !ok {
		return domain.ExerciseCardData{}, false
	}
	card := domain.ExerciseCardData{
		ID:              ex.ID,
		Name:            name,
		Description:     desc,
		DescriptionText: DescriptionText(desc),
		Focus:           musclesToFocus(ex.Muscles, ex.MusclesSecondary),
		Images:          orderImages(ex.Images),
	}
	if ex.Category != nil {
		card.Category = ex.Category.Name
	}
	return card, true
}

var (
	spaceBeforeNewline = regexp.MustCompile(`[ \t]+\n`)
	blankLines         = regexp.MustCompile(`\n{3,}`)
)

// DescriptionText renders an HTML description as plain text: paragraphs
// become blank-line separated, list items get a bullet, entities are
// decoded. Input without markup comes back trimmed.
func DescriptionText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}

	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("• ")
		s.AppendHtml("\n")
	})
	doc.Find("p, div, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n\n")
	})

	text := strings.ReplaceAll(doc.Text(), "\u00a0", " ")
	text = spaceBeforeNewline.ReplaceAllString(text, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
