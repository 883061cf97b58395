package catalog

import (
	"strings"

	"alcyxob/trainer-link/internal/domain"
)

// DefaultLimit is the page size used when a Query does not set one.
const DefaultLimit = 20

// Query selects a window of the catalog. Only CategoryID is sent upstream;
// Search and Focus are applied to mapped records.
type Query struct {
	Limit      int
	Offset     int
	Search     string // case-insensitive substring of name or description
	CategoryID int    // 0 means any category
	Focus      string // case-insensitive substring of any focus label
}

func (q Query) normalized() Query {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	q.Focus = strings.ToLower(strings.TrimSpace(q.Focus))
	return q
}

// matches expects a normalized query.
func (q Query) matches(card domain.ExerciseCardData) bool {
	if q.Search != "" &&
		!strings.Contains(strings.ToLower(card.Name), q.Search) &&
		!strings.Contains(strings.ToLower(card.Description), q.Search) {
		return false
	}
	if q.Focus != "" {
		for _, f := range card.Focus {
			if strings.Contains(strings.ToLower(f), q.Focus) {
				return true
			}
		}
		return false
	}
	return true
}

// Dedup drops repeated ids, keeping the first occurrence and the order.
func Dedup(items []domain.ExerciseCardData) []domain.ExerciseCardData {
	seen := make(map[int64]struct{}, len(items))
	out := make([]domain.ExerciseCardData, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}
	return out
}
