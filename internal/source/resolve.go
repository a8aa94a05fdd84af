package source

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetpulse/internal/model"

	"github.com/agnivade/levenshtein"
)

// ResolveCategoryRef turns the category string a user typed into a
// CategoryRef. A string equal to an existing category ID resolves by ID;
// anything else resolves by name. The returned warning is non-empty when
// the name matches no category, and suggests the closest one if any.
func ResolveCategoryRef(raw string, categories []model.Category) (model.CategoryRef, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.ByName(""), "no category given"
	}

	for _, c := range categories {
		if c.ID == raw {
			return model.ByID(raw), ""
		}
	}

	ref := model.ByName(raw)
	for _, c := range categories {
		if c.Name == raw {
			return ref, ""
		}
	}

	if suggestion, ok := Suggest(raw, categories); ok {
		return ref, fmt.Sprintf("unknown category %q (did you mean %q?)", raw, suggestion)
	}
	return ref, fmt.Sprintf("unknown category %q", raw)
}

// Suggest returns the category name closest to name, if one is close
// enough to be a likely typo.
func Suggest(name string, categories []model.Category) (string, bool) {
	target := strings.ToLower(name)

	best := ""
	bestDist := -1
	for _, c := range categories {
		dist := levenshtein.ComputeDistance(target, strings.ToLower(c.Name))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = c.Name, dist
		}
	}
	if bestDist < 0 {
		return "", false
	}

	limit := max(2, len([]rune(name))/3)
	if bestDist > limit {
		return "", false
	}
	return best, true
}
