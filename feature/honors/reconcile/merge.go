package reconcile

import (
	"honor-sync/feature/honors/models"
)

// Dedupe keeps the first honor per (year, award type, category).
func Dedupe(honors []models.CanonicalHonor) []models.CanonicalHonor {
	seen := make(map[models.MergeKey]struct{}, len(honors))
	out := make([]models.CanonicalHonor, 0, len(honors))
	for _, h := range honors {
		k := h.MergeKey()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, h)
	}
	return out
}

// Merge returns existing plus every canonical honor whose merge key is absent.
// Existing honors win on key collision. changed is false when the result
// equals existing.
func Merge(existing, canonical []models.CanonicalHonor) (out []models.CanonicalHonor, added int, changed bool) {
	out = Dedupe(existing)
	changed = len(out) != len(existing)

	seen := make(map[models.MergeKey]struct{}, len(out)+len(canonical))
	for _, h := range out {
		seen[h.MergeKey()] = struct{}{}
	}
	for _, h := range canonical {
		k := h.MergeKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, h)
		added++
	}
	return out, added, changed || added > 0
}

// Replace drops every existing honor covered by scope and appends canonical.
func Replace(existing, canonical []models.CanonicalHonor, scope Scope) (out []models.CanonicalHonor, removed int) {
	out, removed = Strip(existing, scope)
	out = Dedupe(append(out, canonical...))
	return out, removed
}

// Strip drops every honor covered by scope.
func Strip(existing []models.CanonicalHonor, scope Scope) (out []models.CanonicalHonor, removed int) {
	out = make([]models.CanonicalHonor, 0, len(existing))
	for _, h := range existing {
		if scope.Covers(h) {
			removed++
			continue
		}
		out = append(out, h)
	}
	return out, removed
}

// CountCovered returns how many honors scope covers.
func CountCovered(honors []models.CanonicalHonor, scope Scope) int {
	n := 0
	for _, h := range honors {
		if scope.Covers(h) {
			n++
		}
	}
	return n
}

// groupByGame splits canonical honors per game, keeping first-seen game order.
func groupByGame(canonical []models.CanonicalHonor) (order []string, byGame map[string][]models.CanonicalHonor) {
	byGame = make(map[string][]models.CanonicalHonor)
	for _, h := range canonical {
		if _, ok := byGame[h.ExternalGameID]; !ok {
			order = append(order, h.ExternalGameID)
		}
		byGame[h.ExternalGameID] = append(byGame[h.ExternalGameID], h)
	}
	return order, byGame
}

func gameName(honors []models.CanonicalHonor) string {
	for _, h := range honors {
		if h.GameName != "" {
			return h.GameName
		}
	}
	return ""
}
