package services

import "law-office-api/models"

// ClauseGroup holds the clauses of one category in their original order.
type ClauseGroup struct {
	Category string                  `json:"category"`
	Clauses  []models.ClauseTemplate `json:"clauses"`
}

// GroupClausesByCategory groups clauses by category. Groups appear in order of
// first appearance, never alphabetically; blank categories go to "General".
func GroupClausesByCategory(clauses []models.ClauseTemplate) []ClauseGroup {
	groups := make([]ClauseGroup, 0)
	index := make(map[string]int)

	for _, clause := range clauses {
		category := clause.CategoryOrDefault()
		pos, ok := index[category]
		if !ok {
			pos = len(groups)
			index[category] = pos
			groups = append(groups, ClauseGroup{Category: category})
		}
		groups[pos].Clauses = append(groups[pos].Clauses, clause)
	}

	return groups
}

// FlattenSelection returns the selected clauses in the order of selectedIDs.
// Unknown ids are skipped and repeated ids are kept once.
func FlattenSelection(groups []ClauseGroup, selectedIDs []int) []models.ClauseTemplate {
	byID := make(map[int]models.ClauseTemplate)
	for _, group := range groups {
		for _, clause := range group.Clauses {
			byID[clause.ClauseID] = clause
		}
	}

	selected := make([]models.ClauseTemplate, 0, len(selectedIDs))
	seen := make(map[int]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		clause, ok := byID[id]
		if !ok {
			continue
		}
		seen[id] = struct{}{}
		selected = append(selected, clause)
	}
	return selected
}
