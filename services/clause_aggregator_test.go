package services

import (
	"testing"

	"law-office-api/models"

	"github.com/google/go-cmp/cmp"
)

func TestGroupClausesByCategoryKeepsFirstAppearanceOrder(t *testing.T) {
	clauses := []models.ClauseTemplate{
		{ClauseID: 1, Title: "Êxito", Category: "Honorários"},
		{ClauseID: 2, Title: "LGPD", Category: ""},
		{ClauseID: 3, Title: "Custas", Category: "Despesas"},
		{ClauseID: 4, Title: "Sucumbência", Category: "Honorários"},
		{ClauseID: 5, Title: "Foro alternativo", Category: "  "},
	}

	groups := GroupClausesByCategory(clauses)

	type view struct {
		Category string
		IDs      []int
	}
	got := make([]view, 0, len(groups))
	for _, group := range groups {
		v := view{Category: group.Category}
		for _, clause := range group.Clauses {
			v.IDs = append(v.IDs, clause.ClauseID)
		}
		got = append(got, v)
	}

	want := []view{
		{Category: "Honorários", IDs: []int{1, 4}},
		{Category: models.DefaultClauseCategory, IDs: []int{2, 5}},
		{Category: "Despesas", IDs: []int{3}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected groups (-want +got):\n%s", diff)
	}
}

func TestGroupClausesByCategoryEmpty(t *testing.T) {
	groups := GroupClausesByCategory(nil)
	if groups == nil || len(groups) != 0 {
		t.Fatalf("expected empty non-nil groups, got %#v", groups)
	}
}

func TestFlattenSelectionFollowsSelectedOrder(t *testing.T) {
	groups := GroupClausesByCategory([]models.ClauseTemplate{
		{ClauseID: 1, Title: "A", Category: "X"},
		{ClauseID: 2, Title: "B", Category: "Y"},
		{ClauseID: 3, Title: "C", Category: "X"},
	})

	selected := FlattenSelection(groups, []int{2, 3, 2, 42, 1})

	ids := make([]int, 0, len(selected))
	for _, clause := range selected {
		ids = append(ids, clause.ClauseID)
	}
	if diff := cmp.Diff([]int{2, 3, 1}, ids); diff != "" {
		t.Fatalf("unexpected selection (-want +got):\n%s", diff)
	}
}

func TestFlattenSelectionNothingSelected(t *testing.T) {
	groups := GroupClausesByCategory([]models.ClauseTemplate{{ClauseID: 1, Title: "A"}})
	if got := FlattenSelection(groups, nil); len(got) != 0 {
		t.Fatalf("expected empty selection, got %d", len(got))
	}
}
