package usecase

import (
	"strings"

	"github.com/samber/lo"

	"github.com/udayvalera/recipe-basket/internal/domain"
)

// ResolveNames maps selected ingredient IDs to display names using catalog.
// Names keep the order of selectedIDs. IDs without a catalog entry (or whose
// entry has a blank name) are returned in unresolved, also in selection order.
// When the catalog holds an ID more than once the first entry wins, even if its name is blank.
func ResolveNames(selectedIDs []string, catalog []domain.Ingredient) (names []string, unresolved []string) {
	index := lo.Reduce(catalog, func(acc map[string]string, ingredient domain.Ingredient, _ int) map[string]string {
		if _, seen := acc[ingredient.ID]; !seen {
			acc[ingredient.ID] = ingredient.Name
		}
		return acc
	}, make(map[string]string, len(catalog)))

	resolve := func(id string) (string, bool) {
		name := index[id]
		return name, strings.TrimSpace(name) != ""
	}

	names = lo.FilterMap(selectedIDs, func(id string, _ int) (string, bool) {
		return resolve(id)
	})
	unresolved = lo.Reject(selectedIDs, func(id string, _ int) bool {
		_, ok := resolve(id)
		return ok
	})

	return names, unresolved
}
