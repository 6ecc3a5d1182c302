package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"

	"github.com/mtlprog/pricedeck/internal/domain"
)

// itemNames adapts items to fuzzy.Source, matching on lower-cased names.
type itemNames []domain.Item

func (n itemNames) String(i int) string {
	return strings.ToLower(n[i].Name)
}

func (n itemNames) Len() int {
	return len(n)
}

// Search returns the items whose name fuzzily matches query, best match first.
// An empty query returns the items unchanged.
func Search(items []domain.Item, query string) []domain.Item {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	matches := fuzzy.FindFrom(query, itemNames(items))
	return lo.Map(matches, func(m fuzzy.Match, _ int) domain.Item {
		return items[m.Index]
	})
}
