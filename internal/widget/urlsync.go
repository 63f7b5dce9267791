package widget

import (
	"net/url"
	"strings"

	"shopwidget/internal/models"
)

// The filter state round-trips through two query parameters: dealers as a
// comma-joined list (absent when nothing is selected) and sort as asc/desc
// (absent for the natural order). The embed reads these once on catalog
// entry and replaces, never pushes, the history entry on writes.

const (
	queryDealers = "dealers"
	querySort    = "sort"
)

// FiltersFromQuery decodes the filter state from query parameters.
func FiltersFromQuery(q url.Values) ([]string, models.SortOrder) {
	var dealers []string
	for _, part := range strings.Split(q.Get(queryDealers), ",") {
		if part != "" {
			dealers = append(dealers, part)
		}
	}
	return dealers, models.ParseSortOrder(q.Get(querySort))
}

// QueryFromFilters is the inverse: the canonical query parameters for the
// given filter state, ready for history.replaceState on the host page.
func QueryFromFilters(dealers []string, order models.SortOrder) url.Values {
	q := url.Values{}
	if len(dealers) > 0 {
		q.Set(queryDealers, strings.Join(dealers, ","))
	}
	if order == models.SortAsc || order == models.SortDesc {
		q.Set(querySort, string(order))
	}
	return q
}

// HydrateFromQuery seeds the store's filter state from a request query, as
// done once per catalog-view entry.
func HydrateFromQuery(s *Store, q url.Values) {
	dealers, order := FiltersFromQuery(q)
	s.SetFiltersFromURL(dealers, order)
}

// CanonicalQuery serializes the store's current filter state.
func CanonicalQuery(s *Store) string {
	return QueryFromFilters(s.SelectedDealers(), s.SortOrder()).Encode()
}
