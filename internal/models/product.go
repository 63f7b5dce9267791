package models

// Product is a catalog entry as delivered by the remote API. Products are
// replaced wholesale on refetch and never mutated in place.
type Product struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Image  string  `json:"image"`
	Dealer string  `json:"dealer"`
}

// Dealer is a supplier referenced by Product.Dealer.
type Dealer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SortOrder string

const (
	SortNone SortOrder = "none"
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder maps a query-string value to a SortOrder. Anything outside
// the enumeration falls back to SortNone.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortAsc:
		return SortAsc
	case SortDesc:
		return SortDesc
	default:
		return SortNone
	}
}
