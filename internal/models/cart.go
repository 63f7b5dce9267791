package models

// CartItem is a product in the cart plus its quantity. Identity is the
// product ID; the cart holds at most one item per product.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// CartEnvelope is the durable representation of the cart: the items plus the
// write time in epoch milliseconds, used to enforce the storage TTL on load.
type CartEnvelope struct {
	Items     []CartItem `json:"items"`
	Timestamp int64      `json:"timestamp"`
}
