package widget

import (
	"context"
	"sort"
	"sync"
	"time"

	"shopwidget/internal/cartstore"
	"shopwidget/internal/catalog"
	"shopwidget/internal/logger"
	"shopwidget/internal/models"
)

const (
	homeMinPrice     = 10
	homeCarouselSize = 5
	homeFallbackSize = 8
	persistTimeout   = time.Second
)

// Store is the single source of truth for one widget mount: product list,
// dealer list, cart, filter/sort state and the loading flag. Everything
// outside reads derived views or calls mutation operations; nothing outside
// writes its fields.
//
// Every failure path degrades to an empty or default value. The store never
// propagates an error to its callers, so the embedding page cannot be
// crashed by a dead backend or a corrupt persisted cart.
type Store struct {
	source  catalog.Source
	carts   cartstore.Store
	cartKey string
	logger  *logger.Logger

	mu              sync.Mutex
	products        []models.Product
	dealers         []models.Dealer
	cart            []models.CartItem
	selectedDealers []string
	sortOrder       models.SortOrder
	dealerScope     []string
	loading         bool

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New builds the store and restores the persisted cart. A malformed or
// expired stored cart leaves the cart empty; the constructor cannot fail.
func New(source catalog.Source, carts cartstore.Store, cartKey string, logger *logger.Logger) *Store {
	s := &Store{
		source:    source,
		carts:     carts,
		cartKey:   cartKey,
		logger:    logger,
		sortOrder: models.SortNone,
		subs:      make(map[int]func()),
	}
	s.loadCart()
	return s
}

// Subscribe registers fn to run after every state change. The returned
// function unregisters it. Callbacks run outside the store lock, so they may
// read derived views freely.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Initialize records the dealer scope and fetches dealers and products
// concurrently. The two fetches are independent: neither cancels the other
// and each falls back to an empty list on its own failure. Calling again
// re-fetches and replaces both lists wholesale; when calls overlap, the
// response that arrives last wins.
func (s *Store) Initialize(ctx context.Context, dealerScope []string) {
	s.mu.Lock()
	s.dealerScope = append([]string(nil), dealerScope...)
	s.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.fetchDealers(ctx)
	}()
	go func() {
		defer wg.Done()
		s.fetchProducts(ctx)
	}()
	wg.Wait()
}

func (s *Store) fetchDealers(ctx context.Context) {
	dealers, err := s.source.FetchDealers(ctx)
	if err != nil {
		s.logger.Warn("Error fetching dealers: %v", err)
		dealers = nil
	}
	s.mu.Lock()
	s.dealers = dealers
	s.mu.Unlock()
	s.notify()
}

func (s *Store) fetchProducts(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	scope := append([]string(nil), s.dealerScope...)
	s.mu.Unlock()
	s.notify()

	products, err := s.source.FetchProducts(ctx, scope)
	if err != nil {
		s.logger.Warn("Error fetching products: %v", err)
		products = nil
	}

	s.mu.Lock()
	s.products = products
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// Loading reports whether a product fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.products...)
}

func (s *Store) Dealers() []models.Dealer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Dealer(nil), s.dealers...)
}

// HomeProducts picks the carousel: the first 5 products priced at or above
// the threshold. With fewer than 5 such candidates the carousel degrades to
// the first 8 of the unfiltered list, preferring something over an empty
// promo row at small catalog sizes.
func (s *Store) HomeProducts() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	var filtered []models.Product
	for _, p := range s.products {
		if p.Price >= homeMinPrice {
			filtered = append(filtered, p)
		}
	}

	if len(filtered) < homeCarouselSize {
		n := len(s.products)
		if n > homeFallbackSize {
			n = homeFallbackSize
		}
		return append([]models.Product(nil), s.products[:n]...)
	}

	return append([]models.Product(nil), filtered[:homeCarouselSize]...)
}

// FilteredProducts applies the dealer selection and price sort to a copy of
// the product list. Sorting is stable so equal-price products keep their
// fetch order; SortNone leaves fetch order untouched.
func (s *Store) FilteredProducts() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := append([]models.Product(nil), s.products...)

	if len(s.selectedDealers) > 0 {
		selected := make(map[string]bool, len(s.selectedDealers))
		for _, id := range s.selectedDealers {
			selected[id] = true
		}
		kept := filtered[:0]
		for _, p := range filtered {
			if selected[p.Dealer] {
				kept = append(kept, p)
			}
		}
		filtered = kept
	}

	switch s.sortOrder {
	case models.SortAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case models.SortDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	}

	return filtered
}

func (s *Store) Cart() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CartItem(nil), s.cart...)
}

// CartItemsCount sums quantities across the cart.
func (s *Store) CartItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.cart {
		count += item.Quantity
	}
	return count
}

// CartTotal sums price times quantity, in the catalog's currency unit.
func (s *Store) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, item := range s.cart {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// AddToCart increments the product's quantity, appending a fresh item with
// quantity 1 when it is not in the cart yet.
func (s *Store) AddToCart(product models.Product) {
	s.mu.Lock()
	found := false
	for i := range s.cart {
		if s.cart[i].ID == product.ID {
			s.cart[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.cart = append(s.cart, models.CartItem{Product: product, Quantity: 1})
	}
	s.persistCartLocked()
	s.mu.Unlock()
	s.notify()
}

// RemoveOneFromCart decrements the product's quantity, dropping the item at
// quantity one. Absent products are a no-op and do not persist.
func (s *Store) RemoveOneFromCart(productID int64) {
	s.mu.Lock()
	idx := -1
	for i := range s.cart {
		if s.cart[i].ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	if s.cart[idx].Quantity > 1 {
		s.cart[idx].Quantity--
	} else {
		s.cart = append(s.cart[:idx], s.cart[idx+1:]...)
	}
	s.persistCartLocked()
	s.mu.Unlock()
	s.notify()
}

// RemoveFromCart drops the item regardless of quantity.
func (s *Store) RemoveFromCart(productID int64) {
	s.mu.Lock()
	kept := s.cart[:0]
	for _, item := range s.cart {
		if item.ID != productID {
			kept = append(kept, item)
		}
	}
	s.cart = kept
	s.persistCartLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	s.cart = nil
	s.persistCartLocked()
	s.mu.Unlock()
	s.notify()
}

func (s *Store) IsInCart(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.cart {
		if item.ID == productID {
			return true
		}
	}
	return false
}

func (s *Store) CartQuantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.cart {
		if item.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// ToggleDealerFilter adds the dealer to the selection, or removes it when
// already selected. Selection order stays deterministic: append on add,
// remove in place on remove.
func (s *Store) ToggleDealerFilter(dealerID string) {
	s.mu.Lock()
	idx := -1
	for i, id := range s.selectedDealers {
		if id == dealerID {
			idx = i
			break
		}
	}
	if idx >= 0 {
		s.selectedDealers = append(s.selectedDealers[:idx], s.selectedDealers[idx+1:]...)
	} else {
		s.selectedDealers = append(s.selectedDealers, dealerID)
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetSortOrder(order models.SortOrder) {
	s.mu.Lock()
	s.sortOrder = order
	s.mu.Unlock()
	s.notify()
}

// SetFiltersFromURL bulk-replaces the filter state when the catalog view is
// entered. Writing the state back to the URL is the caller's job.
func (s *Store) SetFiltersFromURL(dealers []string, order models.SortOrder) {
	s.mu.Lock()
	s.selectedDealers = append([]string(nil), dealers...)
	s.sortOrder = order
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SelectedDealers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.selectedDealers...)
}

func (s *Store) SortOrder() models.SortOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortOrder
}

// persistCartLocked writes the cart before the mutation is considered
// complete. Persistence failures are logged and otherwise ignored: the
// in-memory cart stays correct for this session.
func (s *Store) persistCartLocked() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.carts.Save(ctx, s.cartKey, append([]models.CartItem(nil), s.cart...)); err != nil {
		s.logger.Error("Error saving cart: %v", err)
	}
}

func (s *Store) loadCart() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	items, err := s.carts.Load(ctx, s.cartKey)
	if err != nil {
		s.logger.Warn("Error loading cart: %v", err)
		return
	}
	s.cart = items
}
