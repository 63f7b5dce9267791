package handlers

import (
	"net/http"
	"strconv"

	"shopwidget/internal/images"
	"shopwidget/internal/logger"
	"shopwidget/internal/models"
	"shopwidget/internal/widget"

	"github.com/gin-gonic/gin"
)

type WidgetHandler struct {
	store  *widget.Store
	images *images.Resolver
	logger *logger.Logger
}

func NewWidgetHandler(store *widget.Store, images *images.Resolver, logger *logger.Logger) *WidgetHandler {
	return &WidgetHandler{
		store:  store,
		images: images,
		logger: logger,
	}
}

// Home serves the promotional carousel.
func (h *WidgetHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data":    h.resolveProducts(h.store.HomeProducts()),
		"loading": h.store.Loading(),
	})
}

// Catalog hydrates the filter state from the request query (the embed
// forwards its page query on catalog entry) and serves the filtered grid.
// The canonical query goes back so the embed can history.replaceState it.
func (h *WidgetHandler) Catalog(c *gin.Context) {
	widget.HydrateFromQuery(h.store, c.Request.URL.Query())

	c.JSON(http.StatusOK, gin.H{
		"data":    h.resolveProducts(h.store.FilteredProducts()),
		"dealers": h.store.Dealers(),
		"query":   widget.CanonicalQuery(h.store),
		"loading": h.store.Loading(),
	})
}

// ToggleDealer flips one dealer in the filter selection.
func (h *WidgetHandler) ToggleDealer(c *gin.Context) {
	h.store.ToggleDealerFilter(c.Param("id"))

	c.JSON(http.StatusOK, gin.H{
		"data":  h.resolveProducts(h.store.FilteredProducts()),
		"query": widget.CanonicalQuery(h.store),
	})
}

// SetSort replaces the sort order. Unknown values fall back to the natural
// fetch order rather than erroring.
func (h *WidgetHandler) SetSort(c *gin.Context) {
	var req struct {
		Sort string `json:"sort"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.SetSortOrder(models.ParseSortOrder(req.Sort))

	c.JSON(http.StatusOK, gin.H{
		"data":  h.resolveProducts(h.store.FilteredProducts()),
		"query": widget.CanonicalQuery(h.store),
	})
}

func (h *WidgetHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cartView())
}

// AddItem puts a product in the cart, or bumps its quantity when present.
func (h *WidgetHandler) AddItem(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.store.AddToCart(product)

	c.JSON(http.StatusCreated, h.cartView())
}

// DecrementItem takes one unit out of the cart; the last unit removes the
// item. Unknown products are a no-op, not an error.
func (h *WidgetHandler) DecrementItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	h.store.RemoveOneFromCart(id)

	c.JSON(http.StatusOK, h.cartView())
}

func (h *WidgetHandler) RemoveItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	h.store.RemoveFromCart(id)

	c.JSON(http.StatusOK, h.cartView())
}

func (h *WidgetHandler) ClearCart(c *gin.Context) {
	h.store.ClearCart()

	c.JSON(http.StatusOK, h.cartView())
}

func (h *WidgetHandler) cartView() gin.H {
	items := h.store.Cart()
	for i := range items {
		items[i].Image = h.images.Resolve(items[i].Image)
	}
	return gin.H{
		"items": items,
		"count": h.store.CartItemsCount(),
		"total": h.store.CartTotal(),
	}
}

func (h *WidgetHandler) resolveProducts(products []models.Product) []models.Product {
	for i := range products {
		products[i].Image = h.images.Resolve(products[i].Image)
	}
	return products
}
