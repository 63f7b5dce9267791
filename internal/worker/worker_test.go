package worker

import (
	"context"
	"testing"

	"shopwidget/internal/cartstore"
	"shopwidget/internal/config"
	"shopwidget/internal/logger"
	"shopwidget/internal/models"
	"shopwidget/internal/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	products []models.Product
	gotScope []string
}

func (s *stubSource) FetchDealers(context.Context) ([]models.Dealer, error) {
	return nil, nil
}

func (s *stubSource) FetchProducts(_ context.Context, scope []string) ([]models.Product, error) {
	s.gotScope = scope
	return s.products, nil
}

func TestProcessCatalogUpdatedRefreshesStore(t *testing.T) {
	src := &stubSource{products: []models.Product{{ID: 1, Price: 10, Dealer: "d1"}}}
	log := logger.New("error")
	store := widget.New(src, cartstore.NewMemory(cartstore.DefaultTTL), "cart:test", log)
	cfg := &config.Config{KafkaBrokers: "localhost:9092", CatalogTopic: "catalog-events", DealerScope: []string{"d1"}}

	w := New(cfg, log, store)
	defer w.Stop()

	w.process(Event{Type: "catalog.updated"})

	require.Len(t, store.Products(), 1)
	// With no scope on the event, the configured widget scope applies.
	assert.Equal(t, []string{"d1"}, src.gotScope)
}

func TestProcessEventScopeOverridesConfig(t *testing.T) {
	src := &stubSource{}
	log := logger.New("error")
	store := widget.New(src, cartstore.NewMemory(cartstore.DefaultTTL), "cart:test", log)
	cfg := &config.Config{KafkaBrokers: "localhost:9092", CatalogTopic: "catalog-events", DealerScope: []string{"d1"}}

	w := New(cfg, log, store)
	defer w.Stop()

	w.process(Event{Type: "catalog.updated", Dealers: []string{"d9"}})

	assert.Equal(t, []string{"d9"}, src.gotScope)
}

func TestProcessIgnoresUnknownEvents(t *testing.T) {
	src := &stubSource{products: []models.Product{{ID: 1, Price: 10, Dealer: "d1"}}}
	log := logger.New("error")
	store := widget.New(src, cartstore.NewMemory(cartstore.DefaultTTL), "cart:test", log)
	cfg := &config.Config{KafkaBrokers: "localhost:9092", CatalogTopic: "catalog-events"}

	w := New(cfg, log, store)
	defer w.Stop()

	w.process(Event{Type: "product.deleted"})

	assert.Empty(t, store.Products())
}
