package cartstore

import (
	"context"
	"sync"
	"time"

	"shopwidget/internal/models"
)

// Memory keeps carts in-process. Useful for tests and for embeds that opt
// out of durable persistence; the cart then lives as long as the process.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  time.Duration
	now  func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		data: make(map[string][]byte),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (m *Memory) Load(_ context.Context, key string) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.data[key]
	if !ok {
		return nil, nil
	}

	items, fresh, err := decodeEnvelope(data, m.now(), m.ttl)
	if err != nil {
		return nil, err
	}
	if !fresh {
		delete(m.data, key)
		return nil, nil
	}
	return items, nil
}

func (m *Memory) Save(_ context.Context, key string, items []models.CartItem) error {
	payload, err := encodeEnvelope(items, m.now())
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = payload
	return nil
}

func (m *Memory) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
