package cartstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopwidget/internal/models"
)

// Store is the durable home of a widget cart. One fixed key per widget
// mount; Save overwrites the previous value on every cart mutation.
//
// Load returns (nil, nil) when the key is absent or the stored envelope has
// outlived its TTL; an expired envelope is discarded in full and the key is
// cleared, never partially salvaged. Malformed payloads surface as errors and
// the widget store decides what to do with them.
type Store interface {
	Load(ctx context.Context, key string) ([]models.CartItem, error)
	Save(ctx context.Context, key string, items []models.CartItem) error
	Clear(ctx context.Context, key string) error
}

// DefaultTTL bounds how stale a restored cart may be.
const DefaultTTL = 10 * time.Minute

func encodeEnvelope(items []models.CartItem, now time.Time) ([]byte, error) {
	data, err := json.Marshal(models.CartEnvelope{
		Items:     items,
		Timestamp: now.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// decodeEnvelope unpacks a stored envelope. The second return value reports
// whether the envelope is still within its TTL; expired items are not
// returned.
func decodeEnvelope(data []byte, now time.Time, ttl time.Duration) ([]models.CartItem, bool, error) {
	var env models.CartEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	if now.UnixMilli()-env.Timestamp >= ttl.Milliseconds() {
		return nil, false, nil
	}
	return env.Items, true, nil
}
