package cartstore

import (
	"fmt"
	"strings"
	"time"

	"shopwidget/internal/database"

	"github.com/redis/go-redis/v9"
)

// Open picks a backend from the storage URL scheme: redis:// for a shared
// cache, memory:// for in-process, anything else goes through the database
// layer (sqlite:// or a PostgreSQL DSN). The returned closer releases the
// backend's connections.
func Open(storageURL string, ttl time.Duration) (Store, func() error, error) {
	switch {
	case strings.HasPrefix(storageURL, "redis://"):
		opts, err := redis.ParseURL(storageURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		client := redis.NewClient(opts)
		return NewRedis(client, ttl), client.Close, nil

	case strings.HasPrefix(storageURL, "memory://"):
		return NewMemory(ttl), func() error { return nil }, nil

	default:
		db, err := database.New(storageURL)
		if err != nil {
			return nil, nil, err
		}
		return NewGorm(db.DB, ttl), db.Close, nil
	}
}
