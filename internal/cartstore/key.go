package cartstore

import "fmt"

// Key namespaces a widget mount's cart in shared backends, so several
// mounts can point at one redis or postgres without colliding.
func Key(mountID string) string {
	return fmt.Sprintf("cart:%s", mountID)
}
