package images

import "strings"

// Resolver turns the catalog's image field into a displayable URL.
type Resolver struct {
	assetHost   string
	placeholder string
}

func NewResolver(assetHost, placeholder string) *Resolver {
	return &Resolver{
		assetHost:   strings.TrimSuffix(assetHost, "/"),
		placeholder: placeholder,
	}
}

// Resolve maps an image reference to a URL: empty becomes the placeholder,
// absolute URLs pass through, anything else is a path on the asset host.
func (r *Resolver) Resolve(image string) string {
	if image == "" {
		return r.placeholder
	}
	if strings.HasPrefix(image, "http") {
		return image
	}
	return r.assetHost + image
}

// Fallback is the one-shot error substitute: it hands out the placeholder
// for a URL that failed to load, and reports false once the placeholder
// itself is the failing URL so the embed can stop retrying.
func (r *Resolver) Fallback(src string) (string, bool) {
	if src == r.placeholder {
		return "", false
	}
	return r.placeholder, true
}

// Placeholder exposes the configured placeholder URL.
func (r *Resolver) Placeholder() string {
	return r.placeholder
}
