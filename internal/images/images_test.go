package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const placeholder = "https://via.placeholder.com/400x300?text=No+Image"

func TestResolve(t *testing.T) {
	r := NewResolver("https://assets.example.com", placeholder)

	assert.Equal(t, placeholder, r.Resolve(""))
	assert.Equal(t, "https://cdn.other.com/p.png", r.Resolve("https://cdn.other.com/p.png"))
	assert.Equal(t, "http://cdn.other.com/p.png", r.Resolve("http://cdn.other.com/p.png"))
	assert.Equal(t, "https://assets.example.com/media/p.png", r.Resolve("/media/p.png"))
}

func TestResolveTrimsTrailingSlashOnHost(t *testing.T) {
	r := NewResolver("https://assets.example.com/", placeholder)
	assert.Equal(t, "https://assets.example.com/media/p.png", r.Resolve("/media/p.png"))
}

func TestFallbackIsOneShot(t *testing.T) {
	r := NewResolver("https://assets.example.com", placeholder)

	src, ok := r.Fallback("https://assets.example.com/media/broken.png")
	assert.True(t, ok)
	assert.Equal(t, placeholder, src)

	// The placeholder failing must not loop back onto itself.
	_, ok = r.Fallback(placeholder)
	assert.False(t, ok)
}
