// Package storage resolves stored image tokens into public object URLs.
package storage

import "fmt"

// Buckets holding uploaded images.
const (
	BucketItems   = "items"
	BucketAvatars = "avatars"
)

// Resolver builds public object-storage URLs. The token is an opaque
// cache-busting value stored next to the entity; a nil token means the
// entity has no image.
type Resolver struct {
	baseURL string
}

// NewResolver creates a resolver for the given storage base URL.
func NewResolver(baseURL string) *Resolver {
	return &Resolver{baseURL: baseURL}
}

// PublicURL returns the public URL for an entity's image, or the empty
// string when no image is stored.
func (r *Resolver) PublicURL(bucket, entityID string, token *int64) string {
	if r == nil || r.baseURL == "" || token == nil {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s?%d", r.baseURL, bucket, entityID, *token)
}
