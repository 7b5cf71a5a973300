package storage

import "testing"

func TestPublicURL(t *testing.T) {
	token := int64(1712345678)

	tests := []struct {
		name     string
		baseURL  string
		token    *int64
		expected string
	}{
		{
			name:     "item image",
			baseURL:  "https://example.supabase.co",
			token:    &token,
			expected: "https://example.supabase.co/storage/v1/object/public/items/item-1?1712345678",
		},
		{
			name:     "nil token means no image",
			baseURL:  "https://example.supabase.co",
			token:    nil,
			expected: "",
		},
		{
			name:     "no base URL configured",
			baseURL:  "",
			token:    &token,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(tt.baseURL)
			if got := r.PublicURL(BucketItems, "item-1", tt.token); got != tt.expected {
				t.Errorf("PublicURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPublicURLNilResolver(t *testing.T) {
	var r *Resolver
	token := int64(1)
	if got := r.PublicURL(BucketAvatars, "u1", &token); got != "" {
		t.Errorf("nil resolver returned %q, want empty", got)
	}
}
