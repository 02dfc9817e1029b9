package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFromURL(t *testing.T) {
	cases := []struct {
		name   string
		bucket string
		url    string
		key    string
		ok     bool
	}{
		{
			name:   "path style",
			bucket: "item-photos",
			url:    "http://localhost:9000/item-photos/owner-1/photo.jpg",
			key:    "owner-1/photo.jpg",
			ok:     true,
		},
		{
			name:   "virtual host style",
			bucket: "item-photos",
			url:    "https://item-photos.s3.us-east-2.amazonaws.com/owner-1/photo.jpg",
			key:    "owner-1/photo.jpg",
			ok:     true,
		},
		{
			name:   "memory scheme",
			bucket: "item-photos",
			url:    "memory://item-photos/owner-1/photo.jpg",
			key:    "owner-1/photo.jpg",
			ok:     true,
		},
		{
			name:   "different bucket",
			bucket: "item-photos",
			url:    "http://localhost:9000/profile-photos/owner-1/photo.jpg",
			ok:     false,
		},
		{
			name:   "not a url",
			bucket: "item-photos",
			url:    "owner-1/photo.jpg",
			ok:     false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, ok := KeyFromURL(tc.bucket, tc.url)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.key, key)
			}
		})
	}
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()

	url, err := store.Save(ctx, "item-photos", "owner-1/photo.jpg", strings.NewReader("bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.True(t, store.Has("item-photos", "owner-1/photo.jpg"))
	assert.Equal(t, "memory://item-photos/owner-1/photo.jpg", url)

	key, ok := KeyFromURL("item-photos", url)
	require.True(t, ok)
	require.NoError(t, store.Delete(ctx, "item-photos", key))
	assert.False(t, store.Has("item-photos", "owner-1/photo.jpg"))

	assert.Error(t, store.Delete(ctx, "item-photos", key))
}
