// Package storage provides object storage for item and profile photos on
// any S3-compatible backend (AWS S3, MinIO, DigitalOcean Spaces, R2).
package storage

import (
	"context"
	"io"
	"strings"
)

// Storage is the contract the services depend on: save an object and get a
// publicly retrievable URL back, delete one, and recover the key from a URL
// previously returned by Save (for replace-on-edit semantics).
type Storage interface {
	Save(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, bucket, key string) error
	URL(bucket, key string) string
}

// KeyFromURL recovers the object key from a public URL produced for the
// given bucket, handling both path-style (endpoint/bucket/key) and
// virtual-host-style (bucket.s3.region.amazonaws.com/key) URLs. Returns
// false when the URL does not belong to that bucket, e.g. a photo
// reference imported from elsewhere.
func KeyFromURL(bucket, url string) (string, bool) {
	if marker := "/" + bucket + "/"; strings.Contains(url, marker) {
		key := url[strings.Index(url, marker)+len(marker):]
		return key, key != ""
	}
	if marker := "://" + bucket + "."; strings.Contains(url, marker) {
		rest := url[strings.Index(url, marker)+len(marker):]
		if slash := strings.Index(rest, "/"); slash >= 0 && slash < len(rest)-1 {
			return rest[slash+1:], true
		}
	}
	return "", false
}
