package shortcode_test

import (
	"strings"
	"testing"

	"buckeyeborrow/pkg/shortcode"

	"github.com/stretchr/testify/assert"
)

func TestNewLengthAndAlphabet(t *testing.T) {
	code := shortcode.New(shortcode.Length)
	assert.Len(t, code, 5)
	for _, r := range code {
		assert.True(t, strings.ContainsRune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789", r), "unexpected character %q", r)
	}

	// Zero and negative fall back to the default length.
	assert.Len(t, shortcode.New(0), shortcode.Length)
	assert.Len(t, shortcode.New(-3), shortcode.Length)
}

func TestNewIsNotConstant(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[shortcode.New(shortcode.Length)] = true
	}
	// 32^5 codes; 50 draws colliding down to a single value would mean the
	// generator is broken.
	assert.Greater(t, len(seen), 1)
}
