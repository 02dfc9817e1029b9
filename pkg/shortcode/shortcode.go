// Package shortcode generates the short human-shareable codes used as item
// and community-request numbers. Codes are uppercase and skip ambiguous
// characters (0/O, 1/I) so they survive being read out loud or scribbled on
// a whiteboard.
package shortcode

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length is the default code length.
const Length = 5

// New returns a random code of n characters from the code alphabet.
func New(n int) string {
	if n <= 0 {
		n = Length
	}
	buf := make([]byte, n)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken;
			// at that point nothing in the process is trustworthy.
			panic(err)
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf)
}
