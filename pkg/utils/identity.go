package utils

import (
	"crypto/rand"
	"math/big"
)

const (
	guestIDPrefix = "guest_"
	guestIDLength = 9
	base36Chars   = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewGuestID generates a "guest_"-prefixed identifier for profiles created
// without an established session. Nine base36 characters, randomly chosen.
func NewGuestID() string {
	suffix := make([]byte, guestIDLength)
	max := big.NewInt(int64(len(base36Chars)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken;
			// fall back to a fixed character rather than panic.
			suffix[i] = '0'
			continue
		}
		suffix[i] = base36Chars[n.Int64()]
	}
	return guestIDPrefix + string(suffix)
}
