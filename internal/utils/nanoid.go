package utils

import (
	"crypto/rand"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultIDSize matches the id length the mobile client used for photos.
const DefaultIDSize = 21

// NanoID returns a random identifier of the given length drawn uniformly
// from the 62-symbol alphanumeric alphabet. Collisions are not checked;
// callers rely on probabilistic uniqueness.
func NanoID(size int) string {
	if size <= 0 {
		size = DefaultIDSize
	}

	id := make([]byte, 0, size)
	buf := make([]byte, size)
	for len(id) < size {
		if _, err := rand.Read(buf); err != nil {
			continue
		}
		for _, b := range buf {
			// Mask to 6 bits and reject values past the alphabet so every
			// symbol stays equally likely.
			idx := b & 63
			if int(idx) >= len(idAlphabet) {
				continue
			}
			id = append(id, idAlphabet[idx])
			if len(id) == size {
				break
			}
		}
	}

	return string(id)
}
