package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNanoID_Length(t *testing.T) {
	assert.Len(t, NanoID(DefaultIDSize), 21)
	assert.Len(t, NanoID(8), 8)
}

func TestNanoID_Alphabet(t *testing.T) {
	id := NanoID(200)
	for _, r := range id {
		assert.True(t, strings.ContainsRune(idAlphabet, r), "unexpected rune %q", r)
	}
}

func TestNanoID_Uniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NanoID(DefaultIDSize)
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
