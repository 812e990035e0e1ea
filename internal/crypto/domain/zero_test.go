package domain

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZero(t *testing.T) {
	t.Run("ClearsPlaintextInPlace", func(t *testing.T) {
		plaintext := []byte("sk_live_51HxYz")
		view := plaintext[3:7]

		Zero(plaintext)

		assert.Equal(t, make([]byte, len("sk_live_51HxYz")), plaintext)
		assert.Equal(t, []byte{0, 0, 0, 0}, view)
	})

	t.Run("ClearsKeySizedBuffer", func(t *testing.T) {
		key := bytes.Repeat([]byte{0xa5}, KeySize)

		Zero(key)

		assert.Len(t, key, KeySize)
		assert.Equal(t, make([]byte, KeySize), key)
	})

	t.Run("NilAndEmpty", func(t *testing.T) {
		assert.NotPanics(t, func() { Zero(nil) })
		assert.NotPanics(t, func() { Zero([]byte{}) })
	})
}
