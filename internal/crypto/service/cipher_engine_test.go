package service

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
)

func newTestKey(t *testing.T) *cryptoDomain.EncryptionKey {
	t.Helper()
	raw := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	key, err := cryptoDomain.NewEncryptionKey(raw)
	require.NoError(t, err)
	return key
}

func newTestEngine(t *testing.T) CipherEngine {
	t.Helper()
	engine, err := NewCipherEngine(newTestKey(t))
	require.NoError(t, err)
	return engine
}

func TestNewCipherEngine(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		engine, err := NewCipherEngine(newTestKey(t))
		assert.NoError(t, err)
		assert.NotNil(t, engine)
	})

	t.Run("Error_NilKey", func(t *testing.T) {
		engine, err := NewCipherEngine(nil)
		assert.Nil(t, engine)
		assert.ErrorIs(t, err, cryptoDomain.ErrEncryptionKeyNotSet)
	})
}

func TestCipherEngine_RoundTrip(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("sk_live_xyz")},
		{"exact block", bytes.Repeat([]byte("a"), 16)},
		{"multi block", bytes.Repeat([]byte("b"), 47)},
		{"binary", []byte{0x00, 0xff, 0x10, 0x80}},
		{"unicode", []byte("pässwörd-密码")},
		{"large", bytes.Repeat([]byte("x"), 64*1024)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := engine.Encrypt(tt.plaintext)
			require.NoError(t, err)

			decrypted, err := engine.Decrypt(encoded)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.plaintext, decrypted))
		})
	}
}

func TestCipherEngine_EncodedShape(t *testing.T) {
	engine := newTestEngine(t)

	encoded, err := engine.Encrypt([]byte("hello"))
	require.NoError(t, err)

	parts := strings.Split(encoded, ":")
	require.Len(t, parts, 2)
	assert.Equal(t, strings.ToLower(encoded), encoded)

	nonce, err := hex.DecodeString(parts[0])
	require.NoError(t, err)
	assert.Len(t, nonce, cryptoDomain.NonceSize)

	body, err := hex.DecodeString(parts[1])
	require.NoError(t, err)
	// One padded block plus the tag.
	assert.Len(t, body, 16+cryptoDomain.TagSize)
}

func TestCipherEngine_NonceUniqueness(t *testing.T) {
	engine := newTestEngine(t)
	plaintext := []byte("same plaintext")

	seenNonces := make(map[string]struct{})
	seenValues := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		encoded, err := engine.Encrypt(plaintext)
		require.NoError(t, err)

		nonce := strings.SplitN(encoded, ":", 2)[0]
		_, dup := seenNonces[nonce]
		require.False(t, dup, "nonce reused")
		seenNonces[nonce] = struct{}{}

		_, dup = seenValues[encoded]
		require.False(t, dup, "encoded value repeated")
		seenValues[encoded] = struct{}{}
	}
}

func TestCipherEngine_TamperDetection(t *testing.T) {
	engine := newTestEngine(t)

	encoded, err := engine.Encrypt([]byte("sk_live_xyz"))
	require.NoError(t, err)

	parts := strings.Split(encoded, ":")
	nonce, err := hex.DecodeString(parts[0])
	require.NoError(t, err)
	body, err := hex.DecodeString(parts[1])
	require.NoError(t, err)

	t.Run("every ciphertext bit", func(t *testing.T) {
		for i := 0; i < len(body)*8; i++ {
			tampered := append([]byte(nil), body...)
			tampered[i/8] ^= 1 << (i % 8)

			value := parts[0] + ":" + hex.EncodeToString(tampered)
			_, err := engine.Decrypt(value)
			require.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed, "bit %d", i)
		}
	})

	t.Run("every nonce bit", func(t *testing.T) {
		for i := 0; i < len(nonce)*8; i++ {
			tampered := append([]byte(nil), nonce...)
			tampered[i/8] ^= 1 << (i % 8)

			value := hex.EncodeToString(tampered) + ":" + parts[1]
			_, err := engine.Decrypt(value)
			require.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed, "bit %d", i)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		value := parts[0] + ":" + hex.EncodeToString(body[:len(body)-1])
		_, err := engine.Decrypt(value)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("extended", func(t *testing.T) {
		value := parts[0] + ":" + hex.EncodeToString(append(body, make([]byte, 16)...))
		_, err := engine.Decrypt(value)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestCipherEngine_WrongKey(t *testing.T) {
	engineA := newTestEngine(t)
	engineB := newTestEngine(t)

	encoded, err := engineA.Encrypt([]byte("secret"))
	require.NoError(t, err)

	decrypted, err := engineB.Decrypt(encoded)
	assert.Nil(t, decrypted)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

// Values sealed with bare AES-CBC carry no tag and must not decrypt.
func TestCipherEngine_RejectsUntaggedCBC(t *testing.T) {
	key := newTestKey(t)
	engine, err := NewCipherEngine(key)
	require.NoError(t, err)

	derived, err := deriveSubKey(key.Bytes(), encryptionKeyInfo)
	require.NoError(t, err)

	plaintext := []byte(strings.Repeat("sk_live_untagged_", 4))

	tests := []struct {
		name   string
		cbcKey []byte
	}{
		{"process key", key.Bytes()},
		{"derived encryption key", derived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := aes.NewCipher(tt.cbcKey)
			require.NoError(t, err)

			iv := make([]byte, aes.BlockSize)
			_, err = rand.Read(iv)
			require.NoError(t, err)

			padded := pkcs7Pad(plaintext, aes.BlockSize)
			ciphertext := make([]byte, len(padded))
			cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

			decrypted, err := engine.Decrypt(hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext))
			assert.Nil(t, decrypted)
			assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		})
	}
}

func TestCipherEngine_MalformedInput(t *testing.T) {
	engine := newTestEngine(t)
	validNonce := strings.Repeat("ab", cryptoDomain.NonceSize)

	tests := []struct {
		name  string
		value string
	}{
		{"no separator", "not-valid"},
		{"invalid hex both halves", "zz:zz"},
		{"empty", ""},
		{"only separator", ":"},
		{"two separators", validNonce + ":00:00"},
		{"invalid hex ciphertext", validNonce + ":zz"},
		{"odd length hex", validNonce + ":abc"},
		{"short nonce", "abcd:" + strings.Repeat("00", 48)},
		{"long nonce", strings.Repeat("ab", 32) + ":" + strings.Repeat("00", 48)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plaintext, err := engine.Decrypt(tt.value)
			assert.Nil(t, plaintext)
			assert.ErrorIs(t, err, cryptoDomain.ErrMalformedInput)
		})
	}

	t.Run("well formed but too short is a decryption failure", func(t *testing.T) {
		_, err := engine.Decrypt(validNonce + ":00")
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.NotErrorIs(t, err, cryptoDomain.ErrMalformedInput)
	})
}

func TestCipherEngine_Concurrency(t *testing.T) {
	engine := newTestEngine(t)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plaintext := bytes.Repeat([]byte{byte(i)}, i+1)
			encoded, err := engine.Encrypt(plaintext)
			if err != nil {
				errs <- err
				return
			}
			decrypted, err := engine.Decrypt(encoded)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(plaintext, decrypted) {
				errs <- cryptoDomain.ErrDecryptionFailed
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestPKCS7(t *testing.T) {
	t.Run("pad adds full block when aligned", func(t *testing.T) {
		padded := pkcs7Pad(bytes.Repeat([]byte{1}, 16), 16)
		assert.Len(t, padded, 32)
		assert.Equal(t, byte(16), padded[31])
	})

	t.Run("unpad rejects zero pad byte", func(t *testing.T) {
		_, err := pkcs7Unpad(make([]byte, 16), 16)
		assert.Error(t, err)
	})

	t.Run("unpad rejects inconsistent padding", func(t *testing.T) {
		data := bytes.Repeat([]byte{3}, 16)
		data[14] = 2
		_, err := pkcs7Unpad(data, 16)
		assert.Error(t, err)
	})

	t.Run("unpad rejects pad larger than block", func(t *testing.T) {
		data := bytes.Repeat([]byte{17}, 16)
		_, err := pkcs7Unpad(data, 16)
		assert.Error(t, err)
	})
}
