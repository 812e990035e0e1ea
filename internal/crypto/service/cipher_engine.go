package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
)

// Versioned HKDF info strings. Changing either one makes every stored value unreadable.
const (
	encryptionKeyInfo = "secretgate-cbc-enc-v1"
	macKeyInfo        = "secretgate-hmac-v1"
)

// cbcHMACEngine implements CipherEngine with AES-256-CBC and an HMAC-SHA256 tag.
//
// Layout of an encoded value:
//
//	hex(nonce) ":" hex(cbc(pkcs7(plaintext)) || hmac(nonce || cbc(...)))
//
// The nonce is the 16 byte CBC IV. The tag covers nonce and ciphertext
// (encrypt-then-MAC), so any modification of either half is rejected before
// the block cipher runs. Encryption and MAC keys are derived from the process
// key with HKDF-SHA256 and never equal it.
//
// Thread safety: block and macKey are read-only after construction. A new
// hash is created per call.
type cbcHMACEngine struct {
	block  cipher.Block
	macKey []byte
}

// NewCipherEngine builds the CipherEngine for key.
func NewCipherEngine(key *cryptoDomain.EncryptionKey) (CipherEngine, error) {
	if key == nil {
		return nil, cryptoDomain.ErrEncryptionKeyNotSet
	}
	if len(key.Bytes()) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	encKey, err := deriveSubKey(key.Bytes(), encryptionKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	defer cryptoDomain.Zero(encKey)

	macKey, err := deriveSubKey(key.Bytes(), macKeyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to derive mac key: %w", err)
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		cryptoDomain.Zero(macKey)
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return &cbcHMACEngine{block: block, macKey: macKey}, nil
}

// Encrypt pads plaintext with PKCS#7, encrypts it under a fresh nonce and
// appends the tag. The only failure is the random source.
func (e *cbcHMACEngine) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, cryptoDomain.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	defer cryptoDomain.Zero(padded)

	body := make([]byte, len(padded), len(padded)+cryptoDomain.TagSize)
	cipher.NewCBCEncrypter(e.block, nonce).CryptBlocks(body, padded)
	body = append(body, e.tag(nonce, body)...)

	return hex.EncodeToString(nonce) + cryptoDomain.EncodedValueSeparator + hex.EncodeToString(body), nil
}

// Decrypt parses encodedValue, checks the tag and decrypts.
//
// Structural problems (separator count, hex, nonce length) return
// ErrMalformedInput. Everything after parsing returns ErrDecryptionFailed
// without saying which check failed.
func (e *cbcHMACEngine) Decrypt(encodedValue string) ([]byte, error) {
	nonce, body, err := parseEncodedValue(encodedValue)
	if err != nil {
		return nil, err
	}

	if len(body) < aes.BlockSize+cryptoDomain.TagSize ||
		(len(body)-cryptoDomain.TagSize)%aes.BlockSize != 0 {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	ciphertext := body[:len(body)-cryptoDomain.TagSize]
	tag := body[len(body)-cryptoDomain.TagSize:]
	if !hmac.Equal(tag, e.tag(nonce, ciphertext)) {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(e.block, nonce).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		cryptoDomain.Zero(padded)
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}

func (e *cbcHMACEngine) tag(nonce, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, e.macKey)
	mac.Write(nonce)
	mac.Write(ciphertext)
	return mac.Sum(nil)
}

// parseEncodedValue splits and hex decodes both halves of an encoded value.
func parseEncodedValue(encodedValue string) (nonce, body []byte, err error) {
	parts := strings.Split(encodedValue, cryptoDomain.EncodedValueSeparator)
	if len(parts) != 2 {
		return nil, nil, cryptoDomain.ErrMalformedInput
	}

	nonce, err = hex.DecodeString(parts[0])
	if err != nil || len(nonce) != cryptoDomain.NonceSize {
		return nil, nil, cryptoDomain.ErrMalformedInput
	}

	body, err = hex.DecodeString(parts[1])
	if err != nil {
		return nil, nil, cryptoDomain.ErrMalformedInput
	}

	return nonce, body, nil
}

// deriveSubKey expands a 32 byte purpose-bound key from the process key.
func deriveSubKey(key []byte, info string) ([]byte, error) {
	out := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, key, nil, []byte(info)), out); err != nil {
		return nil, err
	}
	return out, nil
}

// pkcs7Pad always adds between 1 and blockSize bytes of padding.
func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	// Fold every padding byte comparison into one result.
	var bad byte
	for _, b := range data[len(data)-n:] {
		bad |= b ^ byte(n)
	}
	if bad != 0 {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return data[:len(data)-n], nil
}
