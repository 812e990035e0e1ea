package domain

const (
	// KeySize is the required length in bytes of the process encryption key (AES-256).
	KeySize = 32

	// NonceSize is the length in bytes of the CBC initialization vector stored with every value.
	NonceSize = 16

	// TagSize is the length in bytes of the HMAC-SHA256 tag appended to the ciphertext.
	TagSize = 32

	// EncodedValueSeparator splits the nonce half from the ciphertext half of an encoded value.
	EncodedValueSeparator = ":"
)
