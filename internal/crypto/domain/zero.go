package domain

// Zero overwrites plaintext or key material in place once it is no longer needed.
// Callers defer it right after receiving the buffer.
func Zero(b []byte) {
	clear(b)
}
