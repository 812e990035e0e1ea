package app

import (
	"context"
	"fmt"

	auditService "github.com/allisson/secretgate/internal/audit/service"
	cryptoDomain "github.com/allisson/secretgate/internal/crypto/domain"
	cryptoService "github.com/allisson/secretgate/internal/crypto/service"
)

type cryptoComponents struct {
	kmsService     lazy[cryptoService.KMSService]
	keyLoader      lazy[*cryptoService.KeyLoader]
	encryptionKey  lazy[*cryptoDomain.EncryptionKey]
	previousKey    lazy[*cryptoDomain.EncryptionKey]
	cipherEngine   lazy[cryptoService.CipherEngine]
	previousCipher lazy[cryptoService.CipherEngine]
	auditSigner    lazy[auditService.AuditSigner]
}

// KMSService returns the gocloud.dev keeper opener.
func (c *Container) KMSService() cryptoService.KMSService {
	kms, _ := c.kmsService.get(func() (cryptoService.KMSService, error) {
		return cryptoService.NewKMSService(), nil
	})
	return kms
}

// KeyLoader returns the loader for SECRET_KEY style values.
func (c *Container) KeyLoader() *cryptoService.KeyLoader {
	loader, _ := c.keyLoader.get(func() (*cryptoService.KeyLoader, error) {
		return cryptoService.NewKeyLoader(c.KMSService(), c.config.KMSKeyURI), nil
	})
	return loader
}

// EncryptionKey returns the active process key. It fails with
// ErrEncryptionKeyNotSet when SECRET_KEY is empty.
func (c *Container) EncryptionKey() (*cryptoDomain.EncryptionKey, error) {
	return c.encryptionKey.get(func() (*cryptoDomain.EncryptionKey, error) {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		key, err := c.KeyLoader().Load(ctx, c.config.SecretKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load SECRET_KEY: %w", err)
		}
		return key, nil
	})
}

// PreviousEncryptionKey returns the key being rotated out, or nil when
// PREVIOUS_SECRET_KEY is empty.
func (c *Container) PreviousEncryptionKey() (*cryptoDomain.EncryptionKey, error) {
	return c.previousKey.get(func() (*cryptoDomain.EncryptionKey, error) {
		if c.config.PreviousSecretKey == "" {
			return nil, nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		key, err := c.KeyLoader().Load(ctx, c.config.PreviousSecretKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load PREVIOUS_SECRET_KEY: %w", err)
		}
		return key, nil
	})
}

// CipherEngine returns the engine bound to the active key.
func (c *Container) CipherEngine() (cryptoService.CipherEngine, error) {
	return c.cipherEngine.get(func() (cryptoService.CipherEngine, error) {
		key, err := c.EncryptionKey()
		if err != nil {
			return nil, err
		}
		return cryptoService.NewCipherEngine(key)
	})
}

// PreviousCipherEngine returns the engine bound to the previous key, or nil
// when no previous key is configured.
func (c *Container) PreviousCipherEngine() (cryptoService.CipherEngine, error) {
	return c.previousCipher.get(func() (cryptoService.CipherEngine, error) {
		key, err := c.PreviousEncryptionKey()
		if err != nil || key == nil {
			return nil, err
		}
		return cryptoService.NewCipherEngine(key)
	})
}

// AuditSigner returns the signer keyed from the active process key.
func (c *Container) AuditSigner() (auditService.AuditSigner, error) {
	return c.auditSigner.get(func() (auditService.AuditSigner, error) {
		key, err := c.EncryptionKey()
		if err != nil {
			return nil, err
		}
		return auditService.NewAuditSigner(key)
	})
}

// closeKeys zeroes whichever keys were loaded.
func (c *Container) closeKeys() {
	if key, ok := c.encryptionKey.peek(); ok && key != nil {
		key.Close()
	}
	if key, ok := c.previousKey.peek(); ok && key != nil {
		key.Close()
	}
}
