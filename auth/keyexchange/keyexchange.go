// Package keyexchange owns the process-wide RSA keypair used to keep
// client secrets confidential in transit. Clients fetch the public key,
// encrypt the password with PKCS#1 v1.5 padding, and send the base64
// ciphertext; the server decrypts with the private key.
//
// The keypair lives behind an atomic pointer: reads are lock-free and
// rotation is a single-writer swap, so an in-flight decryption uses
// either the pre- or post-rotation key entirely, never a mix.
// Ciphertext produced against a rotated-away public key fails with
// ErrDecrypt like any other bad ciphertext; callers re-fetch the key.
package keyexchange

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"sync/atomic"
)

// DefaultBits is the modulus size used when none is configured.
const DefaultBits = 2048

// ErrDecrypt is returned for every decryption failure: bad base64, wrong
// key, damaged padding. Decryption either fully succeeds or fails with
// this single opaque error.
var ErrDecrypt = errors.New("keyexchange: decryption failed")

// Service holds the current keypair and performs the asymmetric half of
// the credential exchange.
type Service struct {
	bits int
	key  atomic.Pointer[rsa.PrivateKey]
}

// Option configures the Service.
type Option func(*Service)

// WithBits sets the RSA modulus size. Values below 2048 are ignored.
func WithBits(bits int) Option {
	return func(s *Service) {
		if bits >= 2048 {
			s.bits = bits
		}
	}
}

// New generates the initial keypair. A generation failure here is fatal
// for the process: the server must not start without a usable keypair.
func New(opts ...Option) (*Service, error) {
	s := &Service{bits: DefaultBits}
	for _, opt := range opts {
		opt(s)
	}
	key, err := rsa.GenerateKey(rand.Reader, s.bits)
	if err != nil {
		return nil, fmt.Errorf("keyexchange: generate keypair: %w", err)
	}
	s.key.Store(key)
	return s, nil
}

// PublicKey returns the current public key as base64 of its PKIX (SPKI)
// DER encoding, the form browser crypto libraries import directly.
func (s *Service) PublicKey() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(&s.key.Load().PublicKey)
	if err != nil {
		return "", fmt.Errorf("keyexchange: encode public key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(der), nil
}

// Decrypt decodes base64 ciphertext and decrypts it with the current
// private key using PKCS#1 v1.5 padding.
func (s *Service) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecrypt
	}
	plaintext, err := rsa.DecryptPKCS1v15(rand.Reader, s.key.Load(), raw)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}

// Encrypt encrypts plaintext against the current public key and returns
// base64 ciphertext. Servers never need this in production; it exists
// for clients, tooling, and the round-trip tests.
func (s *Service) Encrypt(plaintext string) (string, error) {
	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, &s.key.Load().PublicKey, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("keyexchange: encrypt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Rotate generates a fresh keypair and atomically publishes it.
// Subsequent calls see the new key; in-flight decryptions finish on the
// old one. On generation failure the old keypair stays in place.
func (s *Service) Rotate() error {
	key, err := rsa.GenerateKey(rand.Reader, s.bits)
	if err != nil {
		return fmt.Errorf("keyexchange: rotate keypair: %w", err)
	}
	s.key.Store(key)
	return nil
}
