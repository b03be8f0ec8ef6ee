/*
Package crypto implements symmetric encryption of message content.

Message content is encrypted before it is persisted and decrypted again at the
edges: outbound real-time pushes and history retrieval. The codec is stateless
and safe for concurrent use; every process sharing the same secret key can
read the same stored content.
*/
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	nonceSize = chacha20poly1305.NonceSize

	// tagSize is the Poly1305 authentication tag length appended by Seal.
	tagSize = 16

	// minCiphertextLen is the smallest possible wire payload: nonce + tag
	// (empty plaintext).
	minCiphertextLen = nonceSize + tagSize
)

// DecodeError reports that a ciphertext could not be decrypted: it was not
// produced by Encrypt, was corrupted in storage, or was written under a
// different secret key.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("message content cannot be decoded: %s", e.Reason)
}

// Codec encrypts and decrypts message content with a process-wide secret key.
type Codec struct {
	key []byte
}

// NewCodec derives a 256-bit ChaCha20-Poly1305 key from the configured secret
// and verifies it with an encrypt/decrypt round-trip. A failing round-trip
// means no stored content could ever be read, so the error must abort startup.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("message secret key must not be empty")
	}

	sum := sha256.Sum256([]byte(secret))
	c := &Codec{key: sum[:]}

	ciphertext, err := c.Encrypt("self-check")
	if err != nil {
		return nil, fmt.Errorf("message codec self-check failed: %w", err)
	}
	plaintext, err := c.Decrypt(ciphertext)
	if err != nil || plaintext != "self-check" {
		return nil, fmt.Errorf("message codec self-check round-trip failed: %v", err)
	}

	return c, nil
}

// Encrypt seals the plaintext and returns the base64-encoded wire format:
// nonce[12] + ciphertext[N+16]. Any string round-trips, including the empty
// string and strings containing delimiter or non-ASCII characters.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := aead.Seal(nil, nonce, []byte(plaintext), nil)

	wire := make([]byte, 0, nonceSize+len(ciphertext))
	wire = append(wire, nonce...)
	wire = append(wire, ciphertext...)

	return base64.StdEncoding.EncodeToString(wire), nil
}

// Decrypt reverses Encrypt. It returns a *DecodeError when the input was not
// produced by Encrypt, so callers can skip the affected message instead of
// failing an entire batch.
func (c *Codec) Decrypt(encoded string) (string, error) {
	wire, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &DecodeError{Reason: fmt.Sprintf("invalid base64: %v", err)}
	}

	if len(wire) < minCiphertextLen {
		return "", &DecodeError{Reason: fmt.Sprintf("ciphertext too short: %d bytes, minimum %d", len(wire), minCiphertextLen)}
	}

	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return "", err
	}

	nonce := wire[:nonceSize]
	ciphertext := wire[nonceSize:]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", &DecodeError{Reason: "wrong key or tampered ciphertext"}
	}

	return string(plaintext), nil
}
