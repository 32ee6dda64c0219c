// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashScheme = "pbkdf2"
	// Iteration count for newly hashed credentials.
	HashIterations = 120000
	saltLen        = 16
	keyLen         = 32
)

var ErrMalformedCredential = errors.New("malformed hashed credential")

// Credential is a stored participant credential in one of two forms: a
// legacy plaintext value, or a salted iterated PBKDF2-SHA256 digest.
type Credential struct {
	Plaintext  string
	Salt       []byte
	Iterations int
	Digest     []byte
}

// Hashed reports whether the credential is stored in hashed form.
func (c Credential) Hashed() bool {
	return len(c.Digest) > 0
}

// Encode serializes the credential to its storage representation:
// "pbkdf2$<iterations>$<salt-hex>$<digest-hex>" for hashed credentials,
// the raw value for plaintext ones.
func (c Credential) Encode() string {
	if !c.Hashed() {
		return c.Plaintext
	}
	return strings.Join([]string{
		hashScheme,
		strconv.Itoa(c.Iterations),
		hex.EncodeToString(c.Salt),
		hex.EncodeToString(c.Digest),
	}, "$")
}

// Parse reads a stored credential. Values that carry the pbkdf2 prefix but
// fail to decode are rejected rather than silently compared as plaintext.
func Parse(stored string) (Credential, error) {
	if !strings.HasPrefix(stored, hashScheme+"$") {
		return Credential{Plaintext: stored}, nil
	}
	parts := strings.Split(stored, "$")
	if len(parts) != 4 {
		return Credential{}, ErrMalformedCredential
	}
	iters, err := strconv.Atoi(parts[1])
	if err != nil || iters <= 0 {
		return Credential{}, ErrMalformedCredential
	}
	salt, err := hex.DecodeString(parts[2])
	if err != nil {
		return Credential{}, ErrMalformedCredential
	}
	digest, err := hex.DecodeString(parts[3])
	if err != nil || len(digest) == 0 {
		return Credential{}, ErrMalformedCredential
	}
	return Credential{Salt: salt, Iterations: iters, Digest: digest}, nil
}

// Hash derives a fresh hashed credential from a secret.
func Hash(secret string) (Credential, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return Credential{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	digest := pbkdf2.Key([]byte(secret), salt, HashIterations, keyLen, sha256.New)
	return Credential{Salt: salt, Iterations: HashIterations, Digest: digest}, nil
}

// Verify compares a candidate secret against a stored credential.
// shouldUpgrade is true exactly when a plaintext credential matched: the
// caller is expected to rehash and persist the upgraded form. Hashed
// credentials verify by recomputation and never request an upgrade.
// Both paths use constant-time comparison.
func Verify(candidate, stored string) (match bool, shouldUpgrade bool) {
	cred, err := Parse(stored)
	if err != nil {
		return false, false
	}
	if !cred.Hashed() {
		match = subtle.ConstantTimeCompare([]byte(candidate), []byte(cred.Plaintext)) == 1
		return match, match
	}
	derived := pbkdf2.Key([]byte(candidate), cred.Salt, cred.Iterations, len(cred.Digest), sha256.New)
	return subtle.ConstantTimeCompare(derived, cred.Digest) == 1, false
}
