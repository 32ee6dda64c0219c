// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides participant credential hashing and verification.

# Credentials

A participant's first ballot claims their name with a password. The
password is stored as a PBKDF2-SHA256 digest:

	pbkdf2$<iterations>$<salt-hex>$<digest-hex>

New hashes use 120000 iterations, a random 16-byte salt and a 32-byte
key:

	cred, err := auth.Hash(secret)
	stored := cred.Encode()

# Verification

Verify checks a candidate against a stored value and reports whether
the row should be rewritten:

	match, shouldUpgrade := auth.Verify(candidate, stored)

Stored values without the pbkdf2$ prefix are treated as legacy
plaintext and compared in constant time; a match asks the caller to
upgrade the row to the hashed form. Malformed hashed values never
match.
*/
package auth
