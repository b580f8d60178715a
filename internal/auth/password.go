// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth provides password hashing and the owner authorization
// predicate.
//
// Password hashes use PBKDF2-HMAC-SHA256 in the werkzeug text format
// "pbkdf2:sha256:<iterations>$<salt>$<hex digest>", so accounts created by
// earlier deployments of the blog keep working.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters
const (
	DefaultIterations = 600000
	DefaultSaltLength = 16
	// legacyIterations applies to hashes that omit the iteration count.
	legacyIterations = 260000

	methodPrefix = "pbkdf2:sha256"
	saltChars    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Hasher creates and verifies PBKDF2 password hashes.
type Hasher struct {
	Iterations int
	SaltLength int
}

// DefaultHasher is the hasher used in production.
var DefaultHasher = Hasher{Iterations: DefaultIterations, SaltLength: DefaultSaltLength}

// Hash creates a salted hash of password.
func (h Hasher) Hash(password string) (string, error) {
	salt, err := genSalt(h.SaltLength)
	if err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	digest := pbkdf2.Key([]byte(password), []byte(salt), h.Iterations, sha256.Size, sha256.New)

	return fmt.Sprintf("%s:%d$%s$%s", methodPrefix, h.Iterations, salt, hex.EncodeToString(digest)), nil
}

// Verify checks password against an encoded hash using a constant-time
// comparison. Hashes with any iteration count are accepted.
func (h Hasher) Verify(password, encodedHash string) (bool, error) {
	iterations, salt, expected, err := parseHash(encodedHash)
	if err != nil {
		return false, err
	}

	digest := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(digest, expected) == 1, nil
}

// NeedsRehash reports whether encodedHash was made with weaker parameters
// than h and should be re-created at the next successful login.
func (h Hasher) NeedsRehash(encodedHash string) bool {
	iterations, salt, _, err := parseHash(encodedHash)
	if err != nil {
		return true
	}
	return iterations < h.Iterations || len(salt) < h.SaltLength
}

func parseHash(encodedHash string) (iterations int, salt string, digest []byte, err error) {
	parts := strings.SplitN(encodedHash, "$", 3)
	if len(parts) != 3 {
		return 0, "", nil, fmt.Errorf("invalid hash format")
	}

	method, salt, hexDigest := parts[0], parts[1], parts[2]
	if method != methodPrefix && !strings.HasPrefix(method, methodPrefix+":") {
		return 0, "", nil, fmt.Errorf("unsupported hash method: %s", method)
	}

	iterations = legacyIterations
	if rest, ok := strings.CutPrefix(method, methodPrefix+":"); ok {
		iterations, err = strconv.Atoi(rest)
		if err != nil || iterations < 1 {
			return 0, "", nil, fmt.Errorf("invalid iteration count: %q", rest)
		}
	}

	digest, err = hex.DecodeString(hexDigest)
	if err != nil {
		return 0, "", nil, fmt.Errorf("decoding hash: %w", err)
	}
	if len(digest) == 0 {
		return 0, "", nil, fmt.Errorf("empty hash")
	}

	return iterations, salt, digest, nil
}

func genSalt(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("salt length must be positive")
	}

	limit := big.NewInt(int64(len(saltChars)))
	var b strings.Builder
	b.Grow(length)
	for range length {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltChars[n.Int64()])
	}
	return b.String(), nil
}
