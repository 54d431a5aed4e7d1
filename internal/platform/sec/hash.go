// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// # Credential Hashing

const (
	// hashAlgorithmTag prefixes every record produced by [Hasher.Hash].
	hashAlgorithmTag = "pbkdf2"

	// maxIterations bounds the work a crafted record can force on Verify.
	maxIterations = 10_000_000

	// maxKeyLength bounds the derived key length accepted from a record.
	maxKeyLength = 1024

	// MinSaltLength and MinKeyLength are the shortest salt and derived key, in
	// bytes, that Hash produces and Verify accepts.
	MinSaltLength = 16
	MinKeyLength  = 64
)

// Hasher derives and verifies PBKDF2-HMAC-SHA256 password records.
//
// Records are self-describing: "pbkdf2:<iterations>:<base64 salt>:<base64 key>".
// The salt and key lengths are recovered from the record itself, so records
// produced with older parameters keep verifying after the defaults change.
type Hasher struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

// DefaultHasher returns the production parameters: 100000 iterations,
// a 16-byte salt and a 64-byte derived key.
func DefaultHasher() Hasher {
	return Hasher{
		Iterations: 100_000,
		SaltLength: 16,
		KeyLength:  64,
	}
}

// Hash derives a new record for plainTextPassword using a fresh random salt.
func (hasher Hasher) Hash(plainTextPassword string) (string, error) {
	if hasher.Iterations <= 0 || hasher.Iterations > maxIterations ||
		hasher.SaltLength < MinSaltLength ||
		hasher.KeyLength < MinKeyLength || hasher.KeyLength > maxKeyLength {
		return "", fmt.Errorf("sec: hasher parameters out of range (iterations=%d salt=%d key=%d)",
			hasher.Iterations, hasher.SaltLength, hasher.KeyLength)
	}

	salt := make([]byte, hasher.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("sec: failed to generate salt: %w", err)
	}

	derivedKey := pbkdf2.Key([]byte(plainTextPassword), salt, hasher.Iterations, hasher.KeyLength, sha256.New)

	return strings.Join([]string{
		hashAlgorithmTag,
		strconv.Itoa(hasher.Iterations),
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(derivedKey),
	}, ":"), nil
}

/*
Verify reports whether plainTextPassword matches the stored record.

Description: Malformed records, unknown algorithm tags and out of range
parameters all yield false. The derived key is compared in constant time.

Parameters:
  - plainTextPassword: string
  - record: string (as produced by [Hasher.Hash])

Returns:
  - bool: true only on an exact match
*/
func (hasher Hasher) Verify(plainTextPassword, record string) (matched bool) {
	defer func() {
		if recover() != nil {
			matched = false
		}
	}()

	parsed, ok := parseRecord(record)
	if !ok {
		return false
	}

	derivedKey := pbkdf2.Key([]byte(plainTextPassword), parsed.salt, parsed.iterations, len(parsed.key), sha256.New)

	return subtle.ConstantTimeCompare(derivedKey, parsed.key) == 1
}

// NeedsRehash reports whether record was produced with weaker parameters than hasher.
// Unparseable records always need a rehash.
func (hasher Hasher) NeedsRehash(record string) bool {
	parsed, ok := parseRecord(record)
	if !ok {
		return true
	}
	return parsed.iterations < hasher.Iterations ||
		len(parsed.salt) < hasher.SaltLength ||
		len(parsed.key) < hasher.KeyLength
}

type hashRecord struct {
	iterations int
	salt       []byte
	key        []byte
}

func parseRecord(record string) (hashRecord, bool) {
	parts := strings.Split(record, ":")
	if len(parts) != 4 || parts[0] != hashAlgorithmTag {
		return hashRecord{}, false
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 || iterations > maxIterations {
		return hashRecord{}, false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil || len(salt) < MinSaltLength {
		return hashRecord{}, false
	}

	key, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(key) < MinKeyLength || len(key) > maxKeyLength {
		return hashRecord{}, false
	}

	return hashRecord{iterations: iterations, salt: salt, key: key}, true
}
