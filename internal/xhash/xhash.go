// Package xhash provides the hashing primitives every other package in the
// match core relies on for commitment and equivalence checks: SHA-256 over
// raw bytes, seed commit/verify, and canonical (key-sorted) JSON hashing of
// arbitrary observation/state values.
package xhash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// SHA256Hex returns the lowercase hex-encoded SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Commit returns the commitment for seed: the hex SHA-256 of its UTF-8 bytes.
func Commit(seed string) string {
	return SHA256Hex([]byte(seed))
}

// Verify reports whether seed matches a previously published commitment,
// using a constant-time comparison of the hex digests.
func Verify(seed, commitment string) bool {
	got := Commit(seed)
	if len(got) != len(commitment) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(commitment)) == 1
}

// CanonicalBytes encodes value as JSON with recursively key-sorted objects
// and no insignificant whitespace. This is the reference encoding for
// structural equality and observation hashing throughout the core.
func CanonicalBytes(value any) ([]byte, error) {
	// Round-trip through json.Marshal/Unmarshal so struct values (with their
	// json tags) and already-generic map[string]any values normalize to the
	// same tree of interface{} before the sorted walk.
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("xhash: marshal value: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("xhash: unmarshal for canonicalization: %w", err)
	}
	var buf []byte
	buf, err = appendCanonical(buf, generic)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// CanonicalHash returns the SHA-256 hex digest of value's canonical encoding.
// Two values are considered equal by the core iff their canonical hashes
// match.
func CanonicalHash(value any) (string, error) {
	b, err := CanonicalBytes(value)
	if err != nil {
		return "", err
	}
	return SHA256Hex(b), nil
}

func appendCanonical(buf []byte, v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return append(buf, "null"...), nil
	case bool:
		if val {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case float64:
		enc, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return append(buf, enc...), nil
	case string:
		enc, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return append(buf, enc...), nil
	case []any:
		buf = append(buf, '[')
		for i, item := range val {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			buf, err = appendCanonical(buf, item)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf = append(buf, '{')
		for i, k := range keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			keyEnc, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, keyEnc...)
			buf = append(buf, ':')
			buf, err = appendCanonical(buf, val[k])
			if err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	default:
		return nil, fmt.Errorf("xhash: unsupported canonical value type %T", v)
	}
}
