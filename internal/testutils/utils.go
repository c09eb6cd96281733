// Package testutils provides small hex-conversion helpers shared by the
// JSON test vectors in internal/vectors and the package-level _test.go
// files. Adapted from the teacher library's internal/testutils: the
// generic hex/bytes helpers are kept as-is, while the *big.Int tree-index
// helpers (HexToBigInt / BigIntToHex) are dropped since this domain's keys
// and values are fixed 32-byte quantities (csal.KeyFromHex / ValueFromHex
// cover that conversion directly).
package testutils

import (
	"encoding/hex"
	"strings"

	"github.com/nervosnetwork/csal"
)

// HexToBytes converts a hex string to bytes, tolerating an optional 0x
// prefix and an odd digit count (left-padded with a zero nibble).
func HexToBytes(hexStr string) ([]byte, error) {
	hexStr = strings.TrimPrefix(hexStr, "0x")
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}
	return hex.DecodeString(hexStr)
}

// BytesToHex converts bytes to a 0x-prefixed hex string.
func BytesToHex(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}

// PadHexTo32Bytes left-pads a hex string to 64 hex digits (32 bytes).
func PadHexTo32Bytes(hexStr string) string {
	hexStr = strings.TrimPrefix(hexStr, "0x")
	for len(hexStr) < 64 {
		hexStr = "0" + hexStr
	}
	return "0x" + hexStr
}

// IsZeroHash reports whether hexStr encodes an all-zero value.
func IsZeroHash(hexStr string) bool {
	hexStr = strings.TrimPrefix(hexStr, "0x")
	for _, c := range hexStr {
		if c != '0' {
			return false
		}
	}
	return true
}

// CompareHexStrings compares two hex strings for numeric equality,
// tolerating case, prefix, and leading-zero differences.
func CompareHexStrings(hex1, hex2 string) bool {
	hex1 = strings.TrimPrefix(strings.ToLower(hex1), "0x")
	hex2 = strings.TrimPrefix(strings.ToLower(hex2), "0x")
	hex1 = strings.TrimLeft(hex1, "0")
	hex2 = strings.TrimLeft(hex2, "0")
	if hex1 == "" {
		hex1 = "0"
	}
	if hex2 == "" {
		hex2 = "0"
	}
	return hex1 == hex2
}

// MustKey parses a hex string into a csal.Key, panicking on malformed
// input. Intended for test fixtures where the hex literal is known good.
func MustKey(hexStr string) csal.Key {
	k, err := csal.KeyFromHex(hexStr)
	if err != nil {
		panic(err)
	}
	return k
}

// MustValue parses a hex string into a csal.Value, panicking on malformed
// input.
func MustValue(hexStr string) csal.Value {
	v, err := csal.ValueFromHex(hexStr)
	if err != nil {
		panic(err)
	}
	return v
}

// MustDigest parses a hex string into a csal.Digest, panicking on malformed
// input.
func MustDigest(hexStr string) csal.Digest {
	b, err := HexToBytes(hexStr)
	if err != nil {
		panic(err)
	}
	var d csal.Digest
	copy(d[:], b)
	return d
}
