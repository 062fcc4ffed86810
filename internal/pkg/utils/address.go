package utils

import (
	"strings"

	"wallet_dashboard/internal/domain/entity"
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ValidateAddress checks that addr looks like a base58 ledger address.
// This is a format check only; existence on chain is the provider's problem.
func ValidateAddress(addr string) error {
	if len(addr) < 32 || len(addr) > 44 {
		return &entity.InvalidAddressError{Address: addr}
	}
	for _, r := range addr {
		if !strings.ContainsRune(base58Alphabet, r) {
			return &entity.InvalidAddressError{Address: addr}
		}
	}
	return nil
}

// ShortenAddress renders an address as "abcd...wxyz" for display.
func ShortenAddress(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:4] + "..." + addr[len(addr)-4:]
}

// Prefix returns the first n characters of s, or s itself when shorter.
func Prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
