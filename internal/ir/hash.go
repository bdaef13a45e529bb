package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainFunction = "opal/function/v1"
	DomainModule   = "opal/module/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// FingerprintFunction computes the content-addressed fingerprint of a
// function. Functions with identical name, block structure, and
// instructions fingerprint identically; any structural change changes
// the fingerprint. Used for idempotence checks (a pass run must leave
// the fingerprint untouched) and log correlation.
func FingerprintFunction(f *Function) (string, error) {
	canonical, err := MarshalCanonical(FunctionValue(f))
	if err != nil {
		return "", fmt.Errorf("FingerprintFunction: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFunction, canonical), nil
}

// FingerprintModule computes the content-addressed fingerprint of a
// module.
func FingerprintModule(m *Module) (string, error) {
	canonical, err := MarshalCanonical(ModuleValue(m))
	if err != nil {
		return "", fmt.Errorf("FingerprintModule: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainModule, canonical), nil
}

// MustFingerprintFunction is like FingerprintFunction but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFingerprintFunction(f *Function) string {
	fp, err := FingerprintFunction(f)
	if err != nil {
		panic(err)
	}
	return fp
}

// MustFingerprintModule is like FingerprintModule but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFingerprintModule(m *Module) string {
	fp, err := FingerprintModule(m)
	if err != nil {
		panic(err)
	}
	return fp
}
