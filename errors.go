// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package octwallet

import "errors"

// Sentinel errors returned by the derivation, validation, signing, and
// encryption functions. Call sites wrap them with fmt.Errorf and %w so the
// failure detail travels with the sentinel; callers match with errors.Is.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidMnemonic   = errors.New("invalid mnemonic")
	ErrInvalidKeyLength  = errors.New("invalid key length")
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidEncoding   = errors.New("invalid encoding")
	ErrEncryptionFailure = errors.New("encryption produced no ciphertext")
	ErrDerivationFailure = errors.New("key derivation failed")
)
