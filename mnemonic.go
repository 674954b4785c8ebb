// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package octwallet

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// GenerateEntropy returns strengthBits/8 bytes of cryptographically secure
// random entropy for a new wallet. Valid strengths are 128, 160, 192, 224,
// and 256 bits; any other value fails with ErrInvalidArgument.
func GenerateEntropy(strengthBits int) ([]byte, error) {
	switch strengthBits {
	case 128, 160, 192, 224, 256:
	default:
		return nil, fmt.Errorf("%w: entropy strength %d, want 128, 160, 192, 224, or 256", ErrInvalidArgument, strengthBits)
	}
	entropy, err := bip39.NewEntropy(strengthBits)
	if err != nil {
		return nil, fmt.Errorf("could not generate entropy: %w", err)
	}
	return entropy, nil
}

// EntropyToMnemonic encodes an entropy buffer as a BIP39 mnemonic phrase
// using the active wordlist. The mapping is deterministic and
// MnemonicToEntropy inverts it exactly. 128-bit entropy yields 12 words,
// 256-bit yields 24.
func EntropyToMnemonic(entropy []byte) (string, error) {
	words, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("could not create a mnemonic set of words: %w", err)
	}
	return words, nil
}

// MnemonicToEntropy recovers the entropy a mnemonic phrase encodes,
// verifying the word count and checksum. A phrase that fails validation
// returns ErrInvalidMnemonic.
func MnemonicToEntropy(phrase string) ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(phrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return entropy, nil
}

// ValidateMnemonic reports whether phrase has a valid word count and
// checksum under the active wordlist. It is a pure predicate; use
// MnemonicToEntropy to learn why a phrase is rejected.
func ValidateMnemonic(phrase string) bool {
	return bip39.IsMnemonicValid(phrase)
}

// MnemonicToSeed derives the 64-byte BIP39 seed for a phrase:
// PBKDF2-HMAC-SHA512 over the phrase with salt "mnemonic"+phrase and 2048
// rounds, no passphrase. The checksum is verified first; a failing phrase
// returns ErrInvalidMnemonic.
func MnemonicToSeed(phrase string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(phrase, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return seed, nil
}
