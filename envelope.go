// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package octwallet

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// balanceKeyDomain prefixes the private key seed before hashing into
	// the symmetric key, tying every envelope to this scheme version.
	balanceKeyDomain = "octra_encrypted_balance_v2"

	// envelopePrefix tags the serialized envelope with its scheme version.
	envelopePrefix = "v2|"

	// envelopeNonceSize is the secretbox nonce size in bytes.
	envelopeNonceSize = 24

	// envelopeKeySize is the secretbox key size in bytes.
	envelopeKeySize = 32
)

// DeriveEncryptionKey derives the symmetric key an account encrypts its
// balance under: SHA256 over the version domain followed by the raw
// private key seed. The digest is exactly the secretbox key size.
func DeriveEncryptionKey(privateKeySeed []byte) [envelopeKeySize]byte {
	h := sha256.New()
	h.Write([]byte(balanceKeyDomain))
	h.Write(privateKeySeed)

	var key [envelopeKeySize]byte
	copy(key[:], h.Sum(nil))
	return key
}

// EncryptBalance seals the decimal string of a raw micro-unit balance into
// a versioned envelope: "v2|" + Base64(nonce || ciphertext), with a fresh
// random nonce on every call. Envelopes are never persisted; the client
// rebuilds one from its tracked raw balance for each request. Decryption
// of incoming envelopes is the server's side of the protocol, so the
// package offers no counterpart. A cipher that produces no ciphertext
// fails with ErrEncryptionFailure.
func EncryptBalance(balance uint64, privateKeySeed []byte) (string, error) {
	key := DeriveEncryptionKey(privateKeySeed)

	var nonce [envelopeNonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("could not generate an envelope nonce: %w", err)
	}

	plaintext := []byte(strconv.FormatUint(balance, 10))
	sealed := make([]byte, envelopeNonceSize)
	copy(sealed, nonce[:])
	sealed = secretbox.Seal(sealed, plaintext, &nonce, &key)
	if len(sealed) <= envelopeNonceSize {
		return "", ErrEncryptionFailure
	}

	return envelopePrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// EncryptBalance seals balance under the wallet's own encryption key.
func (w *Wallet) EncryptBalance(balance uint64) (string, error) {
	return EncryptBalance(balance, w.keyPair.seed)
}
