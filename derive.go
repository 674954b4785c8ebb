// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package octwallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// masterKeyDomain is the HMAC-SHA512 key that separates this network's
// master key derivation from the BIP32 ("Bitcoin seed") and SLIP-10
// ("ed25519 seed") trees.
const masterKeyDomain = "Octra seed"

// AddressPrefix starts every network address.
const AddressPrefix = "oct"

// seedLength is the BIP39 seed size consumed by master key derivation.
const seedLength = 64

// MasterKey is the root key material derived from a BIP39 seed: 32 bytes
// of private key and 32 bytes of chain code. The chain code is part of the
// derivation output and surfaces in wallet diagnostics, but the network
// uses a flat scheme; no child keys are ever derived from it.
type MasterKey struct {
	PrivateKey [32]byte
	ChainCode  [32]byte
}

// DeriveMasterKey splits HMAC-SHA512(key="Octra seed", message=seed) into
// the master private key (first half) and the chain code (second half).
// The seed must be the 64-byte BIP39 seed; any other length fails with
// ErrDerivationFailure.
func DeriveMasterKey(seed []byte) (MasterKey, error) {
	if len(seed) != seedLength {
		return MasterKey{}, fmt.Errorf("%w: seed is %d bytes, want %d", ErrDerivationFailure, len(seed), seedLength)
	}

	mac := hmac.New(sha512.New, []byte(masterKeyDomain))
	mac.Write(seed)
	sum := mac.Sum(nil)

	var mk MasterKey
	copy(mk.PrivateKey[:], sum[:32])
	copy(mk.ChainCode[:], sum[32:])
	return mk, nil
}

// Zeroize overwrites the key material in place.
func (mk *MasterKey) Zeroize() {
	for i := range mk.PrivateKey {
		mk.PrivateKey[i] = 0
	}
	for i := range mk.ChainCode {
		mk.ChainCode[i] = 0
	}
}

// KeyPair is a deterministically derived Ed25519 keypair. The externally
// visible private key is always the 32-byte seed, Base64 encoded; the
// 64-byte expanded secret key never leaves the type.
type KeyPair struct {
	seed []byte
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// KeyPairFromSeed expands a 32-byte seed into an Ed25519 keypair per
// RFC 8032. Any other seed length fails with ErrInvalidKeyLength.
func KeyPairFromSeed(seed32 []byte) (*KeyPair, error) {
	if len(seed32) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: seed is %d bytes, want %d", ErrInvalidKeyLength, len(seed32), ed25519.SeedSize)
	}

	// Keep a private copy so later writes to the caller's slice cannot
	// desynchronize the pair.
	seed := append([]byte(nil), seed32...)
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &KeyPair{seed: seed, priv: priv, pub: pub}, nil
}

// decodePrivateKey decodes the external Base64 form and gates its length.
// A 64-byte expanded key is accepted alongside the 32-byte seed form.
func decodePrivateKey(privateKeyB64 string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not valid base64: %v", ErrInvalidEncoding, err)
	}
	if len(raw) != 32 && len(raw) != 64 {
		return nil, fmt.Errorf("%w: decoded %d bytes, want 32 or 64", ErrInvalidKeyLength, len(raw))
	}
	return raw, nil
}

// ValidatePrivateKey checks that privateKeyB64 is standard Base64 decoding
// to exactly 32 or 64 bytes. A decode failure returns ErrInvalidEncoding,
// a wrong length ErrInvalidKeyLength. Only the shape is checked; signing
// always goes through the 32-byte seed path.
func ValidatePrivateKey(privateKeyB64 string) error {
	_, err := decodePrivateKey(privateKeyB64)
	return err
}

// KeyPairFromBase64 validates a Base64 private key and derives its
// keypair. A 64-byte expanded key contributes only its first 32 bytes, the
// seed half. Validation failures are wrapped in ErrInvalidPrivateKey.
func KeyPairFromBase64(privateKeyB64 string) (*KeyPair, error) {
	raw, err := decodePrivateKey(privateKeyB64)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}
	return KeyPairFromSeed(raw[:ed25519.SeedSize])
}

// Seed returns a copy of the 32-byte Ed25519 seed.
func (kp *KeyPair) Seed() []byte {
	return append([]byte(nil), kp.seed...)
}

// PublicKey returns a copy of the 32-byte public key.
func (kp *KeyPair) PublicKey() ed25519.PublicKey {
	return append(ed25519.PublicKey(nil), kp.pub...)
}

// PrivateKeyB64 returns the external form of the private key: the 32-byte
// seed, Base64 encoded.
func (kp *KeyPair) PrivateKeyB64() string {
	return base64.StdEncoding.EncodeToString(kp.seed)
}

// PublicKeyB64 returns the Base64 public key carried in signed payloads.
func (kp *KeyPair) PublicKeyB64() string {
	return base64.StdEncoding.EncodeToString(kp.pub)
}

// Address returns the network address of the keypair's public key.
func (kp *KeyPair) Address() string {
	return addressFromPublicKey(kp.pub)
}

// Sign produces a detached Ed25519 signature over message.
func (kp *KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(kp.priv, message)
}

// Zeroize overwrites the retained key material. The keypair must not be
// used afterwards.
func (kp *KeyPair) Zeroize() {
	zeroBytes(kp.seed)
	zeroBytes(kp.priv)
	kp.seed = nil
	kp.priv = nil
	kp.pub = nil
}

// addressFromPublicKey hashes the public key with SHA256 and encodes the
// digest with Base58 behind the network prefix.
func addressFromPublicKey(pub ed25519.PublicKey) string {
	digest := sha256.Sum256(pub)
	return AddressPrefix + base58.Encode(digest[:])
}

// DeriveAddress derives the network address for a Base64 private key:
// "oct" + Base58(SHA256(publicKey)).
func DeriveAddress(privateKeyB64 string) (string, error) {
	kp, err := KeyPairFromBase64(privateKeyB64)
	if err != nil {
		return "", err
	}
	return kp.Address(), nil
}

// ValidateAddress reports whether address is a well-formed network
// address: the literal "oct" prefix followed by a Base58 encoding of
// exactly 32 bytes. It is a pure predicate meant for checking arbitrary
// user input and never returns an error.
func ValidateAddress(address string) bool {
	rest, ok := strings.CutPrefix(address, AddressPrefix)
	if !ok || rest == "" {
		return false
	}
	raw, err := base58.Decode(rest)
	return err == nil && len(raw) == sha256.Size
}

// zeroBytes overwrites b with zeros.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
