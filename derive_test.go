// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package octwallet

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
)

// TestDeriveMasterKey_KnownVector pins both HMAC-SHA512 halves for the
// fixture seed.
func TestDeriveMasterKey_KnownVector(t *testing.T) {
	is := is.New(t)

	seed, err := hex.DecodeString(testSeedHex)
	is.NoErr(err)

	mk, err := DeriveMasterKey(seed)
	is.NoErr(err)
	is.Equal(hex.EncodeToString(mk.PrivateKey[:]), testMasterHex)
	is.Equal(hex.EncodeToString(mk.ChainCode[:]), testChainCodeHex)
}

// TestDeriveMasterKey_Deterministic verifies byte-identical output across
// repeated calls.
func TestDeriveMasterKey_Deterministic(t *testing.T) {
	is := is.New(t)

	seed := make([]byte, 64)
	_, err := rand.Read(seed)
	is.NoErr(err)

	first, err := DeriveMasterKey(seed)
	is.NoErr(err)
	second, err := DeriveMasterKey(seed)
	is.NoErr(err)
	is.Equal(first, second)
}

// TestDeriveMasterKey_RejectsBadSeedLength verifies only the 64-byte BIP39
// seed is accepted.
func TestDeriveMasterKey_RejectsBadSeedLength(t *testing.T) {
	is := is.New(t)

	for _, n := range []int{0, 32, 63, 65, 128} {
		_, err := DeriveMasterKey(make([]byte, n))
		is.True(errors.Is(err, ErrDerivationFailure))
	}
}

// TestKeyPairFromSeed_KnownVector pins the RFC 8032 expansion of the
// fixture master key.
func TestKeyPairFromSeed_KnownVector(t *testing.T) {
	is := is.New(t)

	seed, err := hex.DecodeString(testMasterHex)
	is.NoErr(err)

	kp, err := KeyPairFromSeed(seed)
	is.NoErr(err)
	is.Equal(hex.EncodeToString(kp.PublicKey()), testPublicKeyHex)
	is.Equal(kp.PrivateKeyB64(), testPrivateB64)
	is.Equal(kp.PublicKeyB64(), testPublicB64)
	is.Equal(kp.Address(), testAddress)
}

// TestKeyPairFromSeed_Deterministic verifies repeated expansion agrees and
// the keypair copies rather than aliases the caller's seed.
func TestKeyPairFromSeed_Deterministic(t *testing.T) {
	is := is.New(t)

	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	is.NoErr(err)

	first, err := KeyPairFromSeed(seed)
	is.NoErr(err)
	second, err := KeyPairFromSeed(seed)
	is.NoErr(err)
	is.True(bytes.Equal(first.PublicKey(), second.PublicKey()))

	// Scribbling on the input must not reach inside the keypair.
	seed[0] ^= 0xff
	is.True(bytes.Equal(first.Seed(), second.Seed()))
}

// TestKeyPairFromSeed_RejectsBadLength verifies the 32-byte gate.
func TestKeyPairFromSeed_RejectsBadLength(t *testing.T) {
	is := is.New(t)

	for _, n := range []int{0, 31, 33, 64} {
		_, err := KeyPairFromSeed(make([]byte, n))
		is.True(errors.Is(err, ErrInvalidKeyLength))
	}
}

// TestValidatePrivateKey_LengthGate accepts exactly 32- and 64-byte
// decodes and rejects the neighbors.
func TestValidatePrivateKey_LengthGate(t *testing.T) {
	is := is.New(t)

	is.NoErr(ValidatePrivateKey(base64.StdEncoding.EncodeToString(make([]byte, 32))))
	is.NoErr(ValidatePrivateKey(base64.StdEncoding.EncodeToString(make([]byte, 64))))

	for _, n := range []int{0, 1, 31, 33, 63, 65} {
		err := ValidatePrivateKey(base64.StdEncoding.EncodeToString(make([]byte, n)))
		is.True(errors.Is(err, ErrInvalidKeyLength))
	}
}

// TestValidatePrivateKey_RejectsBadBase64 surfaces decode failures as
// ErrInvalidEncoding.
func TestValidatePrivateKey_RejectsBadBase64(t *testing.T) {
	is := is.New(t)

	for _, s := range []string{"!!!", "not base64", "bWlR/4DBv+fuo5Blvc1COHvSXUJ30hv6e2+eI8jgnB"} {
		err := ValidatePrivateKey(s)
		is.True(errors.Is(err, ErrInvalidEncoding))
	}
}

// TestKeyPairFromBase64_AcceptsExpandedForm verifies a 64-byte expanded
// secret key lands on the same account as its 32-byte seed.
func TestKeyPairFromBase64_AcceptsExpandedForm(t *testing.T) {
	is := is.New(t)

	seed, err := hex.DecodeString(testMasterHex)
	is.NoErr(err)
	expanded := ed25519.NewKeyFromSeed(seed)

	kp, err := KeyPairFromBase64(base64.StdEncoding.EncodeToString(expanded))
	is.NoErr(err)
	is.Equal(kp.Address(), testAddress)
	// The external form stays the 32-byte seed even for a 64-byte input.
	is.Equal(kp.PrivateKeyB64(), testPrivateB64)
}

// TestKeyPairFromBase64_WrapsValidation verifies validation failures carry
// both ErrInvalidPrivateKey and the underlying cause.
func TestKeyPairFromBase64_WrapsValidation(t *testing.T) {
	is := is.New(t)

	_, err := KeyPairFromBase64(base64.StdEncoding.EncodeToString(make([]byte, 33)))
	is.True(errors.Is(err, ErrInvalidPrivateKey))
	is.True(errors.Is(err, ErrInvalidKeyLength))

	_, err = KeyPairFromBase64("!!!")
	is.True(errors.Is(err, ErrInvalidPrivateKey))
	is.True(errors.Is(err, ErrInvalidEncoding))
}

// TestDeriveAddress_KnownVector pins the address scheme for the fixture
// key.
func TestDeriveAddress_KnownVector(t *testing.T) {
	is := is.New(t)

	addr, err := DeriveAddress(testPrivateB64)
	is.NoErr(err)
	is.Equal(addr, testAddress)
}

// TestDeriveAddress_StableAndValid verifies addresses re-derive
// identically and always pass validation.
func TestDeriveAddress_StableAndValid(t *testing.T) {
	is := is.New(t)

	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	is.NoErr(err)
	b64 := base64.StdEncoding.EncodeToString(seed)

	first, err := DeriveAddress(b64)
	is.NoErr(err)
	second, err := DeriveAddress(b64)
	is.NoErr(err)

	is.Equal(first, second)
	is.True(strings.HasPrefix(first, AddressPrefix))
	is.True(ValidateAddress(first))
}

// TestValidateAddress covers the predicate's accept and reject paths; it
// must never panic or error on arbitrary input.
func TestValidateAddress(t *testing.T) {
	is := is.New(t)

	is.True(ValidateAddress(testAddress))
	is.True(ValidateAddress(recipientAddress))

	is.True(!ValidateAddress(""))
	is.True(!ValidateAddress("oct"))
	is.True(!ValidateAddress("octo"))
	is.True(!ValidateAddress("bct" + testAddress[3:]))
	// 0, O, I, and l sit outside the Base58 alphabet.
	is.True(!ValidateAddress("oct0OIl"))
	// Valid Base58 of the wrong decoded length.
	is.True(!ValidateAddress("octabc"))
	// Whitespace never survives decoding.
	is.True(!ValidateAddress("oct " + testAddress[3:]))
}

// TestKeyPair_Zeroize verifies the wipe clears every retained buffer.
func TestKeyPair_Zeroize(t *testing.T) {
	is := is.New(t)

	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	is.NoErr(err)

	kp, err := KeyPairFromSeed(seed)
	is.NoErr(err)

	kp.Zeroize()
	is.Equal(len(kp.Seed()), 0)
	is.Equal(len(kp.PublicKey()), 0)
	is.Equal(kp.PrivateKeyB64(), "")
}
