// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package octwallet

import (
	"errors"
	"strconv"
	"testing"

	"github.com/matryer/is"
)

// Known-answer fixture: the standard 128-bit BIP39 test phrase run through
// this network's derivation chain. The values were cross-checked against an
// independent implementation of the scheme.
const (
	testMnemonic     = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	testEntropyHex   = "00000000000000000000000000000000"
	testSeedHex      = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc19a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"
	testMasterHex    = "6d6951ff80c1bfe7eea39065bdcd42387bd25d4277d21bfa7b6f9e23c8e09c10"
	testChainCodeHex = "22e54b9157c3a2656b45ce25fee32cf5692ed2ec82c30665d5f7eb9fa81da260"
	testPublicKeyHex = "f7801589b04dfccf79c16bb59684d8ed7574fcc77413fa7b23a0b57e38765a97"
	testPrivateB64   = "bWlR/4DBv+fuo5Blvc1COHvSXUJ30hv6e2+eI8jgnBA="
	testPublicB64    = "94AVibBN/M95wWu1loTY7XV0/Md0E/p7I6C1fjh2Wpc="
	testAddress      = "octCRus1yKzZbQoABuUhWQzcps8KhdqqQWxPzGciLgY698h"
)

// A second derived account used as the counterparty in payload tests.
const (
	recipientMnemonic = "legal winner thank year wave sausage worth useful legal winner thank yellow"
	recipientAddress  = "oct3GBRtDotUv7GyXdGChTqnuD3Nh1v7swvTRiVs9bMtjRm"
)

// TestWalletFromMnemonic_KnownVector pins the full derivation chain for the
// fixture phrase: seed, master key, chain code, keypair, and address.
func TestWalletFromMnemonic_KnownVector(t *testing.T) {
	is := is.New(t)

	w, err := WalletFromMnemonic(testMnemonic)
	is.NoErr(err)

	is.Equal(w.Mnemonic(), testMnemonic)
	is.Equal(w.EntropyHex(), testEntropyHex)
	is.Equal(w.SeedHex(), testSeedHex)
	is.Equal(w.ChainCodeHex(), testChainCodeHex)
	is.Equal(w.PublicKeyHex(), testPublicKeyHex)
	is.Equal(w.PrivateKeyB64(), testPrivateB64)
	is.Equal(w.PublicKeyB64(), testPublicB64)
	is.Equal(w.Address(), testAddress)
}

// TestWalletFromMnemonic_RecipientVector pins the counterparty account.
func TestWalletFromMnemonic_RecipientVector(t *testing.T) {
	is := is.New(t)

	w, err := WalletFromMnemonic(recipientMnemonic)
	is.NoErr(err)
	is.Equal(w.Address(), recipientAddress)
}

// TestWalletFromMnemonic_RejectsInvalidPhrase verifies checksum and word
// count failures surface as ErrInvalidMnemonic before any derivation.
func TestWalletFromMnemonic_RejectsInvalidPhrase(t *testing.T) {
	is := is.New(t)

	invalid := []string{
		"",
		"abandon abandon abandon",
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
		"not a mnemonic at all just twelve ordinary words strung together here",
	}

	for _, phrase := range invalid {
		_, err := WalletFromMnemonic(phrase)
		is.True(errors.Is(err, ErrInvalidMnemonic))
	}
}

// TestWalletFromPrivateKey_MatchesMnemonicLogin verifies that logging in
// with the exported Base64 key lands on the same account, with the
// mnemonic-only diagnostics absent.
func TestWalletFromPrivateKey_MatchesMnemonicLogin(t *testing.T) {
	is := is.New(t)

	w, err := WalletFromPrivateKey(testPrivateB64)
	is.NoErr(err)

	is.Equal(w.Address(), testAddress)
	is.Equal(w.PrivateKeyB64(), testPrivateB64)
	is.Equal(w.PublicKeyB64(), testPublicB64)

	// Raw-key logins carry no phrase material.
	is.Equal(w.Mnemonic(), "")
	is.Equal(w.EntropyHex(), "")
	is.Equal(w.SeedHex(), "")
	is.Equal(w.ChainCodeHex(), "")
}

// TestGenerateWallet_AllStrengths creates wallets at every valid entropy
// strength and checks each is internally consistent.
func TestGenerateWallet_AllStrengths(t *testing.T) {
	for _, bits := range []int{128, 160, 192, 224, 256} {
		t.Run(strconv.Itoa(bits), func(t *testing.T) {
			is := is.New(t)

			w, err := GenerateWallet(bits)
			is.NoErr(err)

			is.True(ValidateMnemonic(w.Mnemonic()))
			is.True(ValidateAddress(w.Address()))
			is.Equal(len(w.EntropyHex()), bits/8*2)

			// The phrase must restore to the identical account.
			restored, err := WalletFromMnemonic(w.Mnemonic())
			is.NoErr(err)
			is.Equal(restored.Address(), w.Address())
			is.Equal(restored.PrivateKeyB64(), w.PrivateKeyB64())
		})
	}
}

// TestGenerateWallet_RejectsBadStrength verifies the strength gate.
func TestGenerateWallet_RejectsBadStrength(t *testing.T) {
	is := is.New(t)

	for _, bits := range []int{0, 64, 127, 129, 200, 512} {
		_, err := GenerateWallet(bits)
		is.True(errors.Is(err, ErrInvalidArgument))
	}
}

// TestWallet_SelfTest verifies the export-boundary probe: a fresh
// signature over the probe payload that verifies under the wallet's own
// public key, and byte-stable for a fixed account.
func TestWallet_SelfTest(t *testing.T) {
	is := is.New(t)

	w, err := WalletFromMnemonic(testMnemonic)
	is.NoErr(err)

	res, err := w.SelfTest()
	is.NoErr(err)
	is.True(res.Valid)
	is.Equal(res.PublicKey, testPublicB64)
	is.Equal(res.Message, `{"from":"`+testAddress+`","to_":"`+testAddress+`","amount":"1000000","nonce":1}`)
	is.Equal(res.Signature, "js2cbhlKA1nmYFN2WVbxr/7Eu0DK0wY9N9EEsSe3S0GL2PwPkxTdvUIRqjBPJgVAB9icG13DfDeUz0Sf5HVcAg==")
}

// TestWallet_Zeroize verifies logout wipes the sensitive material while
// the address stays readable.
func TestWallet_Zeroize(t *testing.T) {
	is := is.New(t)

	w, err := WalletFromMnemonic(testMnemonic)
	is.NoErr(err)

	w.Zeroize()

	is.Equal(w.Address(), testAddress)
	is.Equal(w.Mnemonic(), "")
	is.Equal(w.EntropyHex(), "")
	is.Equal(w.SeedHex(), "")
	is.Equal(w.ChainCodeHex(), "")
}
