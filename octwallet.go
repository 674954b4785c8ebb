// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package octwallet implements the deterministic key-derivation and
// transaction-signing core of an Octra network wallet: BIP39 mnemonics,
// the network's HMAC-SHA512 master key scheme, Ed25519 keypairs and
// addresses, canonical payload signing, and encrypted balance envelopes.
//
// The package owns no network or storage surface. It turns a mnemonic or
// raw key into a Wallet and turns transaction intents into signed,
// JSON-serializable payloads ready to POST; everything around that is the
// caller's concern.
package octwallet

import (
	"encoding/hex"
	"fmt"
)

// Wallet is the key material and identity of one logged-in account,
// derived once at login and passed to every signing call. All methods are
// safe for concurrent use until Zeroize, which must be the last call.
type Wallet struct {
	mnemonic string
	entropy  []byte
	seed     []byte
	master   MasterKey
	keyPair  *KeyPair
	address  string
}

// GenerateWallet creates a wallet from fresh entropy of the given strength
// in bits, 128 through 256 in 32-bit steps. 128 yields the network's usual
// 12-word mnemonic.
func GenerateWallet(strengthBits int) (*Wallet, error) {
	entropy, err := GenerateEntropy(strengthBits)
	if err != nil {
		return nil, err
	}
	mnemonic, err := EntropyToMnemonic(entropy)
	if err != nil {
		return nil, err
	}
	return walletFromParts(mnemonic, entropy)
}

// WalletFromMnemonic restores a wallet from a BIP39 phrase. The phrase's
// word count and checksum are validated before any derivation runs.
func WalletFromMnemonic(phrase string) (*Wallet, error) {
	entropy, err := MnemonicToEntropy(phrase)
	if err != nil {
		return nil, err
	}
	return walletFromParts(phrase, entropy)
}

// WalletFromPrivateKey logs in with a raw Base64 private key. No mnemonic,
// entropy, or chain code exists on this path; the corresponding
// diagnostics stay empty.
func WalletFromPrivateKey(privateKeyB64 string) (*Wallet, error) {
	kp, err := KeyPairFromBase64(privateKeyB64)
	if err != nil {
		return nil, err
	}
	return &Wallet{keyPair: kp, address: kp.Address()}, nil
}

// walletFromParts runs the full derivation chain: phrase to seed, seed to
// master key, master key to keypair and address.
func walletFromParts(mnemonic string, entropy []byte) (*Wallet, error) {
	seed, err := MnemonicToSeed(mnemonic)
	if err != nil {
		return nil, err
	}
	master, err := DeriveMasterKey(seed)
	if err != nil {
		return nil, err
	}
	kp, err := KeyPairFromSeed(master.PrivateKey[:])
	if err != nil {
		return nil, err
	}
	return &Wallet{
		mnemonic: mnemonic,
		entropy:  entropy,
		seed:     seed,
		master:   master,
		keyPair:  kp,
		address:  kp.Address(),
	}, nil
}

// Mnemonic returns the wallet's phrase, or "" for a raw-key login.
func (w *Wallet) Mnemonic() string {
	return w.mnemonic
}

// Address returns the wallet's network address.
func (w *Wallet) Address() string {
	return w.address
}

// PrivateKeyB64 returns the external private key form, the Base64 encoding
// of the 32-byte seed.
func (w *Wallet) PrivateKeyB64() string {
	return w.keyPair.PrivateKeyB64()
}

// PublicKeyB64 returns the wallet's Base64 public key.
func (w *Wallet) PublicKeyB64() string {
	return w.keyPair.PublicKeyB64()
}

// PublicKeyHex returns the wallet's hex public key for export diagnostics.
func (w *Wallet) PublicKeyHex() string {
	return hex.EncodeToString(w.keyPair.pub)
}

// SeedHex returns the hex BIP39 seed for export diagnostics, or "" for a
// raw-key login.
func (w *Wallet) SeedHex() string {
	return hex.EncodeToString(w.seed)
}

// ChainCodeHex returns the hex chain code, or "" for a raw-key login.
func (w *Wallet) ChainCodeHex() string {
	if len(w.seed) == 0 {
		return ""
	}
	return hex.EncodeToString(w.master.ChainCode[:])
}

// EntropyHex returns the hex entropy behind the mnemonic, or "" for a
// raw-key login.
func (w *Wallet) EntropyHex() string {
	return hex.EncodeToString(w.entropy)
}

// SelfTestResult carries the probe signature a wallet export embeds so the
// holder can check that the exported material round-trips.
type SelfTestResult struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
	Valid     bool   `json:"valid"`
}

// SelfTest signs a fixed probe payload with the wallet's key and verifies
// the signature against the wallet's own public key.
func (w *Wallet) SelfTest() (*SelfTestResult, error) {
	msg := fmt.Sprintf(`{"from":%q,"to_":%q,"amount":"1000000","nonce":1}`, w.address, w.address)
	sig := w.Sign([]byte(msg))
	ok, err := VerifySignature([]byte(msg), sig, w.PublicKeyB64())
	if err != nil {
		return nil, fmt.Errorf("could not verify the self-test signature: %w", err)
	}
	return &SelfTestResult{Message: msg, Signature: sig, PublicKey: w.PublicKeyB64(), Valid: ok}, nil
}

// Zeroize wipes the wallet's key material on logout: mnemonic, entropy,
// seed, master key, and keypair. Only the address remains readable; the
// wallet must not sign or derive anything afterwards.
func (w *Wallet) Zeroize() {
	zeroBytes(w.entropy)
	zeroBytes(w.seed)
	w.master.Zeroize()
	if w.keyPair != nil {
		w.keyPair.Zeroize()
	}
	w.mnemonic = ""
	w.entropy = nil
	w.seed = nil
}
