// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package octwallet

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"
)

// canonicalJSON marshals v compactly. Struct fields marshal in declaration
// order, which makes the output deterministic for a fixed field set; the
// network verifies signatures against exactly these bytes.
func canonicalJSON(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("could not canonicalize the payload: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, fmt.Errorf("could not compact the payload: %w", err)
	}
	return buf.Bytes(), nil
}

// Transfer is a plain OCT transfer before signing. Message is free text
// carried to the recipient; it travels in the transmitted payload but is
// never part of the signed bytes.
type Transfer struct {
	From      string
	To        string
	Amount    Amount
	Nonce     uint64
	Timestamp float64
	Message   string
}

// NewTransfer stamps a transfer with the current time plus a random jitter
// below ten milliseconds. The jitter keeps rapid batch sends from colliding
// on the same millisecond; repeated identical requests differ in timestamp
// and therefore in signature, which is intentional.
func NewTransfer(from, to string, amount Amount, nonce uint64) (*Transfer, error) {
	ts, err := jitteredTimestamp()
	if err != nil {
		return nil, err
	}
	return &Transfer{From: from, To: to, Amount: amount, Nonce: nonce, Timestamp: ts}, nil
}

// SigningData returns the canonical bytes signed for the transfer. The
// trailing underscore in the to_ key is the wire name the network expects.
// Message is deliberately absent: signing a transfer with and without a
// message yields the same signature.
func (t *Transfer) SigningData() ([]byte, error) {
	return canonicalJSON(struct {
		From      string  `json:"from"`
		To        string  `json:"to_"`
		Amount    Amount  `json:"amount"`
		Nonce     uint64  `json:"nonce"`
		OU        string  `json:"ou"`
		Timestamp float64 `json:"timestamp"`
	}{t.From, t.To, t.Amount, t.Nonce, t.Amount.OU(), t.Timestamp})
}

// SignedTransfer is the wire form of a transfer, ready to POST: the signed
// fields, the optional message, and the detached signature with the
// signer's public key.
type SignedTransfer struct {
	From      string  `json:"from"`
	To        string  `json:"to_"`
	Amount    Amount  `json:"amount"`
	Nonce     uint64  `json:"nonce"`
	OU        string  `json:"ou"`
	Timestamp float64 `json:"timestamp"`
	Message   string  `json:"message,omitempty"`
	Signature string  `json:"signature"`
	PublicKey string  `json:"public_key"`
}

// Verify checks the payload's signature against its own field set, the
// same canonical bytes the signer produced.
func (p *SignedTransfer) Verify() (bool, error) {
	t := Transfer{From: p.From, To: p.To, Amount: p.Amount, Nonce: p.Nonce, Timestamp: p.Timestamp}
	data, err := t.SigningData()
	if err != nil {
		return false, err
	}
	return VerifySignature(data, p.Signature, p.PublicKey)
}

// SignTransfer signs a transfer and assembles its wire payload.
func (w *Wallet) SignTransfer(t *Transfer) (*SignedTransfer, error) {
	data, err := t.SigningData()
	if err != nil {
		return nil, err
	}
	return &SignedTransfer{
		From:      t.From,
		To:        t.To,
		Amount:    t.Amount,
		Nonce:     t.Nonce,
		OU:        t.Amount.OU(),
		Timestamp: t.Timestamp,
		Message:   t.Message,
		Signature: base64.StdEncoding.EncodeToString(w.keyPair.Sign(data)),
		PublicKey: w.keyPair.PublicKeyB64(),
	}, nil
}

// PrivateTransfer moves encrypted balance to a recipient. Timestamp is
// whole epoch seconds. Nonce lives in a namespace separate from transfer
// nonces: the caller picks a large integer, conventionally the current
// epoch milliseconds.
type PrivateTransfer struct {
	From      string
	To        string
	Amount    Amount
	Timestamp int64
	Nonce     int64
}

// NewPrivateTransfer stamps a private transfer with the current time,
// whole seconds for the timestamp and milliseconds for the nonce.
func NewPrivateTransfer(from, to string, amount Amount) *PrivateTransfer {
	now := time.Now()
	return &PrivateTransfer{From: from, To: to, Amount: amount, Timestamp: now.Unix(), Nonce: now.UnixMilli()}
}

// SigningData returns the canonical bytes signed for the private transfer.
func (t *PrivateTransfer) SigningData() ([]byte, error) {
	return canonicalJSON(struct {
		From      string `json:"from"`
		To        string `json:"to"`
		Amount    Amount `json:"amount"`
		Timestamp int64  `json:"timestamp"`
		Nonce     int64  `json:"nonce"`
	}{t.From, t.To, t.Amount, t.Timestamp, t.Nonce})
}

// SignedPrivateTransfer is the wire form of a private transfer. The
// endpoint demands proof of key possession beyond the signature:
// AttachOwnershipKey places the sender's cleartext private key in the
// payload, and nothing else ever does.
type SignedPrivateTransfer struct {
	From           string `json:"from"`
	To             string `json:"to"`
	Amount         Amount `json:"amount"`
	Timestamp      int64  `json:"timestamp"`
	Nonce          int64  `json:"nonce"`
	FromPrivateKey string `json:"from_private_key,omitempty"`
	Signature      string `json:"signature"`
	PublicKey      string `json:"public_key"`
}

// AttachOwnershipKey adds the sender's cleartext private key to the
// transmitted payload. The key is not part of the signed bytes. The remote
// service requires it on this endpoint; keeping the attachment a separate,
// explicit step means it cannot happen by accident.
func (p *SignedPrivateTransfer) AttachOwnershipKey(privateKeyB64 string) {
	p.FromPrivateKey = privateKeyB64
}

// Verify checks the payload's signature against its own field set. The
// ownership key, like the signature fields, is not signed.
func (p *SignedPrivateTransfer) Verify() (bool, error) {
	t := PrivateTransfer{From: p.From, To: p.To, Amount: p.Amount, Timestamp: p.Timestamp, Nonce: p.Nonce}
	data, err := t.SigningData()
	if err != nil {
		return false, err
	}
	return VerifySignature(data, p.Signature, p.PublicKey)
}

// SignPrivateTransfer signs a private transfer and assembles its wire
// payload. Call AttachOwnershipKey on the result before POSTing; the
// endpoint rejects payloads without the cleartext key.
func (w *Wallet) SignPrivateTransfer(t *PrivateTransfer) (*SignedPrivateTransfer, error) {
	data, err := t.SigningData()
	if err != nil {
		return nil, err
	}
	return &SignedPrivateTransfer{
		From:      t.From,
		To:        t.To,
		Amount:    t.Amount,
		Timestamp: t.Timestamp,
		Nonce:     t.Nonce,
		Signature: base64.StdEncoding.EncodeToString(w.keyPair.Sign(data)),
		PublicKey: w.keyPair.PublicKeyB64(),
	}, nil
}

// BalanceCrypto is the signed message authorizing an encrypt or decrypt of
// the account's balance: the account address, the delta being applied in
// raw micro-units, the resulting raw balance, and an epoch-millisecond
// timestamp.
type BalanceCrypto struct {
	Address    string
	Amount     Amount
	NewBalance uint64
	Timestamp  int64
}

// NewBalanceCrypto stamps a balance-crypto message with the current epoch
// milliseconds. NewBalance is the raw balance after the delta is applied;
// the caller tracks it from the server's last reported state.
func NewBalanceCrypto(address string, amount Amount, newBalance uint64) *BalanceCrypto {
	return &BalanceCrypto{Address: address, Amount: amount, NewBalance: newBalance, Timestamp: time.Now().UnixMilli()}
}

// SigningData returns the canonical bytes signed for the balance-crypto
// message. NewBalance rides as a bare integer, not a string.
func (b *BalanceCrypto) SigningData() ([]byte, error) {
	return canonicalJSON(struct {
		Address    string `json:"address"`
		Amount     Amount `json:"amount"`
		NewBalance uint64 `json:"new_balance"`
		Timestamp  int64  `json:"timestamp"`
	}{b.Address, b.Amount, b.NewBalance, b.Timestamp})
}

// SignedBalanceCrypto is the wire form of a balance encrypt/decrypt
// request: the signed fields, the fresh envelope for the resulting
// balance, and the detached signature. AttachOwnershipKey adds the
// cleartext private key the endpoint requires.
type SignedBalanceCrypto struct {
	Address       string `json:"address"`
	Amount        Amount `json:"amount"`
	NewBalance    uint64 `json:"new_balance"`
	Timestamp     int64  `json:"timestamp"`
	EncryptedData string `json:"encrypted_data"`
	PrivateKey    string `json:"private_key,omitempty"`
	Signature     string `json:"signature"`
	PublicKey     string `json:"public_key"`
}

// AttachOwnershipKey adds the cleartext private key to the transmitted
// payload. The key is not part of the signed bytes.
func (p *SignedBalanceCrypto) AttachOwnershipKey(privateKeyB64 string) {
	p.PrivateKey = privateKeyB64
}

// Verify checks the payload's signature against its own field set. The
// envelope and the ownership key are not signed.
func (p *SignedBalanceCrypto) Verify() (bool, error) {
	b := BalanceCrypto{Address: p.Address, Amount: p.Amount, NewBalance: p.NewBalance, Timestamp: p.Timestamp}
	data, err := b.SigningData()
	if err != nil {
		return false, err
	}
	return VerifySignature(data, p.Signature, p.PublicKey)
}

// SignBalanceCrypto signs a balance-crypto message and assembles its wire
// payload, encrypting the resulting balance into a fresh envelope. Call
// AttachOwnershipKey on the result before POSTing.
func (w *Wallet) SignBalanceCrypto(b *BalanceCrypto) (*SignedBalanceCrypto, error) {
	data, err := b.SigningData()
	if err != nil {
		return nil, err
	}
	envelope, err := EncryptBalance(b.NewBalance, w.keyPair.seed)
	if err != nil {
		return nil, fmt.Errorf("could not build the balance envelope: %w", err)
	}
	return &SignedBalanceCrypto{
		Address:       b.Address,
		Amount:        b.Amount,
		NewBalance:    b.NewBalance,
		Timestamp:     b.Timestamp,
		EncryptedData: envelope,
		Signature:     base64.StdEncoding.EncodeToString(w.keyPair.Sign(data)),
		PublicKey:     w.keyPair.PublicKeyB64(),
	}, nil
}

// Sign produces a detached Base64 signature over message with the wallet's
// key.
func (w *Wallet) Sign(message []byte) string {
	return base64.StdEncoding.EncodeToString(w.keyPair.Sign(message))
}

// VerifySignature checks a detached Ed25519 signature over message.
// Malformed Base64 in either argument fails with ErrInvalidEncoding; a
// wrong-length public key or a signature that does not match returns
// false.
func VerifySignature(message []byte, signatureB64, publicKeyB64 string) (bool, error) {
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return false, fmt.Errorf("%w: signature is not valid base64: %v", ErrInvalidEncoding, err)
	}
	pub, err := base64.StdEncoding.DecodeString(publicKeyB64)
	if err != nil {
		return false, fmt.Errorf("%w: public key is not valid base64: %v", ErrInvalidEncoding, err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return false, nil
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig), nil
}

// jitteredTimestamp returns the current epoch time in float seconds plus a
// random offset below ten milliseconds, drawn from crypto/rand like every
// other random value in the package.
func jitteredTimestamp() (float64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("could not draw timestamp jitter: %w", err)
	}
	// 53 random bits scale to [0,1) without losing float64 precision.
	unit := float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
	return float64(time.Now().UnixMilli())/1000 + unit*0.01, nil
}
