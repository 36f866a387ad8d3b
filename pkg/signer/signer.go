// Package signer provides the Signer abstraction: something that can
// produce a BIP-340 Schnorr signature over an event id under a known
// public key, without ever exposing the private key bytes through its
// interface. The concrete implementation wraps btcsuite/btcd/btcec/v2.
package signer

import (
	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/nostrium/nostrium/pkg/crypto"
	"github.com/nostrium/nostrium/pkg/event"
	"github.com/nostrium/nostrium/pkg/nerr"
)

// Signer produces Schnorr signatures over event ids for a single,
// fixed public key.
type Signer interface {
	PublicKey() event.PublicKey
	Sign(id event.EventId) (event.Signature, error)
}

// BtcecSigner is a Signer backed by a btcec/v2 secp256k1 private key.
// Its public key always has even y (negating the raw scalar once at
// construction time if needed), so it is safe to use as an ECDH
// counterpart for NIP-04/NIP-44 as well as for Schnorr signing.
type BtcecSigner struct {
	priv *btcec.PrivateKey
}

// NewBtcecSigner builds a signer from a 32-byte secret key.
func NewBtcecSigner(sec event.PrivateKey) (*BtcecSigner, error) {
	secBytes := sec.Bytes()
	priv, err := crypto.ParsePrivateKey(secBytes[:])
	if err != nil {
		return nil, err
	}
	return &BtcecSigner{priv: crypto.NormalizeSecretEvenY(priv)}, nil
}

// PublicKey returns the x-only public key this signer signs under.
func (s *BtcecSigner) PublicKey() event.PublicKey {
	return event.PublicKey(crypto.XOnlyPubkey(s.priv))
}

// Sign produces a 64-byte BIP-340 signature over id using zero
// auxiliary randomness (BIP-340's "synthetic" mode). Use SignWithAux
// for callers that want to supply their own entropy.
func (s *BtcecSigner) Sign(id event.EventId) (event.Signature, error) {
	return s.SignWithAux(id, nil)
}

// SignWithAux signs id using aux (nil, or exactly 32 bytes) as the
// BIP-340 auxiliary randomness.
func (s *BtcecSigner) SignWithAux(id event.EventId, aux []byte) (event.Signature, error) {
	var sig event.Signature
	raw, err := crypto.SchnorrSign(s.priv, id[:], aux)
	if err != nil {
		return sig, err
	}
	return event.Signature(raw), nil
}

// Verify checks that sig is a valid signature over id under pub.
func Verify(pub event.PublicKey, id event.EventId, sig event.Signature) bool {
	return crypto.SchnorrVerify(sig[:], id[:], pub[:])
}

// Sign completes a Draft: it computes the canonical id, signs it, and
// returns the frozen Event. Any canonicalization failure (e.g. an
// unescapable control byte, see pkg/event) is returned unchanged.
func Sign(s Signer, d event.Draft) (event.Event, error) {
	var ev event.Event
	if d.PubKey != s.PublicKey() {
		return ev, &nerr.InvalidInput{Name: "draft.PubKey", Expected: "signer's own public key"}
	}
	id, err := d.ComputeID()
	if err != nil {
		return ev, err
	}
	sig, err := s.Sign(id)
	if err != nil {
		return ev, err
	}
	return event.Event{
		ID:        id,
		PubKey:    d.PubKey,
		CreatedAt: d.CreatedAt,
		Kind:      d.Kind,
		Tags:      d.Tags,
		Content:   d.Content,
		Sig:       sig,
	}, nil
}
