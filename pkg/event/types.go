// Package event implements the NIP-01 data model: fixed-size typed
// primitives (EventId, PublicKey, PrivateKey, Signature, EventKind,
// UnixSeconds), ordered tags, the Event value itself, and the
// canonical serializer/id computation it is hashed through. The
// package performs no signing — see package signer for that — so it
// has no dependency on any private key material beyond parsing one.
package event

import (
	"encoding/hex"

	"github.com/nostrium/nostrium/pkg/nerr"
)

// EventId is the 32-byte SHA-256 of an event's canonical serialization.
type EventId [32]byte

// Hex returns the lowercase hex encoding of the id.
func (id EventId) Hex() string { return hex.EncodeToString(id[:]) }

// ParseEventId decodes a 64-character lowercase hex string into an EventId.
func ParseEventId(s string) (EventId, error) {
	var id EventId
	b, err := decodeFixedHex(s, 32, "event id")
	if err != nil {
		return id, err
	}
	copy(id[:], b)
	return id, nil
}

// Signature is a 64-byte BIP-340 Schnorr signature.
type Signature [64]byte

// Hex returns the lowercase hex encoding of the signature.
func (s Signature) Hex() string { return hex.EncodeToString(s[:]) }

// ParseSignature decodes a 128-character lowercase hex string.
func ParseSignature(s string) (Signature, error) {
	var sig Signature
	b, err := decodeFixedHex(s, 64, "signature")
	if err != nil {
		return sig, err
	}
	copy(sig[:], b)
	return sig, nil
}

// PublicKey is a 32-byte x-only secp256k1 public key (BIP-340 convention:
// the implicit y-coordinate is the even one).
type PublicKey [32]byte

// Hex returns the lowercase hex encoding of the public key.
func (p PublicKey) Hex() string { return hex.EncodeToString(p[:]) }

// ParsePublicKey decodes a 64-character lowercase hex string into a PublicKey.
// It does not validate that the bytes lie on the curve; callers that need
// that guarantee should run the key through pkg/crypto.ParsePublicKey.
func ParsePublicKey(s string) (PublicKey, error) {
	var p PublicKey
	b, err := decodeFixedHex(s, 32, "public key")
	if err != nil {
		return p, err
	}
	copy(p[:], b)
	return p, nil
}

// PrivateKey is a 32-byte secp256k1 scalar. It is exclusively owned by
// the signer that wraps it; nothing in this package ever prints it.
type PrivateKey [32]byte

// ParsePrivateKey decodes a 64-character lowercase hex string into a
// PrivateKey without validating scalar range; range validation happens
// when the key is handed to a signer (pkg/crypto.ParsePrivateKey).
func ParsePrivateKey(s string) (PrivateKey, error) {
	var p PrivateKey
	b, err := decodeFixedHex(s, 32, "private key")
	if err != nil {
		return p, err
	}
	copy(p[:], b)
	return p, nil
}

// Bytes returns the raw 32 bytes of the private key. Callers must not
// log or persist the result; this module provides no key storage.
func (p PrivateKey) Bytes() [32]byte { return p }

func decodeFixedHex(s string, n int, name string) ([]byte, error) {
	if len(s) != n*2 {
		return nil, &nerr.InvalidInput{Name: name, Expected: "hex string", Actual: "wrong length"}
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, &nerr.DecodeError{Format: "hex", Reason: err.Error()}
	}
	return b, nil
}

// EventKind classifies events per NIP-01's integer ranges.
type EventKind uint16

// IsRegular reports whether kind falls in the regular class: 1, 2,
// [4, 45), [1000, 10000).
func (k EventKind) IsRegular() bool {
	v := int(k)
	return v == 1 || v == 2 || (v >= 4 && v < 45) || (v >= 1000 && v < 10000)
}

// IsReplaceable reports whether kind is in {0, 3} ∪ [10000, 20000).
func (k EventKind) IsReplaceable() bool {
	v := int(k)
	return v == 0 || v == 3 || (v >= 10000 && v < 20000)
}

// IsEphemeral reports whether kind is in [20000, 30000).
func (k EventKind) IsEphemeral() bool {
	v := int(k)
	return v >= 20000 && v < 30000
}

// IsAddressable reports whether kind is in [30000, 40000).
func (k EventKind) IsAddressable() bool {
	v := int(k)
	return v >= 30000 && v < 40000
}

// UnixSeconds is a signed count of seconds since the Unix epoch.
type UnixSeconds int64

// Tag is an ordered, non-empty sequence of strings; element 0 is the
// tag name.
type Tag []string

// Tags is an ordered sequence of Tag. Order is semantically significant:
// the p/e tags at position 0 are conventionally the primary reference.
type Tags []Tag

// Event is a complete, signed Nostr event. Construct one only through
// a Draft and a Signer (see Draft.ComputeID / signer.Sign); never mutate
// a frozen Event, since doing so invalidates ID and Sig.
type Event struct {
	ID        EventId
	PubKey    PublicKey
	CreatedAt UnixSeconds
	Kind      EventKind
	Tags      Tags
	Content   string
	Sig       Signature
}
