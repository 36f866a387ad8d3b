// Package bech32key implements the NIP-19 nsec/npub bech32 codec for
// nostrium's typed keys: decoding accepts either hex or bech32 input,
// encoding always emits bech32. Only the simple nsec/npub forms are
// handled here; the TLV-encoded nevent/naddr/nprofile identifiers
// belong to the wire-frame layer this module doesn't implement.
package bech32key

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/nostrium/nostrium/pkg/event"
	"github.com/nostrium/nostrium/pkg/nerr"
)

const (
	hrpPrivateKey = "nsec"
	hrpPublicKey  = "npub"
)

// EncodeNsec bech32-encodes priv with the "nsec" human-readable part.
func EncodeNsec(priv event.PrivateKey) (string, error) {
	b := priv.Bytes()
	return encode(hrpPrivateKey, b[:])
}

// DecodeNsec accepts either an "nsec1…" bech32 string or a 64-character
// lowercase hex string and returns the private key it encodes.
func DecodeNsec(s string) (event.PrivateKey, error) {
	var priv event.PrivateKey
	if looksLikeHex(s) {
		return event.ParsePrivateKey(s)
	}
	b, err := decode(hrpPrivateKey, s)
	if err != nil {
		return priv, err
	}
	copy(priv[:], b)
	return priv, nil
}

// EncodePubkey bech32-encodes pub with the "npub" human-readable part.
func EncodePubkey(pub event.PublicKey) (string, error) {
	return encode(hrpPublicKey, pub[:])
}

// DecodePubkey accepts either an "npub1…" bech32 string or a
// 64-character lowercase hex string.
func DecodePubkey(s string) (event.PublicKey, error) {
	var pub event.PublicKey
	if looksLikeHex(s) {
		return event.ParsePublicKey(s)
	}
	b, err := decode(hrpPublicKey, s)
	if err != nil {
		return pub, err
	}
	copy(pub[:], b)
	return pub, nil
}

func looksLikeHex(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

func encode(hrp string, raw []byte) (string, error) {
	data, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", &nerr.ProviderError{Operation: "bech32_convert_bits", Reason: err.Error()}
	}
	out, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", &nerr.ProviderError{Operation: "bech32_encode", Reason: err.Error()}
	}
	return out, nil
}

func decode(wantHRP, s string) ([]byte, error) {
	if !strings.HasPrefix(s, wantHRP+"1") {
		return nil, &nerr.InvalidInput{Name: "bech32 string", Expected: "prefix " + wantHRP + "1"}
	}
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return nil, &nerr.DecodeError{Format: "bech32", Reason: err.Error()}
	}
	if hrp != wantHRP {
		return nil, &nerr.InvalidInput{Name: "bech32 hrp", Expected: wantHRP, Actual: hrp}
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, &nerr.DecodeError{Format: "bech32", Reason: err.Error()}
	}
	if len(raw) != 32 {
		return nil, &nerr.InvalidInput{Name: "bech32 payload", Expected: "32 bytes"}
	}
	return raw, nil
}
