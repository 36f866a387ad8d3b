package bech32key

import (
	"strings"
	"testing"

	"github.com/nostrium/nostrium/pkg/event"
)

const bech32Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

func TestEncodeDecodeNsecRoundTrip(t *testing.T) {
	priv, err := event.ParsePrivateKey("0000000000000000000000000000000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("parse private key: %v", err)
	}
	encoded, err := EncodeNsec(priv)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(encoded, "nsec1") {
		t.Fatalf("expected nsec1 prefix, got %q", encoded)
	}
	decoded, err := DecodeNsec(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != priv {
		t.Fatalf("round-trip mismatch: got %x want %x", decoded, priv)
	}
}

func TestEncodeDecodePubkeyRoundTrip(t *testing.T) {
	pub, err := event.ParsePublicKey(strings.Repeat("ab", 32))
	if err != nil {
		t.Fatalf("parse public key: %v", err)
	}
	encoded, err := EncodePubkey(pub)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(encoded, "npub1") {
		t.Fatalf("expected npub1 prefix, got %q", encoded)
	}
	decoded, err := DecodePubkey(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != pub {
		t.Fatalf("round-trip mismatch: got %x want %x", decoded, pub)
	}
}

func TestDecodeNsecAcceptsHex(t *testing.T) {
	hex := strings.Repeat("3", 64)
	decoded, err := DecodeNsec(hex)
	if err != nil {
		t.Fatalf("decode hex: %v", err)
	}
	want, _ := event.ParsePrivateKey(hex)
	if decoded != want {
		t.Fatalf("got %x want %x", decoded, want)
	}
}

func TestDecodePubkeyRejectsWrongHRP(t *testing.T) {
	priv, _ := event.ParsePrivateKey("0000000000000000000000000000000000000000000000000000000000000001")
	nsec, err := EncodeNsec(priv)
	if err != nil {
		t.Fatalf("encode nsec: %v", err)
	}
	if _, err := DecodePubkey(nsec); err == nil {
		t.Fatal("expected error decoding an nsec string as a pubkey")
	}
}

func TestDecodeNsecRejectsCorruptedChecksum(t *testing.T) {
	priv, _ := event.ParsePrivateKey("0000000000000000000000000000000000000000000000000000000000000001")
	encoded, err := EncodeNsec(priv)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	corrupted := encoded[:len(encoded)-1] + flipChar(encoded[len(encoded)-1])
	if _, err := DecodeNsec(corrupted); err == nil {
		t.Fatal("expected error for corrupted checksum")
	}
}

func flipChar(c byte) string {
	for _, r := range bech32Charset {
		if byte(r) != c {
			return string(r)
		}
	}
	return "q"
}

func TestLooksLikeHexRejectsBech32Length(t *testing.T) {
	priv, _ := event.ParsePrivateKey("0000000000000000000000000000000000000000000000000000000000000001")
	encoded, err := EncodeNsec(priv)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if looksLikeHex(encoded) {
		t.Fatal("bech32 string should not be classified as hex")
	}
}
