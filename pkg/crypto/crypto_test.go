package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
)

func mustPriv(t *testing.T, hexStr string) *btcec.PrivateKey {
	t.Helper()
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		t.Fatalf("decode hex: %v", err)
	}
	priv, err := ParsePrivateKey(b)
	if err != nil {
		t.Fatalf("parse private key: %v", err)
	}
	return priv
}

func TestSchnorrSignVerifyRoundTrip(t *testing.T) {
	privKey := mustPriv(t, "0000000000000000000000000000000000000000000000000000000000000001")
	msg := SHA256([]byte("hello nostr"))

	sig, err := SchnorrSign(privKey, msg[:], nil)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	xonly := XOnlyPubkey(privKey)
	if !SchnorrVerify(sig[:], msg[:], xonly[:]) {
		t.Fatal("expected signature to verify")
	}

	// Flipping a bit of the message must invalidate the signature.
	badMsg := msg
	badMsg[0] ^= 0x01
	if SchnorrVerify(sig[:], badMsg[:], xonly[:]) {
		t.Fatal("expected signature to fail verification against a different message")
	}

	// Flipping a bit of the signature must invalidate it too.
	badSig := sig
	badSig[0] ^= 0x01
	if SchnorrVerify(badSig[:], msg[:], xonly[:]) {
		t.Fatal("expected mutated signature to fail verification")
	}
}

func TestECDHSharedXSymmetric(t *testing.T) {
	a := mustPriv(t, "0000000000000000000000000000000000000000000000000000000000000001")
	b := mustPriv(t, "0000000000000000000000000000000000000000000000000000000000000002")

	ab := ECDHSharedX(a, b.PubKey())
	ba := ECDHSharedX(b, a.PubKey())

	if !bytes.Equal(ab[:], ba[:]) {
		t.Fatalf("ECDH shared secret not symmetric: %x != %x", ab, ba)
	}
}

func TestParsePublicKeyAcceptsAllEncodings(t *testing.T) {
	priv := mustPriv(t, "0000000000000000000000000000000000000000000000000000000000000001")
	compressed := priv.PubKey().SerializeCompressed()
	uncompressed := priv.PubKey().SerializeUncompressed()
	xonly := compressed[1:]

	for name, enc := range map[string][]byte{
		"x-only":       xonly,
		"compressed":   compressed,
		"uncompressed": uncompressed,
	} {
		if _, err := ParsePublicKey(enc); err != nil {
			t.Errorf("%s: expected to parse, got error: %v", name, err)
		}
	}

	if _, err := ParsePublicKey(make([]byte, 10)); err == nil {
		t.Error("expected error for invalid length")
	}
}

func TestAESCBCPKCS7RoundTrip(t *testing.T) {
	key := make([]byte, 32)
	iv := make([]byte, 16)
	plaintext := []byte("hello nip04")

	ciphertext, err := AESCBCPKCS7Encrypt(key, iv, plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if len(ciphertext)%16 != 0 {
		t.Fatalf("ciphertext length %d not a multiple of 16", len(ciphertext))
	}
	decrypted, err := AESCBCPKCS7Decrypt(key, iv, ciphertext)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Fatalf("round-trip mismatch: got %q want %q", decrypted, plaintext)
	}
}

func TestAESCBCPKCS7DecryptRejectsBadPadding(t *testing.T) {
	key := make([]byte, 32)
	iv := make([]byte, 16)
	ciphertext, err := AESCBCPKCS7Encrypt(key, iv, []byte("x"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	ciphertext[len(ciphertext)-1] ^= 0xFF
	if _, err := AESCBCPKCS7Decrypt(key, iv, ciphertext); err == nil {
		t.Fatal("expected padding error")
	}
}

func TestChaCha20IETFXORIsItsOwnInverse(t *testing.T) {
	key := make([]byte, 32)
	nonce := make([]byte, 12)
	plaintext := []byte("the quick brown fox")

	ciphertext, err := ChaCha20IETFXOR(key, nonce, plaintext)
	if err != nil {
		t.Fatalf("xor: %v", err)
	}
	recovered, err := ChaCha20IETFXOR(key, nonce, ciphertext)
	if err != nil {
		t.Fatalf("xor: %v", err)
	}
	if !bytes.Equal(recovered, plaintext) {
		t.Fatalf("round-trip mismatch: got %q want %q", recovered, plaintext)
	}
}

func TestConstantTimeEqual(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{1, 2, 3}
	c := []byte{1, 2, 4}

	if !ConstantTimeEqual(a, b) {
		t.Error("expected equal slices to compare equal")
	}
	if ConstantTimeEqual(a, c) {
		t.Error("expected different slices to compare unequal")
	}
	if ConstantTimeEqual(a, []byte{1, 2}) {
		t.Error("expected different-length slices to compare unequal")
	}
}

func TestHKDFExpandLength(t *testing.T) {
	prk := make([]byte, 32)
	info := make([]byte, 32)
	okm, err := HKDFExpand(prk, info, 76)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(okm) != 76 {
		t.Fatalf("expected 76 bytes, got %d", len(okm))
	}
}
