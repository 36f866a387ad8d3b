// Package crypto wraps the ECC and symmetric primitives the rest of
// nostrium is built from: secp256k1 ECDH and Schnorr signing over
// btcec/v2, and SHA-256/HMAC-SHA-256/HKDF/AES-256-CBC/ChaCha20-IETF
// over the standard library and golang.org/x/crypto. Nothing in this
// package knows about Nostr events, NIP-04, or NIP-44 — it is the
// leaf layer every higher package is built on.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"

	"github.com/nostrium/nostrium/pkg/nerr"
)

// ParsePublicKey accepts the three encodings NIP-04/NIP-44 callers may
// hand in: a 32-byte x-only key (treated as compressed with an even-y
// prefix), a 33-byte compressed key, or a 65-byte uncompressed key
// (compressed before parsing).
func ParsePublicKey(pub []byte) (*btcec.PublicKey, error) {
	switch len(pub) {
	case 32:
		prefixed := make([]byte, 33)
		prefixed[0] = 0x02
		copy(prefixed[1:], pub)
		return parseCompressed(prefixed)
	case 33:
		if pub[0] != 0x02 && pub[0] != 0x03 {
			return nil, &nerr.InvalidPublicKey{Reason: "compressed key must start with 0x02 or 0x03"}
		}
		return parseCompressed(pub)
	case 65:
		p, err := btcec.ParsePubKey(pub)
		if err != nil {
			return nil, &nerr.InvalidPublicKey{Reason: err.Error()}
		}
		return p, nil
	default:
		return nil, &nerr.InvalidPublicKey{Reason: "length must be 32, 33, or 65 bytes"}
	}
}

func parseCompressed(pub []byte) (*btcec.PublicKey, error) {
	p, err := btcec.ParsePubKey(pub)
	if err != nil {
		return nil, &nerr.InvalidPublicKey{Reason: err.Error()}
	}
	return p, nil
}

// ParsePrivateKey validates and parses a 32-byte secp256k1 scalar.
func ParsePrivateKey(sec []byte) (*btcec.PrivateKey, error) {
	if len(sec) != 32 {
		return nil, &nerr.InvalidPrivateKey{Reason: "must be 32 bytes"}
	}
	priv, _ := btcec.PrivKeyFromBytes(sec)
	// PrivKeyFromBytes reduces mod n, so a zero result or a changed
	// encoding means sec was outside 1 ≤ k < n.
	reduced := priv.Key.Bytes()
	if priv.Key.IsZero() || subtle.ConstantTimeCompare(reduced[:], sec) != 1 {
		return nil, &nerr.InvalidPrivateKey{Reason: "not a valid scalar"}
	}
	return priv, nil
}

// XOnlyPubkey derives the 32-byte BIP-340 x-only public key for priv:
// the x-coordinate of its point, which is the same for the odd-y and
// the even-y point. priv itself is not modified; see
// NormalizeSecretEvenY for the scalar negation.
func XOnlyPubkey(priv *btcec.PrivateKey) [32]byte {
	var out [32]byte
	copy(out[:], schnorr.SerializePubKey(priv.PubKey()))
	return out
}

// NormalizeSecretEvenY returns a private key whose public key has even
// y, negating the scalar if necessary. Schnorr signers must do this so
// their external identity is x-only, per BIP-340.
func NormalizeSecretEvenY(priv *btcec.PrivateKey) *btcec.PrivateKey {
	compressed := priv.PubKey().SerializeCompressed()
	if compressed[0] == 0x02 {
		return priv
	}
	scalar := priv.Key
	scalar.Negate()
	return &btcec.PrivateKey{Key: scalar}
}

// SchnorrSign produces a 64-byte BIP-340 signature over msg (expected
// to be a 32-byte hash). aux, if non-nil, must be exactly 32 bytes of
// auxiliary randomness; nil selects the all-zero "synthetic" mode.
func SchnorrSign(priv *btcec.PrivateKey, msg []byte, aux []byte) ([64]byte, error) {
	var out [64]byte
	if len(msg) != 32 {
		return out, &nerr.InvalidInput{Name: "msg", Expected: "32 bytes"}
	}
	// Always pass the aux bytes explicitly: without CustomNonce, btcec
	// derives the nonce with RFC6979 instead of BIP-340's aux scheme.
	var a [32]byte
	if aux != nil {
		if len(aux) != 32 {
			return out, &nerr.InvalidInput{Name: "aux", Expected: "32 bytes"}
		}
		copy(a[:], aux)
	}
	sig, err := schnorr.Sign(priv, msg, schnorr.CustomNonce(a))
	if err != nil {
		return out, &nerr.ProviderError{Operation: "schnorr_sign", Reason: err.Error()}
	}
	copy(out[:], sig.Serialize())
	return out, nil
}

// SchnorrVerify checks a 64-byte signature over msg under the given
// x-only public key.
func SchnorrVerify(sig []byte, msg []byte, xonlyPub []byte) bool {
	if len(sig) != 64 || len(msg) != 32 || len(xonlyPub) != 32 {
		return false
	}
	s, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false
	}
	pub, err := schnorr.ParsePubKey(xonlyPub)
	if err != nil {
		return false
	}
	return s.Verify(msg, pub)
}

// ECDHSharedX computes the raw (unhashed) 32-byte x-coordinate of
// priv·pub. This is the shared secret both NIP-04 and NIP-44 build on
// top of: NIP-04 uses it directly as the AES-256 key, while NIP-44
// first runs it through HMAC-SHA-256 to get the conversation key.
func ECDHSharedX(priv *btcec.PrivateKey, pub *btcec.PublicKey) [32]byte {
	var out [32]byte
	copy(out[:], btcec.GenerateSharedSecret(priv, pub))
	return out
}

// SHA256 hashes data.
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// HMACSHA256 computes HMAC-SHA-256(key, data).
func HMACSHA256(key, data []byte) [32]byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// HKDFExtract is RFC 5869 HKDF-Extract(salt, ikm) using SHA-256.
func HKDFExtract(salt, ikm []byte) [32]byte {
	var out [32]byte
	copy(out[:], hkdf.Extract(sha256.New, ikm, salt))
	return out
}

// HKDFExpand is RFC 5869 HKDF-Expand(prk, info, length) using SHA-256.
func HKDFExpand(prk, info []byte, length int) ([]byte, error) {
	r := hkdf.Expand(sha256.New, prk, info)
	out := make([]byte, length)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, &nerr.ProviderError{Operation: "hkdf_expand", Reason: err.Error()}
	}
	return out, nil
}

// ChaCha20IETFXOR XORs src with the ChaCha20-IETF keystream under key
// (32 bytes) and nonce (12 bytes), starting the 32-bit block counter
// at zero. Used both to encrypt and to decrypt (it's a stream cipher).
func ChaCha20IETFXOR(key, nonce, src []byte) ([]byte, error) {
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, &nerr.ProviderError{Operation: "chacha20", Reason: err.Error()}
	}
	dst := make([]byte, len(src))
	c.XORKeyStream(dst, src)
	return dst, nil
}

// AESCBCPKCS7Encrypt encrypts plaintext under AES-256-CBC with PKCS7
// padding, using key (32 bytes) and iv (16 bytes).
func AESCBCPKCS7Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &nerr.ProviderError{Operation: "aes_new_cipher", Reason: err.Error()}
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// AESCBCPKCS7Decrypt decrypts ciphertext (a positive multiple of the
// AES block size) under AES-256-CBC and removes PKCS7 padding.
func AESCBCPKCS7Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, &nerr.InvalidInput{Name: "ciphertext", Expected: "positive multiple of 16 bytes"}
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, &nerr.ProviderError{Operation: "aes_new_cipher", Reason: err.Error()}
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
	return pkcs7Unpad(padded, aes.BlockSize)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - (len(data) % blockSize)
	out := make([]byte, len(data)+padLen)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(padLen)
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, &nerr.DecryptionFailed{Reason: "pkcs7 padding: invalid length"}
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, &nerr.DecryptionFailed{Reason: "pkcs7 padding: invalid pad length"}
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, &nerr.DecryptionFailed{Reason: "pkcs7 padding: invalid pad bytes"}
		}
	}
	return data[:len(data)-padLen], nil
}

// ConstantTimeEqual reports whether a and b are equal using a
// constant-time comparison in their lengths and bytes. Callers
// comparing MACs or other secret-derived values must use this instead
// of bytes.Equal.
func ConstantTimeEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// SecureRandom draws n bytes from the platform CSPRNG.
func SecureRandom(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, &nerr.ProviderError{Operation: "secure_random", Reason: err.Error()}
	}
	return buf, nil
}

// Base64StdEncode encodes data with the standard Base64 alphabet.
func Base64StdEncode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Base64StdDecode decodes a standard-alphabet Base64 string.
func Base64StdDecode(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &nerr.DecodeError{Format: "base64", Reason: err.Error()}
	}
	return data, nil
}
