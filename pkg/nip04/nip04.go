// Package nip04 implements the legacy NIP-04 direct-message scheme:
// ECDH (raw x-coordinate, unhashed) as the AES key, AES-256-CBC/PKCS7,
// and a "<base64 cipher>?iv=<base64 iv>" wire string. Kept only for
// backward compatibility with older clients; see package nip44 for the
// current scheme.
package nip04

import (
	"strings"

	"github.com/nostrium/nostrium/pkg/crypto"
	"github.com/nostrium/nostrium/pkg/event"
	"github.com/nostrium/nostrium/pkg/nerr"
)

const ivSeparator = "?iv="

// Encrypt encrypts plaintext for recipientPub using senderPriv, with a
// freshly drawn random 16-byte IV. The returned string matches
// `^[A-Za-z0-9+/=]+\?iv=[A-Za-z0-9+/=]+$`.
func Encrypt(plaintext string, senderPriv event.PrivateKey, recipientPub event.PublicKey) (string, error) {
	iv, err := crypto.SecureRandom(16)
	if err != nil {
		return "", err
	}
	return EncryptWithIV(plaintext, senderPriv, recipientPub, iv)
}

// EncryptWithIV encrypts plaintext using a caller-supplied 16-byte IV,
// for deterministic test vectors.
func EncryptWithIV(plaintext string, senderPriv event.PrivateKey, recipientPub event.PublicKey, iv []byte) (string, error) {
	if len(iv) != 16 {
		return "", &nerr.InvalidInput{Name: "iv", Expected: "16 bytes"}
	}
	key, err := sharedKey(senderPriv, recipientPub)
	if err != nil {
		return "", err
	}
	ciphertext, err := crypto.AESCBCPKCS7Encrypt(key[:], iv, []byte(plaintext))
	if err != nil {
		return "", err
	}
	return crypto.Base64StdEncode(ciphertext) + ivSeparator + crypto.Base64StdEncode(iv), nil
}

// Decrypt decrypts a "<cipher>?iv=<iv>" payload sent by senderPub to
// recipientPriv.
func Decrypt(payload string, recipientPriv event.PrivateKey, senderPub event.PublicKey) (string, error) {
	idx := strings.Index(payload, ivSeparator)
	if idx <= 0 || idx+len(ivSeparator) >= len(payload) {
		return "", &nerr.InvalidInput{Name: "payload", Expected: "\"<cipher>?iv=<iv>\""}
	}
	cipherB64, ivB64 := payload[:idx], payload[idx+len(ivSeparator):]

	ciphertext, err := crypto.Base64StdDecode(cipherB64)
	if err != nil {
		return "", err
	}
	iv, err := crypto.Base64StdDecode(ivB64)
	if err != nil {
		return "", err
	}
	if len(iv) != 16 {
		return "", &nerr.InvalidInput{Name: "iv", Expected: "16 bytes"}
	}
	if len(ciphertext) == 0 || len(ciphertext)%16 != 0 {
		return "", &nerr.InvalidInput{Name: "ciphertext", Expected: "positive multiple of 16 bytes"}
	}

	key, err := sharedKey(recipientPriv, senderPub)
	if err != nil {
		return "", err
	}
	plaintext, err := crypto.AESCBCPKCS7Decrypt(key[:], iv, ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// sharedKey computes the ECDH x-coordinate between priv and pub and
// uses it directly as the AES-256 key, with no hashing, per NIP-04.
func sharedKey(priv event.PrivateKey, pub event.PublicKey) ([32]byte, error) {
	var zero [32]byte
	secBytes := priv.Bytes()
	p, err := crypto.ParsePrivateKey(secBytes[:])
	if err != nil {
		return zero, err
	}
	pubBytes := pub
	q, err := crypto.ParsePublicKey(pubBytes[:])
	if err != nil {
		return zero, err
	}
	return crypto.ECDHSharedX(p, q), nil
}
