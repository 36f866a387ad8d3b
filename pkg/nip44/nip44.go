// Package nip44 implements the NIP-44 v2 authenticated encryption
// scheme: ECDH → HKDF-extract conversation key → HKDF-expand
// per-message keys → padded plaintext → ChaCha20-IETF → HMAC-SHA-256
// (with the nonce prepended as AAD) → versioned Base64 payload. Only
// v2 is implemented; v0/v1 are explicitly out of scope.
package nip44

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/nostrium/nostrium/pkg/crypto"
	"github.com/nostrium/nostrium/pkg/event"
	"github.com/nostrium/nostrium/pkg/nerr"
)

const (
	version = 0x02
	salt    = "nip44-v2"

	minPlaintextLen = 1
	maxPlaintextLen = 65535

	minBase64Len = 132
	maxBase64Len = 87472
	minRawLen    = 99
	maxRawLen    = 65603

	nonceLen = 32
	macLen   = 32
)

// ConversationKey is the 32-byte per-peer-pair pre-shared-key this
// scheme's messages are all derived from: HMAC-SHA-256 with key
// "nip44-v2" over the ECDH x-coordinate of priv and pub. It is
// symmetric: ConversationKey(a, B) == ConversationKey(b, A).
func ConversationKey(priv event.PrivateKey, pub event.PublicKey) ([32]byte, error) {
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
	sharedX := crypto.ECDHSharedX(p, q)
	return crypto.HKDFExtract([]byte(salt), sharedX[:]), nil
}

// messageKeys is the per-message key triple derived from
// (conversationKey, nonce) via HKDF-expand to 76 bytes.
type messageKeys struct {
	chachaKey   []byte // [0:32)
	chachaNonce []byte // [32:44)
	hmacKey     []byte // [44:76)
}

func deriveMessageKeys(conversationKey, nonce []byte) (messageKeys, error) {
	if len(conversationKey) != 32 {
		return messageKeys{}, &nerr.InvalidInput{Name: "conversation_key", Expected: "32 bytes"}
	}
	if len(nonce) != nonceLen {
		return messageKeys{}, &nerr.InvalidInput{Name: "nonce", Expected: "32 bytes"}
	}
	okm, err := crypto.HKDFExpand(conversationKey, nonce, 76)
	if err != nil {
		return messageKeys{}, err
	}
	return messageKeys{
		chachaKey:   okm[0:32],
		chachaNonce: okm[32:44],
		hmacKey:     okm[44:76],
	}, nil
}

// calcPaddedLen returns the padded length for a plaintext of
// unpaddedLen bytes (1..65535): 32 for anything ≤32, otherwise the
// smallest multiple of a power-of-two-derived chunk size that can hold
// it. See NIP-44's padding scheme for the rationale.
func calcPaddedLen(unpaddedLen int) int {
	if unpaddedLen <= 32 {
		return 32
	}
	nextPower := 1 << (bits.Len(uint(unpaddedLen-1)))
	chunk := 32
	if nextPower > 256 {
		chunk = nextPower / 8
	}
	return chunk * (((unpaddedLen - 1) / chunk) + 1)
}

// pad prepends a big-endian uint16 length to plaintext and zero-fills
// out to 2+calcPaddedLen(len(plaintext)) bytes total.
func pad(plaintext []byte) ([]byte, error) {
	n := len(plaintext)
	if n < minPlaintextLen || n > maxPlaintextLen {
		return nil, &nerr.InvalidInput{Name: "plaintext", Expected: "1..65535 bytes"}
	}
	paddedLen := calcPaddedLen(n)
	out := make([]byte, 2+paddedLen)
	binary.BigEndian.PutUint16(out[0:2], uint16(n))
	copy(out[2:], plaintext)
	return out, nil
}

// unpad reverses pad, validating the declared length, the total size,
// and that every trailing byte is zero.
func unpad(padded []byte) ([]byte, error) {
	if len(padded) < 2 {
		return nil, &nerr.DecryptionFailed{Reason: "invalid padding"}
	}
	declaredLen := int(binary.BigEndian.Uint16(padded[0:2]))
	if declaredLen < minPlaintextLen || declaredLen > maxPlaintextLen {
		return nil, &nerr.DecryptionFailed{Reason: "invalid padding"}
	}
	if len(padded) != 2+calcPaddedLen(declaredLen) {
		return nil, &nerr.DecryptionFailed{Reason: "invalid padding"}
	}
	plaintext := padded[2 : 2+declaredLen]
	for _, b := range padded[2+declaredLen:] {
		if b != 0x00 {
			return nil, &nerr.DecryptionFailed{Reason: "invalid padding"}
		}
	}
	return plaintext, nil
}

// Encrypt encrypts plaintext (1..65535 UTF-8 bytes) under
// conversationKey with a freshly drawn random 32-byte nonce.
func Encrypt(plaintext string, conversationKey [32]byte) (string, error) {
	nonce, err := crypto.SecureRandom(nonceLen)
	if err != nil {
		return "", err
	}
	return EncryptWithNonce(plaintext, conversationKey, nonce)
}

// EncryptWithNonce encrypts plaintext using a caller-supplied 32-byte
// nonce, for deterministic test vectors. Reusing a nonce across
// messages under the same conversation key breaks confidentiality;
// only tests should call this directly.
func EncryptWithNonce(plaintext string, conversationKey [32]byte, nonce []byte) (string, error) {
	if len(nonce) != nonceLen {
		return "", &nerr.InvalidInput{Name: "nonce", Expected: "32 bytes"}
	}
	keys, err := deriveMessageKeys(conversationKey[:], nonce)
	if err != nil {
		return "", err
	}
	padded, err := pad([]byte(plaintext))
	if err != nil {
		return "", err
	}
	ciphertext, err := crypto.ChaCha20IETFXOR(keys.chachaKey, keys.chachaNonce, padded)
	if err != nil {
		return "", err
	}
	mac := macOver(keys.hmacKey, nonce, ciphertext)

	raw := make([]byte, 1+nonceLen+len(ciphertext)+macLen)
	raw[0] = version
	copy(raw[1:1+nonceLen], nonce)
	copy(raw[1+nonceLen:1+nonceLen+len(ciphertext)], ciphertext)
	copy(raw[1+nonceLen+len(ciphertext):], mac[:])

	return crypto.Base64StdEncode(raw), nil
}

// Decrypt decrypts a NIP-44 v2 payload under conversationKey.
func Decrypt(payload string, conversationKey [32]byte) (string, error) {
	if len(payload) == 0 {
		return "", &nerr.Unsupported{Operation: "nip44 version"}
	}
	if payload[0] == '#' {
		return "", &nerr.Unsupported{Operation: "nip44 version"}
	}
	if len(payload) < minBase64Len || len(payload) > maxBase64Len {
		return "", &nerr.InvalidInput{Name: "payload", Expected: "132..87472 base64 chars"}
	}

	raw, err := crypto.Base64StdDecode(payload)
	if err != nil {
		return "", err
	}
	if len(raw) < minRawLen || len(raw) > maxRawLen {
		return "", &nerr.InvalidInput{Name: "payload", Expected: "99..65603 raw bytes"}
	}
	if raw[0] != version {
		return "", &nerr.Unsupported{Operation: fmt.Sprintf("nip44 version %d", raw[0])}
	}

	nonce := raw[1:33]
	mac := raw[len(raw)-macLen:]
	ciphertext := raw[33 : len(raw)-macLen]

	keys, err := deriveMessageKeys(conversationKey[:], nonce)
	if err != nil {
		return "", err
	}

	expectedMAC := macOver(keys.hmacKey, nonce, ciphertext)
	if !crypto.ConstantTimeEqual(expectedMAC[:], mac) {
		return "", &nerr.DecryptionFailed{Reason: "invalid MAC"}
	}

	padded, err := crypto.ChaCha20IETFXOR(keys.chachaKey, keys.chachaNonce, ciphertext)
	if err != nil {
		return "", err
	}
	plaintext, err := unpad(padded)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// macOver computes HMAC-SHA-256(hmacKey, nonce ∥ ciphertext): the
// nonce is AAD prepended to the MAC'd message, not a separate
// parameter of the MAC primitive.
func macOver(hmacKey, nonce, ciphertext []byte) [32]byte {
	aad := make([]byte, 0, len(nonce)+len(ciphertext))
	aad = append(aad, nonce...)
	aad = append(aad, ciphertext...)
	return crypto.HMACSHA256(hmacKey, aad)
}
