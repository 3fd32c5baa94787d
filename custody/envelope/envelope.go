// Copyright 2026 Shardkit Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package envelope implements the encryption applied to shards at rest and
// in transit: AES-256-GCM envelopes under a caller-held symmetric key, and
// an ECDH + AES-GCM hybrid scheme for recipients that only publish a public
// key. Envelopes serialize as JSON with base64 fields; the IV is fresh per
// call, so encrypting identical plaintext twice never yields the same
// envelope.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/tink/go/subtle/random"
)

// ivBytes is the GCM-standard nonce size.
const ivBytes = 12

// ErrDecryptFailed is returned for every authentication failure. Wrong key,
// tampered ciphertext, and tampered IV are deliberately indistinguishable
// so that callers cannot be used as a decryption oracle.
var ErrDecryptFailed = errors.New("decryption failed")

// Envelope is the serialized form of a symmetric encryption.
type Envelope struct {
	IV         string `json:"iv"`
	Ciphertext string `json:"ciphertext"`
}

// HybridEnvelope carries a public-key hybrid encryption: the sender's
// ephemeral public key (uncompressed point) plus the AEAD output.
type HybridEnvelope struct {
	EphemeralPublicKey string `json:"ephemeralPublicKey"`
	IV                 string `json:"iv"`
	Ciphertext         string `json:"ciphertext"`
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Encrypt seals data under key with a fresh random IV and returns the
// envelope as JSON text.
func Encrypt(data, key []byte) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}
	iv := random.GetRandomBytes(ivBytes)
	ciphertext := aead.Seal(nil, iv, data, nil)
	return marshalEnvelope(Envelope{
		IV:         base64.StdEncoding.EncodeToString(iv),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	})
}

// Decrypt opens an envelope produced by Encrypt. Malformed JSON, missing
// fields, and bad base64 fail with distinct parse errors; any
// authentication failure is reported uniformly as ErrDecryptFailed. Unknown
// JSON keys are ignored.
func Decrypt(envelopeJSON string, key []byte) ([]byte, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(envelopeJSON), &env); err != nil {
		return nil, fmt.Errorf("parsing envelope: %w", err)
	}
	if env.IV == "" || env.Ciphertext == "" {
		return nil, errors.New("envelope is missing iv or ciphertext")
	}
	iv, ciphertext, err := decodeEnvelopeFields(env.IV, env.Ciphertext)
	if err != nil {
		return nil, err
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return open(aead, iv, ciphertext)
}

// EncryptWithPublicKey seals data for the holder of the private key matching
// recipient. A fresh ephemeral key pair is generated per call; ECDH between
// the ephemeral private key and the recipient's public key, hashed with
// SHA-256, keys the AEAD. Repeated encryption of identical plaintext under
// the same recipient key therefore yields different envelopes.
func EncryptWithPublicKey(recipient *ecdh.PublicKey, data []byte) (string, error) {
	ephemeral, err := recipient.Curve().GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generating ephemeral key: %w", err)
	}
	shared, err := ephemeral.ECDH(recipient)
	if err != nil {
		return "", fmt.Errorf("deriving shared secret: %w", err)
	}
	sharedKey := sha256.Sum256(shared)
	aead, err := newGCM(sharedKey[:])
	if err != nil {
		return "", err
	}
	iv := random.GetRandomBytes(ivBytes)
	ciphertext := aead.Seal(nil, iv, data, nil)
	return marshalEnvelope(HybridEnvelope{
		EphemeralPublicKey: base64.StdEncoding.EncodeToString(ephemeral.PublicKey().Bytes()),
		IV:                 base64.StdEncoding.EncodeToString(iv),
		Ciphertext:         base64.StdEncoding.EncodeToString(ciphertext),
	})
}

// DecryptWithPrivateKey opens an envelope produced by EncryptWithPublicKey
// by re-deriving the shared secret from priv and the embedded ephemeral
// public key. Failure taxonomy matches Decrypt; an ephemeral key that does
// not decode to a valid curve point counts as tampering.
func DecryptWithPrivateKey(priv *ecdh.PrivateKey, envelopeJSON string) ([]byte, error) {
	var env HybridEnvelope
	if err := json.Unmarshal([]byte(envelopeJSON), &env); err != nil {
		return nil, fmt.Errorf("parsing envelope: %w", err)
	}
	if env.EphemeralPublicKey == "" || env.IV == "" || env.Ciphertext == "" {
		return nil, errors.New("envelope is missing ephemeralPublicKey, iv or ciphertext")
	}
	ephemeralBytes, err := base64.StdEncoding.DecodeString(env.EphemeralPublicKey)
	if err != nil {
		return nil, fmt.Errorf("decoding ephemeralPublicKey: %w", err)
	}
	iv, ciphertext, err := decodeEnvelopeFields(env.IV, env.Ciphertext)
	if err != nil {
		return nil, err
	}
	ephemeral, err := priv.Curve().NewPublicKey(ephemeralBytes)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	shared, err := priv.ECDH(ephemeral)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	sharedKey := sha256.Sum256(shared)
	aead, err := newGCM(sharedKey[:])
	if err != nil {
		return nil, err
	}
	return open(aead, iv, ciphertext)
}

func marshalEnvelope(env any) (string, error) {
	out, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("marshaling envelope: %w", err)
	}
	return string(out), nil
}

func decodeEnvelopeFields(ivB64, ciphertextB64 string) (iv, ciphertext []byte, err error) {
	if iv, err = base64.StdEncoding.DecodeString(ivB64); err != nil {
		return nil, nil, fmt.Errorf("decoding iv: %w", err)
	}
	if ciphertext, err = base64.StdEncoding.DecodeString(ciphertextB64); err != nil {
		return nil, nil, fmt.Errorf("decoding ciphertext: %w", err)
	}
	return iv, ciphertext, nil
}

func open(aead cipher.AEAD, iv, ciphertext []byte) ([]byte, error) {
	// Open panics on a wrong-size nonce; a truncated IV is tampering like
	// any other.
	if len(iv) != aead.NonceSize() {
		return nil, ErrDecryptFailed
	}
	plaintext, err := aead.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}
