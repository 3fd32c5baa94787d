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

// Key material helpers: symmetric key generation, recovery-answer key
// derivation, and the P-256 key pair used by the hybrid path with its PEM
// interchange format.

package envelope

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/google/tink/go/subtle/random"
	"golang.org/x/crypto/argon2"
)

// KeyBytes is the symmetric key size used throughout (AES-256).
const KeyBytes = 32

// argon2id parameters for DeriveKey, per the RFC 9106 low-memory
// recommendation.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024
	argonThreads = 4
)

// GenerateKey returns a fresh random symmetric key.
func GenerateKey() []byte {
	return random.GetRandomBytes(KeyBytes)
}

// DeriveKey stretches a low-entropy recovery answer into a symmetric key
// with argon2id. Deterministic for the same (answer, salt) pair; the salt
// must be stored alongside the encrypted shard it protects.
func DeriveKey(answer, salt []byte) []byte {
	return argon2.IDKey(answer, salt, argonTime, argonMemory, argonThreads, KeyBytes)
}

// GenerateKeyPair returns a fresh P-256 key pair for the hybrid path.
func GenerateKeyPair() (*ecdh.PrivateKey, error) {
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating key pair: %w", err)
	}
	return key, nil
}

// MarshalPublicKey encodes pub as a PKIX PEM block.
func MarshalPublicKey(pub *ecdh.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("marshaling public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// ParsePublicKey decodes a PKIX PEM public key produced by MarshalPublicKey
// or by standard tooling.
func ParsePublicKey(pemBytes []byte) (*ecdh.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("failed to decode public key PEM")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	switch key := parsed.(type) {
	case *ecdh.PublicKey:
		return key, nil
	case *ecdsa.PublicKey:
		return key.ECDH()
	default:
		return nil, errors.New("not an EC public key")
	}
}

// MarshalPrivateKey encodes priv as a PKCS#8 PEM block.
func MarshalPrivateKey(priv *ecdh.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("marshaling private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// ParsePrivateKey decodes a PKCS#8 PEM private key.
func ParsePrivateKey(pemBytes []byte) (*ecdh.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("failed to decode private key PEM")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	switch key := parsed.(type) {
	case *ecdh.PrivateKey:
		return key, nil
	case *ecdsa.PrivateKey:
		return key.ECDH()
	default:
		return nil, errors.New("not an EC private key")
	}
}
