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

// Package mnemonic generates and validates BIP-39 phrases, the root secrets
// the custody flows split into shards.
package mnemonic

import (
	"fmt"

	bip39 "github.com/tyler-smith/go-bip39"
)

// Entropy sizes accepted by Generate, in bits.
const (
	// Entropy128 yields a 12-word phrase.
	Entropy128 = 128
	// Entropy256 yields a 24-word phrase.
	Entropy256 = 256
)

// Generate returns a fresh phrase with the given entropy size in bits.
// bip39 accepts any multiple of 32 between 128 and 256.
func Generate(bits int) (string, error) {
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("generating entropy: %w", err)
	}
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generating mnemonic: %w", err)
	}
	return phrase, nil
}

// Valid reports whether phrase is a well-formed BIP-39 mnemonic with a
// correct checksum word.
func Valid(phrase string) bool {
	return bip39.IsMnemonicValid(phrase)
}

// Generator adapts Generate to the custody client's collaborator interface.
type Generator struct{}

// Generate implements custody.MnemonicSource.
func (Generator) Generate(bits int) (string, error) {
	return Generate(bits)
}
