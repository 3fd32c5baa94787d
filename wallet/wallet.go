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

// Package wallet defines the boundary between the custody core and
// per-chain wallet libraries. The core hands a reconstructed mnemonic to
// each registered Deriver and never inspects chain internals; transaction
// construction, signing, and address derivation all live behind this
// boundary.
package wallet

import "context"

// Wallet is a chain-specific handle derived from a mnemonic.
type Wallet interface {
	// Chain names the chain this wallet belongs to (e.g. "bitcoin").
	Chain() string
	// Address returns the wallet's primary receive address.
	Address() string
	// PublicKeyHash returns a stable hex identifier for the wallet's public
	// key, suitable for backend registration without exposing key material.
	PublicKeyHash() string
}

// Deriver constructs a chain-specific wallet from a BIP-39 mnemonic.
// Implementations wrap the respective chain SDK; derivation may perform
// hardware-backed or otherwise slow key stretching, hence the context.
type Deriver interface {
	// Chain names the chain this deriver serves.
	Chain() string
	// Derive builds a wallet from the mnemonic. The mnemonic is passed
	// through unmodified; validating it is the deriver's choice.
	Derive(ctx context.Context, mnemonic string) (Wallet, error)
}
