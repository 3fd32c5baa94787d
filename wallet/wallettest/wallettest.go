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

// Package wallettest provides a deterministic stub chain deriver for tests.
package wallettest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/opencustody/shardkit/wallet"
)

// Deriver derives deterministic fake wallets for the named chain. The
// public key hash is a digest of (chain, mnemonic), so the same mnemonic
// always maps to the same fake wallet.
type Deriver struct {
	Name string
	// Err, when set, is returned by every Derive call.
	Err error
}

// Chain implements wallet.Deriver.
func (d *Deriver) Chain() string { return d.Name }

// Derive implements wallet.Deriver.
func (d *Deriver) Derive(_ context.Context, mnemonic string) (wallet.Wallet, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	sum := sha256.Sum256([]byte(d.Name + ":" + mnemonic))
	digest := hex.EncodeToString(sum[:])
	return &Wallet{chain: d.Name, digest: digest}, nil
}

// Wallet is the handle type returned by Deriver.
type Wallet struct {
	chain  string
	digest string
}

// Chain implements wallet.Wallet.
func (w *Wallet) Chain() string { return w.chain }

// Address implements wallet.Wallet.
func (w *Wallet) Address() string { return w.chain + "1" + w.digest[:20] }

// PublicKeyHash implements wallet.Wallet.
func (w *Wallet) PublicKeyHash() string { return w.digest }
