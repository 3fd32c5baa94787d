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

// Package custody implements the shard lifecycle for non-custodial wallets:
// splitting a freshly generated mnemonic into device, auth, and recovery
// shards, rebuilding wallets from any two of them, and re-minting shards
// during recovery.
//
// The trust model is 2-of-3: the device shard stays on the user's device
// sealed under a device-held key, the auth shard is plain hex held by the
// custodial backend, and the recovery shard is escrowed sealed under a key
// derived from the user's recovery answer. No single party ever holds
// enough material to reconstruct the secret alone.
//
// All methods are stateless and safe for concurrent use; re-running any of
// them with the same inputs is idempotent aside from fresh randomness in
// newly minted shards and envelopes.
package custody

import (
	"context"
	"errors"
	"fmt"

	glog "github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/opencustody/shardkit/custody/envelope"
	"github.com/opencustody/shardkit/custody/shards"
	"github.com/opencustody/shardkit/mnemonic"
	"github.com/opencustody/shardkit/wallet"
)

// ErrInvalidRecoveryAnswer is the only error RecoverWallet returns. Every
// internal failure collapses into it so the caller cannot probe which part
// of the recovery material was wrong.
var ErrInvalidRecoveryAnswer = errors.New("invalid recovery answer")

// MnemonicSource generates BIP-39 phrases at the requested entropy size in
// bits.
type MnemonicSource interface {
	Generate(bits int) (string, error)
}

// Client orchestrates the shard lifecycle. Collaborators are injected at
// construction; the package keeps no global state.
type Client struct {
	mnemonics MnemonicSource
	derivers  []wallet.Deriver
}

// NewClient returns a Client using the given mnemonic source and per-chain
// derivers. A nil source falls back to the built-in BIP-39 generator;
// derivers may be empty for callers that only need shard handling.
func NewClient(source MnemonicSource, derivers ...wallet.Deriver) *Client {
	if source == nil {
		source = mnemonic.Generator{}
	}
	return &Client{mnemonics: source, derivers: derivers}
}

// GeneratedWallet is the result of GenerateWallet. The mnemonic itself is
// deliberately absent: it exists only transiently during generation.
type GeneratedWallet struct {
	// WalletID is an opaque identifier for backend registration.
	WalletID string
	// EncryptedDeviceShard is an envelope JSON sealed under the device key.
	EncryptedDeviceShard string
	// AuthShard is plain lowercase hex, for the custodial backend.
	AuthShard string
	// EncryptedRecoveryShard is an envelope JSON sealed under the
	// recovery-answer-derived key.
	EncryptedRecoveryShard string
	// PublicKeyHashes maps chain name to the derived wallet's public key
	// hash, one entry per configured deriver.
	PublicKeyHashes map[string]string
}

// DerivedWallet is the result of rebuilding a wallet from two shards.
type DerivedWallet struct {
	// Mnemonic is the reconstructed root secret.
	Mnemonic string
	// Wallets holds one handle per configured deriver.
	Wallets []wallet.Wallet
}

// RecoveredWallet is the result of RecoverWallet: a freshly minted shard
// set for the same root secret.
type RecoveredWallet struct {
	// EncryptedDeviceShard is the new device shard sealed under the new
	// device key.
	EncryptedDeviceShard string
	// AuthShard is the new auth shard; the caller must replace the
	// backend-held one with it.
	AuthShard string
	// Mnemonic is the reconstructed root secret, for re-deriving wallets on
	// the replacement device.
	Mnemonic string
}

// GenerateWallet mints a fresh mnemonic at the given entropy size, splits
// it into the three custody shards, and seals the device and recovery
// shards under the supplied keys. Either the full shard set is returned or
// the call fails with no partial result.
func (c *Client) GenerateWallet(ctx context.Context, deviceKey, recoveryKey []byte, entropyBits int) (*GeneratedWallet, error) {
	phrase, err := c.mnemonics.Generate(entropyBits)
	if err != nil {
		return nil, fmt.Errorf("generating mnemonic: %w", err)
	}
	shardSet, err := shards.Split(phrase)
	if err != nil {
		return nil, fmt.Errorf("splitting key: %w", err)
	}
	encryptedDevice, err := envelope.Encrypt([]byte(shardSet[shards.Device]), deviceKey)
	if err != nil {
		return nil, fmt.Errorf("encrypting device shard: %w", err)
	}
	encryptedRecovery, err := envelope.Encrypt([]byte(shardSet[shards.Recovery]), recoveryKey)
	if err != nil {
		return nil, fmt.Errorf("encrypting recovery shard: %w", err)
	}
	hashes := make(map[string]string, len(c.derivers))
	for _, d := range c.derivers {
		w, err := d.Derive(ctx, phrase)
		if err != nil {
			return nil, fmt.Errorf("deriving %s wallet: %w", d.Chain(), err)
		}
		hashes[d.Chain()] = w.PublicKeyHash()
	}
	return &GeneratedWallet{
		WalletID:               uuid.NewString(),
		EncryptedDeviceShard:   encryptedDevice,
		AuthShard:              shardSet[shards.Auth],
		EncryptedRecoveryShard: encryptedRecovery,
		PublicKeyHashes:        hashes,
	}, nil
}

// CombineShards reconstructs the mnemonic from any two plain hex shards of
// the same split and derives a wallet handle per configured chain. Shards
// from two different splits reconstruct to garbage without error; the
// derivers are the first place that garbage becomes visible.
func (c *Client) CombineShards(ctx context.Context, shardA, shardB string) (*DerivedWallet, error) {
	phrase, err := shards.Combine(shardA, shardB)
	if err != nil {
		return nil, err
	}
	wallets := make([]wallet.Wallet, 0, len(c.derivers))
	for _, d := range c.derivers {
		w, err := d.Derive(ctx, phrase)
		if err != nil {
			return nil, fmt.Errorf("deriving %s wallet: %w", d.Chain(), err)
		}
		wallets = append(wallets, w)
	}
	return &DerivedWallet{Mnemonic: phrase, Wallets: wallets}, nil
}

// DeriveWallet unseals the device shard with deviceKey and rebuilds the
// wallet with the backend-held auth shard. Decryption failures and combine
// violations propagate with their precise causes.
func (c *Client) DeriveWallet(ctx context.Context, encryptedDeviceShard string, deviceKey []byte, authShard string) (*DerivedWallet, error) {
	deviceShard, err := envelope.Decrypt(encryptedDeviceShard, deviceKey)
	if err != nil {
		return nil, fmt.Errorf("decrypting device shard: %w", err)
	}
	return c.CombineShards(ctx, string(deviceShard), authShard)
}

// RecoverWallet rebuilds the mnemonic from the escrowed recovery shard and
// the backend-held auth shard, then re-splits it with fresh randomness and
// seals the new device shard under newDeviceKey. The returned auth shard
// replaces the backend-held one; revoking the old shard is backend policy,
// not enforced here.
//
// Every internal failure — wrong recovery key, tampered envelope, malformed
// JSON, invalid hex, combine violation — is reported uniformly as
// ErrInvalidRecoveryAnswer.
func (c *Client) RecoverWallet(ctx context.Context, encryptedRecoveryShard string, recoveryKey []byte, authShard string, newDeviceKey []byte) (*RecoveredWallet, error) {
	recovered, err := c.recoverWallet(ctx, encryptedRecoveryShard, recoveryKey, authShard, newDeviceKey)
	if err != nil {
		// The cause stays out of the returned error by design.
		glog.Warningf("Wallet recovery failed: %v", err)
		return nil, ErrInvalidRecoveryAnswer
	}
	return recovered, nil
}

func (c *Client) recoverWallet(_ context.Context, encryptedRecoveryShard string, recoveryKey []byte, authShard string, newDeviceKey []byte) (*RecoveredWallet, error) {
	recoveryShard, err := envelope.Decrypt(encryptedRecoveryShard, recoveryKey)
	if err != nil {
		return nil, fmt.Errorf("decrypting recovery shard: %w", err)
	}
	phrase, err := shards.Combine(string(recoveryShard), authShard)
	if err != nil {
		return nil, fmt.Errorf("combining shards: %w", err)
	}
	fresh, err := shards.Split(phrase)
	if err != nil {
		return nil, fmt.Errorf("re-splitting key: %w", err)
	}
	encryptedDevice, err := envelope.Encrypt([]byte(fresh[shards.Device]), newDeviceKey)
	if err != nil {
		return nil, fmt.Errorf("encrypting new device shard: %w", err)
	}
	return &RecoveredWallet{
		EncryptedDeviceShard: encryptedDevice,
		AuthShard:            fresh[shards.Auth],
		Mnemonic:             phrase,
	}, nil
}
