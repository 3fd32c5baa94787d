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

// Package shards fixes the secret sharing scheme used for wallet root
// secrets: exactly three shares with a threshold of two, serialized as
// lowercase hex. Any two of the device, auth, and recovery shards
// reconstruct the secret; one alone reveals nothing.
package shards

import (
	"encoding/hex"
	"fmt"

	"github.com/opencustody/shardkit/custody/internal/secretsharing/shamir"
)

const (
	// Count is the number of shards minted per wallet secret.
	Count = 3
	// Threshold is the number of shards required to reconstruct it.
	Threshold = 2
)

// Indices of each custodial role in the slice returned by Split.
const (
	// Device is kept on the user's device, sealed under a device-held key.
	Device = 0
	// Auth is held by the custodial backend as plain hex, access-controlled
	// server-side.
	Auth = 1
	// Recovery is escrowed sealed under a recovery-answer-derived key.
	Recovery = 2
)

// Split UTF-8 encodes secret, splits it 2-of-3, and returns the three
// shards as lowercase hex strings of length (len(secret)+1)*2. Engine
// validation errors propagate verbatim; in particular an empty secret fails
// with shamir.ErrEmptySecret.
func Split(secret string) ([]string, error) {
	shares, err := shamir.Split([]byte(secret), Count, Threshold)
	if err != nil {
		return nil, err
	}
	out := make([]string, Count)
	for i, share := range shares {
		out[i] = hex.EncodeToString(share)
	}
	return out, nil
}

// Combine reconstructs the secret from any two hex shards of the same split
// and decodes it as UTF-8. Malformed hex fails distinctly from the engine's
// own validation errors. Shards from two different splits reconstruct to
// garbage without error; the scheme embeds no checksum.
func Combine(a, b string) (string, error) {
	shareA, err := hex.DecodeString(a)
	if err != nil {
		return "", fmt.Errorf("decoding first shard: %w", err)
	}
	shareB, err := hex.DecodeString(b)
	if err != nil {
		return "", fmt.Errorf("decoding second shard: %w", err)
	}
	secret, err := shamir.Combine([][]byte{shareA, shareB})
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
