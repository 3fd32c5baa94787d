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

package shamir_test

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/opencustody/shardkit/custody/internal/secretsharing/shamir"
)

func getRandomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		t.Fatalf("Failed to read random bytes: %v", err)
	}
	return b
}

func TestSplitCombineRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		secretLen int
		shares    int
		threshold int
	}{
		{secretLen: 1, shares: 2, threshold: 2},
		{secretLen: 32, shares: 3, threshold: 2},
		{secretLen: 64, shares: 5, threshold: 3},
		{secretLen: 16, shares: 10, threshold: 10},
		{secretLen: 8, shares: 255, threshold: 3},
		{secretLen: 10000, shares: 3, threshold: 2},
	} {
		t.Run(fmt.Sprintf("len=%d_%d-of-%d", tc.secretLen, tc.threshold, tc.shares), func(t *testing.T) {
			secret := getRandomBytes(t, tc.secretLen)
			shares, err := shamir.Split(secret, tc.shares, tc.threshold)
			if err != nil {
				t.Fatalf("Split() err = %v, want nil", err)
			}
			if len(shares) != tc.shares {
				t.Fatalf("Split() returned %d shares, want %d", len(shares), tc.shares)
			}
			for i, s := range shares {
				if len(s) != tc.secretLen+1 {
					t.Errorf("share %d has length %d, want %d", i, len(s), tc.secretLen+1)
				}
			}
			// A threshold-sized subset is enough.
			got, err := shamir.Combine(shares[:tc.threshold])
			if err != nil {
				t.Fatalf("Combine() err = %v, want nil", err)
			}
			if diff := cmp.Diff(secret, got); diff != "" {
				t.Errorf("Combine() returned unexpected diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCombineAllSubsets(t *testing.T) {
	secret := []byte("abcdefghijklmnopqrstuvwxyz123456")
	shares, err := shamir.Split(secret, 5, 3)
	if err != nil {
		t.Fatalf("Split() err = %v, want nil", err)
	}
	for i := 0; i < len(shares); i++ {
		for j := i + 1; j < len(shares); j++ {
			for k := j + 1; k < len(shares); k++ {
				subset := [][]byte{shares[i], shares[j], shares[k]}
				got, err := shamir.Combine(subset)
				if err != nil {
					t.Fatalf("Combine(shares %d,%d,%d) err = %v, want nil", i, j, k, err)
				}
				if !bytes.Equal(got, secret) {
					t.Errorf("Combine(shares %d,%d,%d) = %q, want %q", i, j, k, got, secret)
				}
			}
		}
	}
}

func TestCombineOrderIndependent(t *testing.T) {
	secret := getRandomBytes(t, 24)
	shares, err := shamir.Split(secret, 3, 2)
	if err != nil {
		t.Fatalf("Split() err = %v, want nil", err)
	}
	forward, err := shamir.Combine([][]byte{shares[0], shares[2]})
	if err != nil {
		t.Fatalf("Combine() err = %v, want nil", err)
	}
	backward, err := shamir.Combine([][]byte{shares[2], shares[0]})
	if err != nil {
		t.Fatalf("Combine() err = %v, want nil", err)
	}
	if !bytes.Equal(forward, backward) || !bytes.Equal(forward, secret) {
		t.Errorf("Combine() order dependence: forward = %x, backward = %x, want both %x", forward, backward, secret)
	}
}

func TestBelowThresholdYieldsGarbageNotError(t *testing.T) {
	secret := getRandomBytes(t, 32)
	shares, err := shamir.Split(secret, 5, 3)
	if err != nil {
		t.Fatalf("Split() err = %v, want nil", err)
	}
	got, err := shamir.Combine(shares[:2])
	if err != nil {
		t.Fatalf("Combine() with 2 of 3 required shares err = %v, want nil", err)
	}
	if bytes.Equal(got, secret) {
		t.Errorf("Combine() below threshold reconstructed the secret, want garbage")
	}
}

func TestMixedSplitsYieldGarbageNotError(t *testing.T) {
	secret := getRandomBytes(t, 32)
	first, err := shamir.Split(secret, 3, 2)
	if err != nil {
		t.Fatalf("Split() err = %v, want nil", err)
	}
	second, err := shamir.Split(secret, 3, 2)
	if err != nil {
		t.Fatalf("Split() err = %v, want nil", err)
	}
	// Find a pair with distinct x-coordinates; mixing splits must still
	// "succeed" by design.
	for _, a := range first {
		for _, b := range second {
			if a[len(a)-1] == b[len(b)-1] {
				continue
			}
			got, err := shamir.Combine([][]byte{a, b})
			if err != nil {
				t.Fatalf("Combine() across splits err = %v, want nil", err)
			}
			if bytes.Equal(got, secret) {
				t.Errorf("Combine() across splits reconstructed the secret, want garbage")
			}
			return
		}
	}
	t.Skip("both splits drew identical x-coordinate sets")
}

func TestSplitNonDeterministic(t *testing.T) {
	secret := []byte("the same secret split twice")
	first, err := shamir.Split(secret, 3, 2)
	if err != nil {
		t.Fatalf("Split() err = %v, want nil", err)
	}
	second, err := shamir.Split(secret, 3, 2)
	if err != nil {
		t.Fatalf("Split() err = %v, want nil", err)
	}
	for i := range first {
		if !bytes.Equal(first[i], second[i]) {
			return
		}
	}
	t.Errorf("Split() produced identical share sets on two calls")
}

func TestSplitValidation(t *testing.T) {
	secret := []byte("secret")
	for _, tc := range []struct {
		name      string
		secret    []byte
		shares    int
		threshold int
		want      error
		wantMsg   string
	}{
		{
			name:      "empty secret",
			secret:    []byte{},
			shares:    3,
			threshold: 2,
			want:      shamir.ErrEmptySecret,
			wantMsg:   "secret cannot be empty",
		},
		{
			name:      "nil secret",
			secret:    nil,
			shares:    3,
			threshold: 2,
			want:      shamir.ErrEmptySecret,
			wantMsg:   "secret cannot be empty",
		},
		{
			name:      "one share",
			secret:    secret,
			shares:    1,
			threshold: 1,
			want:      shamir.ErrShareCount,
			wantMsg:   "shares must be at least 2 and at most 255",
		},
		{
			name:      "too many shares",
			secret:    secret,
			shares:    256,
			threshold: 2,
			want:      shamir.ErrShareCount,
			wantMsg:   "shares must be at least 2 and at most 255",
		},
		{
			name:      "threshold too low",
			secret:    secret,
			shares:    3,
			threshold: 1,
			want:      shamir.ErrThreshold,
			wantMsg:   "threshold must be at least 2 and at most 255",
		},
		{
			name:      "threshold too high",
			secret:    secret,
			shares:    3,
			threshold: 256,
			want:      shamir.ErrThreshold,
			wantMsg:   "threshold must be at least 2 and at most 255",
		},
		{
			name:      "shares below threshold",
			secret:    secret,
			shares:    2,
			threshold: 3,
			want:      shamir.ErrSharesBelowThreshold,
			wantMsg:   "shares cannot be less than threshold",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := shamir.Split(tc.secret, tc.shares, tc.threshold)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Split() err = %v, want %v", err, tc.want)
			}
			if err.Error() != tc.wantMsg {
				t.Errorf("Split() err message = %q, want %q", err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestCombineValidation(t *testing.T) {
	for _, tc := range []struct {
		name    string
		shares  [][]byte
		want    error
		wantMsg string
	}{
		{
			name:    "no shares",
			shares:  [][]byte{},
			want:    shamir.ErrCombineCount,
			wantMsg: "shares must have at least 2 and at most 255 elements",
		},
		{
			name:    "one share",
			shares:  [][]byte{{1, 2, 3}},
			want:    shamir.ErrCombineCount,
			wantMsg: "shares must have at least 2 and at most 255 elements",
		},
		{
			name:    "shares too short",
			shares:  [][]byte{{1}, {2}},
			want:    shamir.ErrShareTooShort,
			wantMsg: "each share must be at least 2 bytes",
		},
		{
			name:    "length mismatch",
			shares:  [][]byte{{1, 2, 3, 4}, {5, 6, 7}},
			want:    shamir.ErrLengthMismatch,
			wantMsg: "all shares must have the same byte length",
		},
		{
			name:    "duplicate x-coordinate",
			shares:  [][]byte{{10, 20, 7}, {30, 40, 7}},
			want:    shamir.ErrDuplicateShare,
			wantMsg: "shares must contain unique values but a duplicate was found",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := shamir.Combine(tc.shares)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Combine() err = %v, want %v", err, tc.want)
			}
			if err.Error() != tc.wantMsg {
				t.Errorf("Combine() err message = %q, want %q", err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestCombineTooManyShares(t *testing.T) {
	shares := make([][]byte, 256)
	for i := range shares {
		shares[i] = []byte{0, byte(i)}
	}
	if _, err := shamir.Combine(shares); !errors.Is(err, shamir.ErrCombineCount) {
		t.Errorf("Combine() with 256 shares err = %v, want %v", err, shamir.ErrCombineCount)
	}
}

func TestMnemonicVector(t *testing.T) {
	const mnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	shares, err := shamir.Split([]byte(mnemonic), 3, 2)
	if err != nil {
		t.Fatalf("Split() err = %v, want nil", err)
	}
	for _, pair := range [][2]int{{0, 1}, {0, 2}, {1, 2}} {
		got, err := shamir.Combine([][]byte{shares[pair[0]], shares[pair[1]]})
		if err != nil {
			t.Fatalf("Combine(shares %d,%d) err = %v, want nil", pair[0], pair[1], err)
		}
		if string(got) != mnemonic {
			t.Errorf("Combine(shares %d,%d) = %q, want %q", pair[0], pair[1], got, mnemonic)
		}
	}
}

func TestXCoordinatesDistinctAndNonzero(t *testing.T) {
	secret := getRandomBytes(t, 4)
	shares, err := shamir.Split(secret, 255, 2)
	if err != nil {
		t.Fatalf("Split() err = %v, want nil", err)
	}
	var seen [256]bool
	for i, s := range shares {
		x := s[len(s)-1]
		if x == 0 {
			t.Errorf("share %d has x-coordinate 0", i)
		}
		if seen[x] {
			t.Errorf("share %d reuses x-coordinate %d", i, x)
		}
		seen[x] = true
	}
}
