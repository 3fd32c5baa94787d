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

// Package shamir implements t-of-n [Shamir Secret Sharing] (SSS) on
// arbitrary-size secrets over GF(2^8). SSS is based on the Lagrange
// interpolation theorem, which states that `t` points are enough to uniquely
// determine a polynomial of degree less than or equal to `t - 1`.
//
// Each share is `len(secret) + 1` bytes: one polynomial evaluation per
// secret byte followed by the share's x-coordinate. The trailing-x layout is
// the de facto wire format shared by hashicorp/vault-lineage
// implementations, so shares produced here interoperate with tooling that
// expects it.
//
// This scheme is secure under the following assumptions:
//   - The scheme requires a trusted dealer to generate the shares.
//     Participants must trust the dealer with access to the secret and to
//     properly generate the shares.
//   - The scheme assumes a passive adversary which can observe (n - t)
//     shares without being able to reconstruct the secret. The adversary
//     isn't allowed to participate in the combine step by providing a chosen
//     share.
//
// [Shamir Secret Sharing]: https://web.mit.edu/6.857/OldStuff/Fall03/ref/Shamir-HowToShareAsecrets.pdf
package shamir

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/opencustody/shardkit/custody/internal/secretsharing/gf256"
)

const (
	// MinShares is the smallest usable share count and threshold.
	MinShares = 2
	// MaxShares is the largest share count and threshold. Each share needs a
	// distinct nonzero x-coordinate and GF(2^8) only has 255 of them.
	MaxShares = 255
)

// Errors returned for invalid split input. Each violated rule surfaces its
// own sentinel so callers can present precise diagnostics.
var (
	ErrEmptySecret          = errors.New("secret cannot be empty")
	ErrShareCount           = errors.New("shares must be at least 2 and at most 255")
	ErrThreshold            = errors.New("threshold must be at least 2 and at most 255")
	ErrSharesBelowThreshold = errors.New("shares cannot be less than threshold")
)

// Errors returned for invalid combine input.
var (
	ErrCombineCount   = errors.New("shares must have at least 2 and at most 255 elements")
	ErrShareTooShort  = errors.New("each share must be at least 2 bytes")
	ErrLengthMismatch = errors.New("all shares must have the same byte length")
	ErrDuplicateShare = errors.New("shares must contain unique values but a duplicate was found")
)

// Split splits secret into shares many shares, any threshold of which
// reconstruct it via Combine. For each byte of the secret a fresh random
// polynomial of degree threshold-1 is built with that byte as its constant
// term, then evaluated at one randomly chosen nonzero x-coordinate per
// share. Coefficients and x-coordinates are drawn from crypto/rand; the
// secrecy of the scheme depends on it.
func Split(secret []byte, shares, threshold int) ([][]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if shares < MinShares || shares > MaxShares {
		return nil, ErrShareCount
	}
	if threshold < MinShares || threshold > MaxShares {
		return nil, ErrThreshold
	}
	if shares < threshold {
		return nil, ErrSharesBelowThreshold
	}

	xCoords, err := randomXCoordinates(shares)
	if err != nil {
		return nil, err
	}

	out := make([][]byte, shares)
	for i := range out {
		out[i] = make([]byte, len(secret)+1)
		out[i][len(secret)] = xCoords[i]
	}

	coefficients := make([]byte, threshold)
	for i, b := range secret {
		coefficients[0] = b
		if _, err := rand.Read(coefficients[1:]); err != nil {
			return nil, fmt.Errorf("reading random coefficients: %w", err)
		}
		for j, x := range xCoords {
			out[j][i] = evaluatePolynomial(coefficients, x)
		}
	}
	return out, nil
}

// Combine reconstructs the secret from shares produced by a single Split
// call. Any subset of at least the original threshold works; share order
// does not matter.
//
// Combine cannot detect bogus input beyond its format rules: shares below
// the threshold, or shares mixed from two different splits, reconstruct to
// deterministic garbage rather than an error. Validating the output (e.g.
// as a BIP-39 phrase) is the caller's concern.
func Combine(shares [][]byte) ([]byte, error) {
	if err := validateCombineInput(shares); err != nil {
		return nil, err
	}

	shareLen := len(shares[0])
	xCoords := make([]byte, len(shares))
	for i, s := range shares {
		xCoords[i] = s[shareLen-1]
	}

	secret := make([]byte, shareLen-1)
	for pos := range secret {
		b, err := interpolateAtZero(xCoords, shares, pos)
		if err != nil {
			return nil, err
		}
		secret[pos] = b
	}
	return secret, nil
}

func validateCombineInput(shares [][]byte) error {
	if len(shares) < MinShares || len(shares) > MaxShares {
		return ErrCombineCount
	}
	shareLen := len(shares[0])
	if shareLen < 2 {
		return ErrShareTooShort
	}
	var seen [256]bool
	for _, s := range shares {
		if len(s) != shareLen {
			return ErrLengthMismatch
		}
		x := s[len(s)-1]
		if seen[x] {
			return ErrDuplicateShare
		}
		seen[x] = true
	}
	return nil
}

// randomXCoordinates picks n pairwise-distinct nonzero field elements by
// shuffling the full multiplicative group with a crypto/rand Fisher-Yates
// and taking a prefix.
func randomXCoordinates(n int) ([]byte, error) {
	perm := make([]byte, MaxShares)
	for i := range perm {
		perm[i] = byte(i + 1)
	}
	for i := len(perm) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return nil, fmt.Errorf("reading random x-coordinate: %w", err)
		}
		perm[i], perm[j.Int64()] = perm[j.Int64()], perm[i]
	}
	return perm[:n], nil
}

// evaluatePolynomial evaluates f(x) by Horner's method where coefficients
// take the form f(x) = c[n-1]*x^(n-1) + ... + c[1]*x + c[0].
func evaluatePolynomial(coefficients []byte, x byte) byte {
	result := coefficients[len(coefficients)-1]
	for i := len(coefficients) - 2; i >= 0; i-- {
		result = gf256.Add(gf256.Multiply(result, x), coefficients[i])
	}
	return result
}

// interpolateAtZero recovers f(0) for the polynomial running through the
// points (xCoords[j], shares[j][pos]) via Lagrange interpolation:
//
//	f(0) = ∑j y[j] * ∏k≠j ( x[k] / (x[k] - x[j]) )
//
// Subtraction in GF(2^8) is XOR, so the basis denominator never hits zero
// once the x-coordinates are known to be distinct.
func interpolateAtZero(xCoords []byte, shares [][]byte, pos int) (byte, error) {
	var sum byte
	for j := range xCoords {
		basis := byte(1)
		for k := range xCoords {
			if k == j {
				continue
			}
			term, err := gf256.Divide(xCoords[k], gf256.Add(xCoords[k], xCoords[j]))
			if err != nil {
				return 0, err
			}
			basis = gf256.Multiply(basis, term)
		}
		sum = gf256.Add(sum, gf256.Multiply(shares[j][pos], basis))
	}
	return sum, nil
}
