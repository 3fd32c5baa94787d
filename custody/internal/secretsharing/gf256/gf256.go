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

// Package gf256 implements arithmetic over the Galois Field GF(2^8) under
// the Rijndael reduction polynomial (x^8 + x^4 + x^3 + x + 1). Products and
// quotients are computed through precomputed exponent and logarithm tables
// of the multiplicative group generated by 0x03.
//
// The tables are built once before main runs and are never written
// afterwards, so every operation in this package is safe for concurrent use
// without synchronization.
package gf256

import "errors"

// ErrDivideByZero is returned by Divide when the divisor is zero.
var ErrDivideByZero = errors.New("division by zero")

// irreduciblePolynomial is x^8 + x^4 + x^3 + x + 1 (0x11b), the same
// reduction polynomial AES uses. Any irreducible degree-8 polynomial yields
// a valid field; this one is the conventional choice across secret sharing
// implementations.
const irreduciblePolynomial = 0x11b

var (
	expTable [256]byte
	logTable [256]byte
)

func init() {
	// Walk the multiplicative group by repeatedly multiplying by the
	// generator 3: x*3 = (x << 1) ^ x, reduced mod the field polynomial.
	// The group has order 255, so the walk visits every nonzero element.
	x := 1
	for i := 0; i < 255; i++ {
		expTable[i] = byte(x)
		logTable[x] = byte(i)
		x = (x << 1) ^ x
		if x >= 256 {
			x ^= irreduciblePolynomial
		}
	}
	// exp is cyclic with period 255; padding the last slot keeps every
	// table access in [0, 255] without a second reduction.
	expTable[255] = expTable[0]
}

// Add returns a + b. Addition in GF(2^8) is XOR, always defined, and is its
// own inverse (a + b + b == a).
func Add(a, b byte) byte {
	return a ^ b
}

// Multiply returns a * b.
func Multiply(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[(int(logTable[a])+int(logTable[b]))%255]
}

// Divide returns a / b. Division by zero is undefined and returns
// ErrDivideByZero.
func Divide(a, b byte) (byte, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	if a == 0 {
		return 0, nil
	}
	return expTable[(int(logTable[a])-int(logTable[b])+255)%255], nil
}
