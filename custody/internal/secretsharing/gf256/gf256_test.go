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

package gf256_test

import (
	"errors"
	"testing"

	"github.com/opencustody/shardkit/custody/internal/secretsharing/gf256"
)

func TestAddIsXOR(t *testing.T) {
	for _, tc := range []struct {
		a    byte
		b    byte
		want byte
	}{
		{a: 0x00, b: 0x00, want: 0x00},
		{a: 0xFF, b: 0x00, want: 0xFF},
		{a: 0xFF, b: 0xFF, want: 0x00},
		{a: 0x53, b: 0xCA, want: 0x99},
	} {
		if got := gf256.Add(tc.a, tc.b); got != tc.want {
			t.Errorf("Add(%#x, %#x) = %#x, want %#x", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestAddSelfInverse(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			if got := gf256.Add(gf256.Add(byte(a), byte(b)), byte(b)); got != byte(a) {
				t.Fatalf("Add(Add(%d, %d), %d) = %d, want %d", a, b, b, got, a)
			}
		}
	}
}

func TestMultiply(t *testing.T) {
	for _, tc := range []struct {
		a    byte
		b    byte
		want byte
	}{
		// Known products in the Rijndael field, cross-checked against
		// https://en.wikipedia.org/wiki/Finite_field_arithmetic#Rijndael's_(AES)_finite_field
		{a: 0x53, b: 0xCA, want: 0x01},
		{a: 0x02, b: 0x87, want: 0x15},
		{a: 0x03, b: 0x6E, want: 0xB2},
		// Multiplying by 2 past 0x80 exercises the polynomial reduction.
		{a: 0x80, b: 0x02, want: 0x1B},
		// Zero annihilates, one is the identity.
		{a: 0x00, b: 0xAB, want: 0x00},
		{a: 0xAB, b: 0x00, want: 0x00},
		{a: 0x01, b: 0xAB, want: 0xAB},
	} {
		if got := gf256.Multiply(tc.a, tc.b); got != tc.want {
			t.Errorf("Multiply(%#x, %#x) = %#x, want %#x", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestMultiplyCommutes(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := a + 1; b < 256; b++ {
			ab := gf256.Multiply(byte(a), byte(b))
			ba := gf256.Multiply(byte(b), byte(a))
			if ab != ba {
				t.Fatalf("Multiply(%d, %d) = %d, Multiply(%d, %d) = %d, want equal", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestMultiplyDistributesOverAdd(t *testing.T) {
	for _, triple := range [][3]byte{
		{3, 7, 200},
		{0x53, 0xCA, 0x11},
		{255, 254, 253},
		{1, 0, 99},
	} {
		a, b, c := triple[0], triple[1], triple[2]
		left := gf256.Multiply(a, gf256.Add(b, c))
		right := gf256.Add(gf256.Multiply(a, b), gf256.Multiply(a, c))
		if left != right {
			t.Errorf("a*(b+c) = %d, a*b + a*c = %d for (%d, %d, %d), want equal", left, right, a, b, c)
		}
	}
}

func TestDivideInvertsMultiply(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 1; b < 256; b++ {
			product := gf256.Multiply(byte(a), byte(b))
			got, err := gf256.Divide(product, byte(b))
			if err != nil {
				t.Fatalf("Divide(%d, %d) err = %v, want nil", product, b, err)
			}
			if got != byte(a) {
				t.Fatalf("Divide(Multiply(%d, %d), %d) = %d, want %d", a, b, b, got, a)
			}
		}
	}
}

func TestDivideByZero(t *testing.T) {
	if _, err := gf256.Divide(0x42, 0); !errors.Is(err, gf256.ErrDivideByZero) {
		t.Errorf("Divide(0x42, 0) err = %v, want %v", err, gf256.ErrDivideByZero)
	}
}

func TestDivideZeroNumerator(t *testing.T) {
	for b := 1; b < 256; b++ {
		got, err := gf256.Divide(0, byte(b))
		if err != nil {
			t.Fatalf("Divide(0, %d) err = %v, want nil", b, err)
		}
		if got != 0 {
			t.Fatalf("Divide(0, %d) = %d, want 0", b, got)
		}
	}
}
