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

package envelope

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/google/tink/go/subtle/random"
)

// Algorithm selects the digest used by HashData.
type Algorithm string

// Supported digest algorithms. SHA1 exists for interoperability with legacy
// identifiers only; do not use it for anything integrity-relevant.
const (
	SHA1   Algorithm = "SHA-1"
	SHA256 Algorithm = "SHA-256"
	SHA512 Algorithm = "SHA-512"
)

func (a Algorithm) newHash() (func() hash.Hash, error) {
	switch a {
	case SHA1:
		return sha1.New, nil
	case SHA256:
		return sha256.New, nil
	case SHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", a)
	}
}

// HashData digests data with the selected algorithm and returns lowercase
// hex. When key is non-nil the result is the HMAC of data under key
// instead. Deterministic for identical (data, key, algorithm).
func HashData(data, key []byte, algorithm Algorithm) (string, error) {
	newHash, err := algorithm.newHash()
	if err != nil {
		return "", err
	}
	var h hash.Hash
	if key != nil {
		h = hmac.New(newHash, key)
	} else {
		h = newHash()
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// RandomHex returns size cryptographically random bytes as lowercase hex,
// for use as opaque identifiers. It is not a hash of anything.
func RandomHex(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("size must be positive, got %d", size)
	}
	return hex.EncodeToString(random.GetRandomBytes(uint32(size))), nil
}
