// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package common

import (
	"fmt"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// HashAlgorithm names a hash function usable for deriving key hashes.
type HashAlgorithm string

const (
	Sha3   HashAlgorithm = "sha3"
	Blake3 HashAlgorithm = "blake3"
)

// Hasher maps arbitrary data to a fixed-width Hash.
type Hasher func(data []byte) Hash

// GetHasher resolves the hash function registered for the given algorithm.
func GetHasher(algorithm HashAlgorithm) (Hasher, error) {
	switch algorithm {
	case Sha3:
		return Sha3Hash, nil
	case Blake3:
		return Blake3Hash, nil
	}
	return nil, fmt.Errorf("unsupported hash algorithm: %q", algorithm)
}

var sha3HasherPool = sync.Pool{New: func() any { return sha3.New256() }}

// Sha3Hash computes the SHA3-256 digest of the given data.
func Sha3Hash(data []byte) Hash {
	return HashConcat(data)
}

type sha3Hasher interface {
	Reset()
	Write(in []byte) (int, error)
	Sum(b []byte) []byte
}

// Blake3Hash computes the 256-bit BLAKE3 digest of the given data.
func Blake3Hash(data []byte) Hash {
	return blake3.Sum256(data)
}

// HashConcat hashes the concatenation of the given parts with SHA3-256.
func HashConcat(parts ...[]byte) Hash {
	hasher := sha3HasherPool.Get().(sha3Hasher)
	hasher.Reset()
	for _, part := range parts {
		hasher.Write(part)
	}
	var res Hash
	hasher.Sum(res[:0])
	sha3HasherPool.Put(hasher)
	return res
}
