// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/Fantom-foundation/kvstate/common"
)

const versionSize = 8                 // version number size (uint64)
const maxVersion = 0xFFFFFFFFFFFFFFFE // max version - must be less than the max value to fit into limit range

var limitVersion = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF} // max range value, must be greater than maxVersion

// valueKey is a key of the value records, it consists of
// * the key hash
// * the version, represented as an inverse value to sort from the highest version
type valueKey [common.HashSize + versionSize]byte

func (k *valueKey) set(hash common.Hash, version uint64) {
	copy(k[:common.HashSize], hash[:])
	binary.BigEndian.PutUint64(k[common.HashSize:], maxVersion-version)
}

func (k *valueKey) version() uint64 {
	return maxVersion - binary.BigEndian.Uint64(k[common.HashSize:])
}

// getRange provides a key range for iterating the records of the key from the
// version of this key down to the first version.
func (k *valueKey) getRange() (start, limit []byte) {
	end := *k
	copy(end[common.HashSize:], limitVersion)
	return k[:], end[:]
}

// getAllVersionsRange provides a key range covering every record of the given key hash.
func getAllVersionsRange(hash common.Hash) (start, limit []byte) {
	var k valueKey
	k.set(hash, maxVersion)
	return k.getRange()
}

// Metadata keys.
var (
	latestVersionKey = []byte("latest")
	layoutKey        = []byte("layout")
)

const rootHashPrefix = 'r'

// rootHashKey is a key of the root hash records, it consists of
// * the root hash prefix
// * the version, represented as an inverse value to sort from the highest version
type rootHashKey [1 + versionSize]byte

func (k *rootHashKey) set(version uint64) {
	k[0] = rootHashPrefix
	binary.BigEndian.PutUint64(k[1:], maxVersion-version)
}

func (k *rootHashKey) get() uint64 {
	return maxVersion - binary.BigEndian.Uint64(k[1:])
}

// getRootHashRangeFrom provides a key range for iterating root hashes from the
// given version to the first version.
func getRootHashRangeFrom(version uint64) (start, limit []byte) {
	var from, end rootHashKey
	from.set(version)
	end[0] = rootHashPrefix
	copy(end[1:], limitVersion)
	return from[:], end[:]
}

// layoutOf describes the on-disk layout, a store can only be reopened with
// the same layout.
func layoutOf(hash common.HashAlgorithm) []byte {
	return []byte(fmt.Sprintf("kvstate/1/%s", hash))
}

func encodeVersion(version uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, version)
}

func decodeVersion(data []byte) (uint64, error) {
	if len(data) != versionSize {
		return 0, fmt.Errorf("invalid version encoding of length %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

// Value record types.
const (
	tombstoneRecord byte = 0
	valueRecord     byte = 1
)

// encodeRecord encodes a value record, a nil value is encoded as tombstone.
func encodeRecord(value []byte) []byte {
	if value == nil {
		return []byte{tombstoneRecord}
	}
	res := make([]byte, 0, 1+len(value))
	res = append(res, valueRecord)
	return append(res, value...)
}

// decodeRecord decodes a value record into a fresh slice, a tombstone is
// decoded as nil value.
func decodeRecord(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty value record")
	}
	switch data[0] {
	case tombstoneRecord:
		if len(data) != 1 {
			return nil, fmt.Errorf("invalid tombstone record of length %d", len(data))
		}
		return nil, nil
	case valueRecord:
		res := make([]byte, len(data)-1)
		copy(res, data[1:])
		return res, nil
	}
	return nil, fmt.Errorf("unknown value record type %d", data[0])
}
