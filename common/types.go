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

import "encoding/hex"

// HashSize is the number of bytes of a Hash.
const HashSize = 32

// Hash is a 32-byte digest. It is the address of consensus-critical keys in
// the authenticated tree and the commitment type of tree nodes.
type Hash [HashSize]byte

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// HashFromBytes converts the given slice into a Hash. It fails if the slice
// does not have exactly HashSize bytes.
func HashFromBytes(data []byte) (Hash, error) {
	var res Hash
	if len(data) != HashSize {
		return res, ErrInvalidHashLength
	}
	copy(res[:], data)
	return res, nil
}
