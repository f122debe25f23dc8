// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package tree

import (
	"strings"

	"github.com/Fantom-foundation/kvstate/common"
)

// Nibble is a 4-bit value in the range 0-F. It is a single letter used to
// navigate in the tree.
type Nibble byte

// Rune converts a Nibble in a hexa-decimal rune (0-9a-f).
func (n Nibble) Rune() rune {
	if n < 10 {
		return rune('0' + n)
	} else if n < 16 {
		return rune('a' + n - 10)
	} else {
		return '?'
	}
}

// String converts a Nibble in a hexa-decimal string (0-9a-f).
func (n Nibble) String() string {
	return string(n.Rune())
}

// MaxPathLength is the number of nibbles of a full key hash path.
const MaxPathLength = 2 * common.HashSize

// NibblePath is a navigation path in the tree, starting at the root.
type NibblePath []Nibble

// PathOf converts the given key hash into the full path of its leaf.
func PathOf(hash common.Hash) NibblePath {
	res := make(NibblePath, MaxPathLength)
	for i := 0; i < len(hash); i++ {
		res[2*i] = Nibble(hash[i] >> 4)
		res[2*i+1] = Nibble(hash[i] & 0xF)
	}
	return res
}

func (p NibblePath) String() string {
	var b strings.Builder
	for _, n := range p {
		b.WriteRune(n.Rune())
	}
	return b.String()
}

// packed provides the path with two nibbles per byte. An odd trailing nibble
// occupies the high half of the last byte.
func (p NibblePath) packed() []byte {
	res := make([]byte, (len(p)+1)/2)
	for i, n := range p {
		if i%2 == 0 {
			res[i/2] |= byte(n) << 4
		} else {
			res[i/2] |= byte(n)
		}
	}
	return res
}

func unpackPath(data []byte, length int) NibblePath {
	res := make(NibblePath, length)
	for i := range res {
		if i%2 == 0 {
			res[i] = Nibble(data[i/2] >> 4)
		} else {
			res[i] = Nibble(data[i/2] & 0xF)
		}
	}
	return res
}
