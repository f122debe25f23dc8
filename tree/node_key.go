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
	"encoding/binary"
	"fmt"
	"slices"
)

const versionSize = 8

// NodeKey is the structural address of a node: the version that created the
// node and the node's path in the tree.
//
// Encoded node keys are ordered by version first, then by path length, then
// by path. Hence, the root of a version precedes its leaves and the last
// encoded key of a store belongs to a node of the highest version.
type NodeKey struct {
	Version uint64
	Path    NibblePath
}

// RootKey provides the key of the root node of the given version.
func RootKey(version uint64) NodeKey {
	return NodeKey{Version: version}
}

// Encode converts the key into its database representation.
func (k NodeKey) Encode() ([]byte, error) {
	if len(k.Path) > MaxPathLength {
		return nil, fmt.Errorf("node path too long: %d > %d", len(k.Path), MaxPathLength)
	}
	res := make([]byte, versionSize+1, versionSize+1+(len(k.Path)+1)/2)
	binary.BigEndian.PutUint64(res, k.Version)
	res[versionSize] = byte(len(k.Path))
	return append(res, k.Path.packed()...), nil
}

// DecodeNodeKey restores a node key from its database representation.
func DecodeNodeKey(data []byte) (NodeKey, error) {
	if len(data) < versionSize+1 {
		return NodeKey{}, fmt.Errorf("node key too short: %d bytes", len(data))
	}
	length := int(data[versionSize])
	if length > MaxPathLength {
		return NodeKey{}, fmt.Errorf("node path too long: %d > %d", length, MaxPathLength)
	}
	packed := data[versionSize+1:]
	if len(packed) != (length+1)/2 {
		return NodeKey{}, fmt.Errorf("invalid node key: %d nibbles encoded in %d bytes", length, len(packed))
	}
	return NodeKey{
		Version: binary.BigEndian.Uint64(data),
		Path:    unpackPath(packed, length),
	}, nil
}

func (k NodeKey) Equal(other NodeKey) bool {
	return k.Version == other.Version && slices.Equal(k.Path, other.Path)
}

func (k NodeKey) String() string {
	return fmt.Sprintf("%d:%v", k.Version, k.Path)
}
