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
	"bytes"
	"fmt"
	"slices"

	"github.com/Fantom-foundation/kvstate/common"
)

// LeafUpdate describes the modification of a single key in a new version. A
// nil ValueHash denotes the deletion of the key.
type LeafUpdate struct {
	KeyHash   common.Hash
	ValueHash *common.Hash
}

// KeyedNode is a node together with the key it is stored under.
type KeyedNode struct {
	Key  NodeKey
	Node Node
}

// deletionMarker is chained into a bucket commitment in place of a leaf hash
// when a key is removed.
var deletionMarker = common.HashConcat([]byte("deleted"))

// BuildVersion derives the nodes of a new version from the root of the
// preceding version and the version's leaf updates. The preceding root is
// looked up through the given reader; prevRoot is the version of that root
// or nil if the tree is empty so far.
//
// Each bucket commitment is a hash chain: the bucket's previous commitment
// followed by the hashes of its updated leaves in key hash order. The result
// lists the new root first, followed by the new leaves in node key order.
func BuildVersion(reader TreeReader, prevRoot *uint64, version uint64, updates []LeafUpdate) (*InternalNode, []KeyedNode, error) {
	root := &InternalNode{}
	if prevRoot != nil {
		if *prevRoot >= version {
			return nil, nil, fmt.Errorf("new version %d must be higher than previous root version %d", version, *prevRoot)
		}
		node, err := reader.GetNode(RootKey(*prevRoot))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch root of version %d; %w", *prevRoot, err)
		}
		prev, ok := node.(*InternalNode)
		if !ok {
			return nil, nil, fmt.Errorf("missing or invalid root node for version %d: %v", *prevRoot, node)
		}
		*root = *prev
	}

	sorted := slices.Clone(updates)
	slices.SortFunc(sorted, func(a, b LeafUpdate) int {
		return bytes.Compare(a.KeyHash[:], b.KeyHash[:])
	})

	nodes := make([]KeyedNode, 0, len(sorted)+1)
	nodes = append(nodes, KeyedNode{Key: RootKey(version), Node: root})
	for i, update := range sorted {
		if i > 0 && sorted[i-1].KeyHash == update.KeyHash {
			return nil, nil, fmt.Errorf("duplicate update for key hash %v", update.KeyHash)
		}
		bucket := update.KeyHash[0] >> 4
		child := &root.Children[bucket]
		var entry common.Hash
		if update.ValueHash == nil {
			entry = common.HashConcat(deletionMarker[:], update.KeyHash[:])
		} else {
			leaf := &LeafNode{KeyHash: update.KeyHash, ValueHash: *update.ValueHash}
			entry = leaf.Hash()
			nodes = append(nodes, KeyedNode{
				Key:  NodeKey{Version: version, Path: PathOf(update.KeyHash)},
				Node: leaf,
			})
		}
		child.Hash = common.HashConcat(child.Hash[:], entry[:])
		child.Version = version
	}
	return root, nodes, nil
}
