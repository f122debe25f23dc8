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
	"errors"
	"fmt"

	"github.com/Fantom-foundation/kvstate/common"
	"github.com/ethereum/go-ethereum/rlp"
)

// Node is the common interface of all node types of the authenticated tree.
type Node interface {
	// Hash computes the commitment of the node.
	Hash() common.Hash
	tag() byte
}

const (
	internalNodeTag byte = 0
	leafNodeTag     byte = 1
)

// Branching is the number of children of an internal node.
const Branching = 16

// LeafNode binds a key hash to the hash of the key's value.
type LeafNode struct {
	KeyHash   common.Hash
	ValueHash common.Hash
}

func (n *LeafNode) Hash() common.Hash {
	return common.HashConcat([]byte{leafNodeTag}, n.KeyHash[:], n.ValueHash[:])
}

func (n *LeafNode) tag() byte { return leafNodeTag }

func (n *LeafNode) String() string {
	return fmt.Sprintf("Leaf(%v -> %v)", n.KeyHash, n.ValueHash)
}

// Child is the reference of an internal node to one of its buckets: the
// version the bucket was last modified in and the bucket's commitment. A zero
// child denotes an empty bucket.
type Child struct {
	Version uint64
	Hash    common.Hash
}

// IsEmpty is true if no leaf was ever added to the bucket.
func (c Child) IsEmpty() bool {
	return c == Child{}
}

// InternalNode is the root of a version's tree.
type InternalNode struct {
	Children [Branching]Child
}

func (n *InternalNode) Hash() common.Hash {
	parts := make([][]byte, 0, 1+Branching)
	parts = append(parts, []byte{internalNodeTag})
	for i := range n.Children {
		parts = append(parts, n.Children[i].Hash[:])
	}
	return common.HashConcat(parts...)
}

func (n *InternalNode) tag() byte { return internalNodeTag }

// EmptyRootHash is the root hash of a tree without leaves.
var EmptyRootHash = (&InternalNode{}).Hash()

// ErrInvalidNodeEncoding is reported if stored bytes do not represent a node.
const ErrInvalidNodeEncoding = common.ConstError("invalid node encoding")

// EncodeNode converts the given node into its database representation, a type
// tag followed by the RLP encoding of the node.
func EncodeNode(node Node) ([]byte, error) {
	if node == nil {
		return nil, errors.New("cannot encode nil node")
	}
	payload, err := rlp.EncodeToBytes(node)
	if err != nil {
		return nil, fmt.Errorf("failed to encode node; %w", err)
	}
	return append([]byte{node.tag()}, payload...), nil
}

// DecodeNode restores a node from its database representation.
func DecodeNode(data []byte) (Node, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidNodeEncoding)
	}
	var node Node
	switch data[0] {
	case internalNodeTag:
		node = &InternalNode{}
	case leafNodeTag:
		node = &LeafNode{}
	default:
		return nil, fmt.Errorf("%w: unknown node tag %d", ErrInvalidNodeEncoding, data[0])
	}
	if err := rlp.DecodeBytes(data[1:], node); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNodeEncoding, err)
	}
	return node, nil
}
