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

//go:generate mockgen -source reader.go -destination reader_mocks.go -package tree

// TreeReader is the node storage contract consumed by the tree algorithms.
// Reads are synchronous and may block on I/O.
type TreeReader interface {
	// GetNode fetches the node stored under the given key. A missing node is
	// reported as a nil node without an error. Stored bytes that do not
	// decode into a node are reported as an error.
	GetNode(key NodeKey) (Node, error)

	// GetRightmostLeaf fetches the leaf with the highest node key. If there is
	// no node at all, or the highest node is not a leaf, nil is returned.
	GetRightmostLeaf() (*NodeKey, *LeafNode, error)
}
