// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
// Package tree defines the storage model of the authenticated tree over
// consensus-critical state: node addresses, node types, their encoding, and
// the synchronous reader contract the tree algorithms consume.
//
// The tree is addressed by key hashes, not by the original keys, so its shape
// is independent of key lengths. Nodes are versioned; a node of version n only
// references nodes of versions <= n, and every version is addressable forever.
//
// There are two node types:
//
//   - leaf nodes     ... binding a key hash to the hash of its value, stored at
//                        the full nibble path of the key hash
//   - internal nodes ... the root of a version, committing to 16 buckets of
//                        leaves selected by the first nibble of the key hash
//
// Proof generation and rebalancing are not part of this package.
package tree
