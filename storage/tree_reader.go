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
	"fmt"

	"github.com/Fantom-foundation/kvstate/backend"
	"github.com/Fantom-foundation/kvstate/tree"
)

// treeReader provides the nodes of all versions up to a bound version.
type treeReader struct {
	nodes   backend.Area
	version uint64
	limit   []byte // exclusive bound of encoded node keys
}

var _ tree.TreeReader = (*treeReader)(nil)

func newTreeReader(reader backend.LevelDBReader, version uint64) *treeReader {
	res := &treeReader{
		nodes:   backend.NewArea(reader, backend.AuthenticatedKey.Prefix(backend.NodeDomain)),
		version: version,
	}
	if version < maxVersion {
		res.limit = encodeVersion(version + 1)
	}
	return res
}

func (r *treeReader) GetNode(key tree.NodeKey) (tree.Node, error) {
	if key.Version > r.version {
		return nil, nil
	}
	encoded, err := key.Encode()
	if err != nil {
		return nil, err
	}
	data, err := r.nodes.Get(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to read node %v; %w", key, err)
	}
	if data == nil {
		return nil, nil
	}
	return tree.DecodeNode(data)
}

func (r *treeReader) GetRightmostLeaf() (*tree.NodeKey, *tree.LeafNode, error) {
	it := r.nodes.NewIterator(nil, r.limit)
	defer it.Release()
	if !it.Last() {
		return nil, nil, it.Error()
	}
	key, err := tree.DecodeNodeKey(r.nodes.Strip(it.Key()))
	if err != nil {
		return nil, nil, err
	}
	node, err := tree.DecodeNode(it.Value())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode node %v; %w", key, err)
	}
	leaf, ok := node.(*tree.LeafNode)
	if !ok {
		return nil, nil, nil
	}
	return &key, leaf, nil
}
