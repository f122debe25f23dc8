// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package state

import (
	"bytes"
	"strings"

	"github.com/tidwall/btree"
)

// The approximate number of items and children per B-tree node.
const bTreeDegree = 32

// Change is a pending modification of a key. A nil Value marks the key as
// deleted.
type Change[K any] struct {
	Key   K
	Value []byte
}

// Deleted is true if the change removes its key.
func (c Change[K]) Deleted() bool {
	return c.Value == nil
}

// changeSet holds at most one pending change per key, kept in key order. The
// last change staged for a key replaces any earlier one.
type changeSet[K any] struct {
	tree *btree.BTreeG[Change[K]]
}

func newConsensusChanges() *changeSet[string] {
	return &changeSet[string]{
		tree: btree.NewBTreeGOptions[Change[string]](func(a, b Change[string]) bool {
			return a.Key < b.Key
		}, btree.Options{Degree: bTreeDegree, NoLocks: true}),
	}
}

func newNonconsensusChanges() *changeSet[[]byte] {
	return &changeSet[[]byte]{
		tree: btree.NewBTreeGOptions[Change[[]byte]](func(a, b Change[[]byte]) bool {
			return bytes.Compare(a.Key, b.Key) < 0
		}, btree.Options{Degree: bTreeDegree, NoLocks: true}),
	}
}

// put stages a copy of the given value, so callers may reuse their buffer.
// The copy is never nil, distinguishing empty values from deletions.
func (c *changeSet[K]) put(key K, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)
	c.tree.Set(Change[K]{Key: key, Value: stored})
}

func (c *changeSet[K]) delete(key K) {
	c.tree.Set(Change[K]{Key: key})
}

// get provides the pending change of the given key, if there is one.
func (c *changeSet[K]) get(key K) (Change[K], bool) {
	return c.tree.Get(Change[K]{Key: key})
}

// extend stages all changes of the other set, overriding own changes of the
// same keys.
func (c *changeSet[K]) extend(other *changeSet[K]) {
	other.tree.Scan(func(change Change[K]) bool {
		c.tree.Set(change)
		return true
	})
}

func (c *changeSet[K]) len() int {
	return c.tree.Len()
}

// list provides all changes in key order.
func (c *changeSet[K]) list() []Change[K] {
	res := make([]Change[K], 0, c.tree.Len())
	c.tree.Scan(func(change Change[K]) bool {
		res = append(res, change)
		return true
	})
	return res
}

// withPrefix lists the pending changes of all keys starting with the given
// prefix, in key order.
func withPrefix(changes *changeSet[string], prefix string) []Change[string] {
	var res []Change[string]
	changes.tree.Ascend(Change[string]{Key: prefix}, func(change Change[string]) bool {
		if !strings.HasPrefix(change.Key, prefix) {
			return false
		}
		res = append(res, change)
		return true
	})
	return res
}
