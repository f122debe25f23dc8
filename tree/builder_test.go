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
	"testing"

	"github.com/Fantom-foundation/kvstate/common"
	"github.com/golang/mock/gomock"
)

func valueHash(value string) *common.Hash {
	hash := common.Sha3Hash([]byte(value))
	return &hash
}

func TestBuildVersion_EmptyTreeWithoutUpdates(t *testing.T) {
	root, nodes, err := BuildVersion(nil, nil, 1, nil)
	if err != nil {
		t.Fatalf("failed to build version: %v", err)
	}
	if root.Hash() != EmptyRootHash {
		t.Errorf("unexpected root hash: %v", root.Hash())
	}
	if len(nodes) != 1 || !nodes[0].Key.Equal(RootKey(1)) {
		t.Errorf("only the root node should be produced, got %v", nodes)
	}
}

func TestBuildVersion_ProducesRootAndLeavesInKeyOrder(t *testing.T) {
	updates := []LeafUpdate{
		{KeyHash: common.Hash{0xf0}, ValueHash: valueHash("b")},
		{KeyHash: common.Hash{0x01}, ValueHash: valueHash("a")},
		{KeyHash: common.Hash{0x22}},
	}
	root, nodes, err := BuildVersion(nil, nil, 5, updates)
	if err != nil {
		t.Fatalf("failed to build version: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected root and two leaves, got %d nodes", len(nodes))
	}
	if nodes[0].Node != root {
		t.Errorf("first node should be the root")
	}
	for i := 1; i < len(nodes); i++ {
		a, _ := nodes[i-1].Key.Encode()
		b, _ := nodes[i].Key.Encode()
		if string(a) >= string(b) {
			t.Errorf("nodes not in key order: %v, %v", nodes[i-1].Key, nodes[i].Key)
		}
	}
	leaf, ok := nodes[1].Node.(*LeafNode)
	if !ok || leaf.KeyHash != (common.Hash{0x01}) || leaf.ValueHash != *valueHash("a") {
		t.Errorf("unexpected first leaf: %v", nodes[1].Node)
	}

	for bucket, child := range root.Children {
		touched := bucket == 0x0 || bucket == 0xf || bucket == 0x2
		if touched && child.Version != 5 {
			t.Errorf("bucket %d should be updated in version 5, got %d", bucket, child.Version)
		}
		if !touched && !child.IsEmpty() {
			t.Errorf("bucket %d should be empty, got %v", bucket, child)
		}
	}
}

func TestBuildVersion_ExtendsPreviousRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := NewMockTreeReader(ctrl)

	first, _, err := BuildVersion(reader, nil, 1, []LeafUpdate{
		{KeyHash: common.Hash{0x10}, ValueHash: valueHash("x")},
		{KeyHash: common.Hash{0x20}, ValueHash: valueHash("y")},
	})
	if err != nil {
		t.Fatalf("failed to build version 1: %v", err)
	}
	reader.EXPECT().GetNode(RootKey(1)).Return(first, nil)

	prev := uint64(1)
	second, _, err := BuildVersion(reader, &prev, 2, []LeafUpdate{
		{KeyHash: common.Hash{0x11}, ValueHash: valueHash("z")},
	})
	if err != nil {
		t.Fatalf("failed to build version 2: %v", err)
	}
	if second.Children[2] != first.Children[2] {
		t.Errorf("untouched bucket should be inherited, got %v", second.Children[2])
	}
	if second.Children[1].Version != 2 || second.Children[1].Hash == first.Children[1].Hash {
		t.Errorf("touched bucket should be updated, got %v", second.Children[1])
	}
	if first.Children[1].Version != 1 {
		t.Errorf("previous root must not be modified")
	}
}

func TestBuildVersion_IsDeterministic(t *testing.T) {
	a := []LeafUpdate{
		{KeyHash: common.Hash{0x01}, ValueHash: valueHash("a")},
		{KeyHash: common.Hash{0x02}, ValueHash: valueHash("b")},
	}
	b := []LeafUpdate{a[1], a[0]}
	rootA, _, _ := BuildVersion(nil, nil, 1, a)
	rootB, _, _ := BuildVersion(nil, nil, 1, b)
	if rootA.Hash() != rootB.Hash() {
		t.Errorf("root hash must not depend on update order")
	}
}

func TestBuildVersion_DeletionChangesCommitment(t *testing.T) {
	key := common.Hash{0x05}
	set, _, _ := BuildVersion(nil, nil, 1, []LeafUpdate{{KeyHash: key, ValueHash: valueHash("a")}})
	deleted, nodes, _ := BuildVersion(nil, nil, 1, []LeafUpdate{{KeyHash: key}})
	if set.Hash() == deleted.Hash() || deleted.Hash() == EmptyRootHash {
		t.Errorf("deletion should produce a distinct commitment")
	}
	if len(nodes) != 1 {
		t.Errorf("deletions must not produce leaves, got %v", nodes)
	}
}

func TestBuildVersion_ReportsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := NewMockTreeReader(ctrl)
	injected := errors.New("injected")

	prev := uint64(3)
	if _, _, err := BuildVersion(reader, &prev, 3, nil); err == nil {
		t.Errorf("non-increasing version should be rejected")
	}

	reader.EXPECT().GetNode(RootKey(3)).Return(nil, injected)
	if _, _, err := BuildVersion(reader, &prev, 4, nil); !errors.Is(err, injected) {
		t.Errorf("unexpected error: %v", err)
	}

	reader.EXPECT().GetNode(RootKey(3)).Return(&LeafNode{}, nil)
	if _, _, err := BuildVersion(reader, &prev, 4, nil); err == nil {
		t.Errorf("leaf as root should be rejected")
	}

	reader.EXPECT().GetNode(RootKey(3)).Return(nil, nil)
	if _, _, err := BuildVersion(reader, &prev, 4, nil); err == nil {
		t.Errorf("missing root should be rejected")
	}

	duplicate := []LeafUpdate{{KeyHash: common.Hash{1}}, {KeyHash: common.Hash{1}}}
	if _, _, err := BuildVersion(nil, nil, 1, duplicate); err == nil {
		t.Errorf("duplicate updates should be rejected")
	}
}
