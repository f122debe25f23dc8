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
	"context"
	"sort"
	"strings"
	"testing"

	"golang.org/x/exp/maps"
)

// mapState is a simple in-memory StateRead used as a base in tests.
type mapState struct {
	consensus    map[string][]byte
	nonconsensus map[string][]byte
}

func newMapState(entries map[string]string) *mapState {
	res := &mapState{
		consensus:    map[string][]byte{},
		nonconsensus: map[string][]byte{},
	}
	for key, value := range entries {
		res.consensus[key] = []byte(value)
	}
	return res
}

func (m *mapState) GetRaw(_ context.Context, key string) ([]byte, error) {
	return m.consensus[key], nil
}

func (m *mapState) GetNonconsensus(_ context.Context, key []byte) ([]byte, error) {
	return m.nonconsensus[string(key)], nil
}

func (m *mapState) PrefixRaw(_ context.Context, prefix string) Iterator {
	keys := maps.Keys(m.consensus)
	sort.Strings(keys)
	var entries []Entry
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			entries = append(entries, Entry{Key: key, Value: m.consensus[key]})
		}
	}
	return newSliceIterator(entries)
}

// sliceIterator iterates over pre-computed entries in ascending key order.
type sliceIterator struct {
	entries []Entry
	pos     int
}

func newSliceIterator(entries []Entry) Iterator {
	return &sliceIterator{entries: entries, pos: -1}
}

func (i *sliceIterator) Next() bool {
	if i.pos+1 >= len(i.entries) {
		i.pos = len(i.entries)
		return false
	}
	i.pos++
	return true
}

func (i *sliceIterator) Key() string {
	if i.pos < 0 || i.pos >= len(i.entries) {
		return ""
	}
	return i.entries[i.pos].Key
}

func (i *sliceIterator) Value() []byte {
	if i.pos < 0 || i.pos >= len(i.entries) {
		return nil
	}
	return i.entries[i.pos].Value
}

func (i *sliceIterator) Error() error { return nil }
func (i *sliceIterator) Release()     { i.pos = len(i.entries) }

// collect drains the given iterator into a list of key=value strings.
func collect(t *testing.T, it Iterator) []string {
	t.Helper()
	defer it.Release()
	var res []string
	for it.Next() {
		res = append(res, it.Key()+"="+string(it.Value()))
	}
	if err := it.Error(); err != nil {
		t.Fatalf("iteration failed: %v", err)
	}
	return res
}

func equalLists(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
