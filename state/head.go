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
	"context"
	"sync/atomic"

	"github.com/Fantom-foundation/kvstate/common"
)

// ErrTransactionInProgress is reported when a transaction is started on a
// state that is already exclusively used by another transaction.
const ErrTransactionInProgress = common.ConstError("concurrent transaction already open")

// State is the mutable head state of a store: a base view, typically the
// snapshot of the latest version, and the changes accumulated on top of it
// that have not been persisted yet.
//
// A State has a single writer. Changes are either written directly or
// staged through a Transaction; while a transaction is open, the state must
// not be modified directly.
type State struct {
	base         StateRead
	consensus    *changeSet[string]
	nonconsensus *changeSet[[]byte]
	txOpen       atomic.Bool
}

var (
	_ StateRead  = (*State)(nil)
	_ StateWrite = (*State)(nil)
)

// NewState creates a state without changes on top of the given base.
func NewState(base StateRead) *State {
	return &State{
		base:         base,
		consensus:    newConsensusChanges(),
		nonconsensus: newNonconsensusChanges(),
	}
}

// Base provides the view this state stages its changes on.
func (s *State) Base() StateRead {
	return s.base
}

// BeginTransaction opens a transaction staging changes on top of this state.
// At most one transaction may be open at any time.
func (s *State) BeginTransaction() (*Transaction, error) {
	if !s.txOpen.CompareAndSwap(false, true) {
		return nil, ErrTransactionInProgress
	}
	return newTransaction(s), nil
}

// TransactionOpen reports whether a transaction on this state is in progress.
func (s *State) TransactionOpen() bool {
	return s.txOpen.Load()
}

func (s *State) endTransaction() {
	s.txOpen.Store(false)
}

// Changes lists the accumulated consensus-critical and non-consensus changes
// in key order.
func (s *State) Changes() (consensus []Change[string], nonconsensus []Change[[]byte]) {
	return s.consensus.list(), s.nonconsensus.list()
}

// HasChanges is true if any change has been staged on this state.
func (s *State) HasChanges() bool {
	return s.consensus.len() > 0 || s.nonconsensus.len() > 0
}

// Release releases the base view if it holds resources.
func (s *State) Release() {
	if r, ok := s.base.(common.Releaser); ok {
		r.Release()
	}
}

func (s *State) GetRaw(ctx context.Context, key string) ([]byte, error) {
	return getRawWithChanges(ctx, s.base, s.consensus, key)
}

func (s *State) GetNonconsensus(ctx context.Context, key []byte) ([]byte, error) {
	return getNonconsensusWithChanges(ctx, s.base, s.nonconsensus, key)
}

func (s *State) PrefixRaw(ctx context.Context, prefix string) Iterator {
	return prefixRawWithChanges(ctx, s.base, s.consensus, prefix)
}

func (s *State) PutRaw(key string, value []byte) {
	s.consensus.put(key, value)
}

func (s *State) Delete(key string) {
	s.consensus.delete(key)
}

func (s *State) PutNonconsensus(key, value []byte) {
	s.nonconsensus.put(bytes.Clone(key), value)
}

func (s *State) DeleteNonconsensus(key []byte) {
	s.nonconsensus.delete(bytes.Clone(key))
}
