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
	"fmt"

	"github.com/Fantom-foundation/kvstate/common"
)

const (
	// ErrTransactionFailed is reported when committing a transaction that has
	// been marked as failed.
	ErrTransactionFailed = common.ConstError("transaction failed")
	// ErrTransactionClosed is reported when using a transaction after it has
	// been committed or aborted.
	ErrTransactionClosed = common.ConstError("transaction is closed")
)

// Transaction is a set of changes staged on top of a State. Reads observe the
// transaction's own changes first and fall back to the state. Committing
// merges all changes into the state's pending changes at once; aborting
// discards them, leaving the state untouched.
//
// A transaction is owned by a single goroutine. After Commit or Abort it can
// no longer be used; writes are ignored and reads fail with
// ErrTransactionClosed.
type Transaction struct {
	state         *State
	consensus     *changeSet[string]
	nonconsensus  *changeSet[[]byte]
	failed        bool
	failureReason string
}

var (
	_ StateRead  = (*Transaction)(nil)
	_ StateWrite = (*Transaction)(nil)
)

func newTransaction(state *State) *Transaction {
	return &Transaction{
		state:        state,
		consensus:    newConsensusChanges(),
		nonconsensus: newNonconsensusChanges(),
	}
}

// Fail marks the transaction as failed. A failed transaction can still be
// read and written, but it can not be committed.
func (t *Transaction) Fail(reason string) {
	t.failed = true
	t.failureReason = reason
}

// Failed is true if the transaction has been marked as failed.
func (t *Transaction) Failed() bool {
	return t.failed
}

// FailureReason provides the reason recorded by the last call to Fail.
func (t *Transaction) FailureReason() string {
	return t.failureReason
}

// Commit merges the staged changes into the state and ends the transaction.
// If the transaction was marked as failed, nothing is merged and an error
// carrying the failure reason is returned. Either way, the transaction is
// closed afterwards.
func (t *Transaction) Commit() error {
	if t.state == nil {
		return ErrTransactionClosed
	}
	if t.failed {
		t.end()
		return fmt.Errorf("%w: %s", ErrTransactionFailed, t.failureReason)
	}
	t.state.consensus.extend(t.consensus)
	t.state.nonconsensus.extend(t.nonconsensus)
	t.end()
	return nil
}

// Abort discards all staged changes and ends the transaction. Aborting a
// closed transaction is a no-op.
func (t *Transaction) Abort() {
	if t.state == nil {
		return
	}
	t.end()
}

func (t *Transaction) end() {
	t.state.endTransaction()
	t.state = nil
	t.consensus = newConsensusChanges()
	t.nonconsensus = newNonconsensusChanges()
}

func (t *Transaction) GetRaw(ctx context.Context, key string) ([]byte, error) {
	if t.state == nil {
		return nil, ErrTransactionClosed
	}
	return getRawWithChanges(ctx, t.state, t.consensus, key)
}

func (t *Transaction) GetNonconsensus(ctx context.Context, key []byte) ([]byte, error) {
	if t.state == nil {
		return nil, ErrTransactionClosed
	}
	return getNonconsensusWithChanges(ctx, t.state, t.nonconsensus, key)
}

func (t *Transaction) PrefixRaw(ctx context.Context, prefix string) Iterator {
	if t.state == nil {
		return errorIterator{ErrTransactionClosed}
	}
	return prefixRawWithChanges(ctx, t.state, t.consensus, prefix)
}

func (t *Transaction) PutRaw(key string, value []byte) {
	if t.state != nil {
		t.consensus.put(key, value)
	}
}

func (t *Transaction) Delete(key string) {
	if t.state != nil {
		t.consensus.delete(key)
	}
}

func (t *Transaction) PutNonconsensus(key, value []byte) {
	if t.state != nil {
		t.nonconsensus.put(bytes.Clone(key), value)
	}
}

func (t *Transaction) DeleteNonconsensus(key []byte) {
	if t.state != nil {
		t.nonconsensus.delete(bytes.Clone(key))
	}
}
