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

//go:generate mockgen -source state.go -destination state_mocks.go -package state

import "context"

// StateRead is the read capability shared by all views on the state, from
// pinned snapshots of the store to transactions staging changes.
//
// Consensus-critical data is addressed by string keys and is authenticated
// by the tree of the store. Non-consensus data is addressed by raw byte keys
// and is stored without authentication, in a separate key space.
type StateRead interface {
	// GetRaw fetches the value of a consensus-critical key. A missing key is
	// reported as a nil value without an error; present values are never nil,
	// even if empty. An error is only reported for storage or decoding faults.
	GetRaw(ctx context.Context, key string) ([]byte, error)

	// GetNonconsensus fetches the value of a non-consensus key, with the same
	// absence semantics as GetRaw.
	GetNonconsensus(ctx context.Context, key []byte) ([]byte, error)

	// PrefixRaw enumerates all consensus-critical entries with keys starting
	// with the given prefix, in ascending order of their keys. The resulting
	// iterator must be released after use.
	PrefixRaw(ctx context.Context, prefix string) Iterator
}

// StateWrite is the write capability of mutable views. Writes are staged in
// memory, they never touch durable storage directly.
type StateWrite interface {
	// PutRaw stages the value of a consensus-critical key.
	PutRaw(key string, value []byte)

	// Delete stages the removal of a consensus-critical key.
	Delete(key string)

	// PutNonconsensus stages the value of a non-consensus key.
	PutNonconsensus(key, value []byte)

	// DeleteNonconsensus stages the removal of a non-consensus key.
	DeleteNonconsensus(key []byte)
}

// Iterator is a single-pass sequence of key/value pairs with strictly
// ascending keys. The sequence may fail part way, in which case Next returns
// false and Error reports the cause; elements produced before remain valid.
//
// The iterator must be released after use, by calling Release method. This
// also stops any producer still working on the sequence.
type Iterator interface {
	// Next moves to the next element, returning false if there is none.
	Next() bool

	// Key of the current element.
	Key() string

	// Value of the current element. The slice must not be modified.
	Value() []byte

	// Error reports the failure that terminated the sequence, if any.
	Error() error

	// Release stops the iteration and frees its resources.
	Release()
}
