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

import "context"

// The functions below implement read-your-own-writes lookups shared by all
// views staging changes on top of a base view.

func getRawWithChanges(ctx context.Context, base StateRead, changes *changeSet[string], key string) ([]byte, error) {
	if change, found := changes.get(key); found {
		return change.Value, nil
	}
	return base.GetRaw(ctx, key)
}

func getNonconsensusWithChanges(ctx context.Context, base StateRead, changes *changeSet[[]byte], key []byte) ([]byte, error) {
	if change, found := changes.get(key); found {
		return change.Value, nil
	}
	return base.GetNonconsensus(ctx, key)
}

func prefixRawWithChanges(ctx context.Context, base StateRead, changes *changeSet[string], prefix string) Iterator {
	// The pending changes are captured before the base is consulted, later
	// writes to the view do not affect an ongoing iteration.
	pending := withPrefix(changes, prefix)
	return newMergeIterator(base.PrefixRaw(ctx, prefix), pending)
}
