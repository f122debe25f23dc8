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
	"context"
	"fmt"
	"sync/atomic"

	"github.com/syndtr/goleveldb/leveldb"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Fantom-foundation/kvstate/backend"
	"github.com/Fantom-foundation/kvstate/backend/workers"
	"github.com/Fantom-foundation/kvstate/common"
	"github.com/Fantom-foundation/kvstate/state"
	"github.com/Fantom-foundation/kvstate/tree"
)

// Snapshot is a read-only view on the store pinned to a single version. All
// reads of a snapshot observe the data as it was when the version was the
// latest one, regardless of later commits. Non-consensus data is not
// versioned; a snapshot observes it as it was when the snapshot was created.
//
// A snapshot may be used concurrently. Clones share the pinned view, which is
// released once the snapshot and all its clones are released. Using a
// released snapshot handle panics.
type Snapshot struct {
	view     *pinnedView
	released atomic.Bool
}

var (
	_ state.StateRead = (*Snapshot)(nil)
	_ tree.TreeReader = (*Snapshot)(nil)
	_ common.Releaser = (*Snapshot)(nil)
)

// pinnedView is the state shared by a snapshot and its clones.
type pinnedView struct {
	store        *Storage
	refs         atomic.Int64
	snapshot     *leveldb.Snapshot
	version      uint64
	values       backend.Area
	preimages    backend.Area
	nonconsensus backend.Area
	tree         *treeReader
	hasher       common.Hasher
	pool         *workers.Pool
	tracer       trace.Tracer
	log          *zap.Logger
	bufferSize   int
}

func newSnapshot(s *Storage, version uint64) (*Snapshot, error) {
	snapshot, err := s.db.GetSnapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to pin version %d; %w", version, err)
	}
	view := &pinnedView{
		store:        s,
		snapshot:     snapshot,
		version:      version,
		values:       backend.NewArea(snapshot, backend.AuthenticatedKey.Prefix(backend.ValueDomain)),
		preimages:    backend.NewArea(snapshot, backend.KeyPreimageKey.Prefix()),
		nonconsensus: backend.NewArea(snapshot, backend.NonconsensusKey.Prefix()),
		tree:         newTreeReader(snapshot, version),
		hasher:       s.hasher,
		pool:         s.pool,
		tracer:       s.params.Tracer,
		log:          s.log.With(zap.Uint64("version", version)),
		bufferSize:   s.params.PrefixBufferSize,
	}
	view.refs.Store(1)
	return &Snapshot{view: view}, nil
}

// Version provides the version the snapshot is pinned to.
func (s *Snapshot) Version() uint64 {
	return s.live().version
}

// Clone creates a new handle sharing the pinned view of this snapshot.
func (s *Snapshot) Clone() *Snapshot {
	view := s.live()
	view.refs.Add(1)
	return &Snapshot{view: view}
}

// Release drops this handle. Releasing a handle twice has no effect.
func (s *Snapshot) Release() {
	if s.released.CompareAndSwap(false, true) {
		s.view.release()
	}
}

func (s *Snapshot) live() *pinnedView {
	if s.released.Load() {
		panic("snapshot used after release")
	}
	return s.view
}

func (v *pinnedView) release() {
	if v.refs.Add(-1) == 0 {
		v.snapshot.Release()
		v.log.Debug("snapshot released")
	}
}

func (s *Snapshot) GetRaw(ctx context.Context, key string) ([]byte, error) {
	view := s.live()
	ctx, span := view.startSpan(ctx, "Snapshot.GetRaw", attribute.String("key", key))
	defer span.End()
	value, err := workers.Do(ctx, view.pool, func(context.Context) ([]byte, error) {
		return view.getRaw(key)
	})
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to read key %q at version %d; %w", key, view.version, err)
	}
	view.log.Debug("get", zap.String("key", key), zap.Bool("found", value != nil), traceID(span))
	return value, nil
}

func (s *Snapshot) GetNonconsensus(ctx context.Context, key []byte) ([]byte, error) {
	view := s.live()
	ctx, span := view.startSpan(ctx, "Snapshot.GetNonconsensus", attribute.Int("key_length", len(key)))
	defer span.End()
	value, err := workers.Do(ctx, view.pool, func(context.Context) ([]byte, error) {
		return view.nonconsensus.Get(key)
	})
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("failed to read non-consensus key %x; %w", key, err)
	}
	view.log.Debug("get non-consensus", zap.Binary("key", key), zap.Bool("found", value != nil), traceID(span))
	return value, nil
}

// PrefixRaw streams all keys starting with the given prefix together with
// their values in ascending key order. Results are produced by a background
// goroutine through a bounded channel; the producer blocks while the channel
// is full and stops when the iterator is released or the context cancelled.
func (s *Snapshot) PrefixRaw(ctx context.Context, prefix string) state.Iterator {
	handle := s.Clone() // kept by the producer until it finished
	view := handle.view
	ctx, span := view.startSpan(ctx, "Snapshot.PrefixRaw", attribute.String("prefix", prefix))
	ctx, cancel := context.WithCancel(ctx)
	stream := state.NewStream(view.bufferSize)
	go func() {
		defer handle.Release()
		defer span.End()
		count, err := view.scanPrefix(ctx, prefix, stream)
		if err != nil {
			recordError(span, err)
		}
		view.log.Debug("prefix scan finished", zap.String("prefix", prefix), zap.Int("entries", count), zap.Error(err), traceID(span))
		stream.Close(err)
	}()
	return stream.Iterator(cancel)
}

func (s *Snapshot) GetNode(key tree.NodeKey) (tree.Node, error) {
	return s.live().tree.GetNode(key)
}

func (s *Snapshot) GetRightmostLeaf() (*tree.NodeKey, *tree.LeafNode, error) {
	return s.live().tree.GetRightmostLeaf()
}

func (v *pinnedView) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.Int64("version", int64(v.version)))
	return v.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func traceID(span trace.Span) zap.Field {
	return zap.Stringer("trace_id", span.SpanContext().TraceID())
}

func (v *pinnedView) getRaw(key string) ([]byte, error) {
	value, _, err := v.lookup(v.hasher([]byte(key)))
	return value, err
}

// lookup fetches the newest record of the given key hash with a version not
// exceeding the version of the view. A tombstone is reported as found with a
// nil value.
func (v *pinnedView) lookup(hash common.Hash) (value []byte, found bool, err error) {
	var key valueKey
	key.set(hash, v.version)
	it := v.values.NewIterator(key.getRange())
	defer it.Release()
	if !it.Next() {
		return nil, false, it.Error()
	}
	value, err = decodeRecord(it.Value())
	if err != nil {
		return nil, false, fmt.Errorf("invalid value record of key hash %v; %w", hash, err)
	}
	return value, true, nil
}

func (v *pinnedView) hasRecords(hash common.Hash) (bool, error) {
	it := v.values.NewIterator(getAllVersionsRange(hash))
	defer it.Release()
	if it.Next() {
		return true, nil
	}
	return false, it.Error()
}

// resolve fetches the value of a key listed in the preimage index, nil if the
// key does not exist at the version of the view. A preimage without any value
// record means the store is corrupted, which is fatal.
func (v *pinnedView) resolve(key string, hash common.Hash) ([]byte, error) {
	value, found, err := v.lookup(hash)
	if err != nil || found {
		return value, err
	}
	exists, err := v.hasRecords(hash)
	if err != nil {
		return nil, err
	}
	if !exists {
		panic(fmt.Sprintf("corrupted storage: key %q with hash %v has a preimage but no value", key, hash))
	}
	return nil, nil // created after this version
}

// scanPrefix sends the entries of all keys with the given prefix to the
// stream. If ctx is cancelled before the scan is complete, the context's
// error is returned.
func (v *pinnedView) scanPrefix(ctx context.Context, prefix string, out *state.Stream) (int, error) {
	it := v.preimages.NewPrefixIterator([]byte(prefix))
	defer it.Release()
	count := 0
	for it.Next() {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		key := string(v.preimages.Strip(it.Key()))
		hash, err := common.HashFromBytes(it.Value())
		if err != nil {
			return count, fmt.Errorf("invalid preimage record of key %q; %w", key, err)
		}
		value, err := v.resolve(key, hash)
		if err != nil {
			return count, fmt.Errorf("failed to read key %q at version %d; %w", key, v.version, err)
		}
		if value == nil {
			continue
		}
		if !out.Send(ctx, state.Entry{Key: key, Value: value}) {
			return count, ctx.Err()
		}
		count++
	}
	return count, it.Error()
}
