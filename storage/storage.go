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
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Fantom-foundation/kvstate/backend"
	"github.com/Fantom-foundation/kvstate/backend/workers"
	"github.com/Fantom-foundation/kvstate/common"
	"github.com/Fantom-foundation/kvstate/state"
	"github.com/Fantom-foundation/kvstate/tree"
)

const (
	ErrUnknownVersion     = common.ConstError("unknown version")
	ErrIncompatibleLayout = common.ConstError("incompatible storage layout")
	ErrStaleState         = common.ConstError("state is not based on the latest version")
)

// Storage is the physical store of a versioned key-value state. Version 0 is
// the empty state; each commit adds a new version on top of the latest one.
// Reads are served by snapshots, commits are serialized.
type Storage struct {
	db          *leveldb.DB
	params      Parameters
	hasher      common.Hasher
	pool        *workers.Pool
	log         *zap.Logger
	metadata    backend.Area
	latest      atomic.Uint64
	commitMutex sync.Mutex
}

// Open opens the store in the directory of the given parameters, creating it
// if needed. An empty directory creates an in-memory store.
func Open(params Parameters) (*Storage, error) {
	params = params.withDefaults()
	hasher, err := common.GetHasher(params.KeyHash)
	if err != nil {
		return nil, err
	}
	db, err := backend.OpenLevelDb(params.Directory, nil)
	if err != nil {
		return nil, err
	}
	s := &Storage{
		db:       db,
		params:   params,
		hasher:   hasher,
		log:      params.Logger,
		metadata: backend.NewArea(db, backend.MetadataKey.Prefix()),
	}
	latest, err := s.init()
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	s.latest.Store(latest)
	s.pool = workers.NewPool(params.BlockingWorkers)
	s.log.Info("storage opened",
		zap.String("directory", params.Directory),
		zap.String("key_hash", string(params.KeyHash)),
		zap.Uint64("latest_version", latest),
	)
	return s, nil
}

// init checks the layout of an existing store or initializes a fresh one and
// provides the latest version.
func (s *Storage) init() (uint64, error) {
	expected := layoutOf(s.params.KeyHash)
	layout, err := s.metadata.Get(layoutKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read storage layout; %w", err)
	}
	if layout == nil {
		batch := new(leveldb.Batch)
		batch.Put(s.metadata.Key(layoutKey), expected)
		batch.Put(s.metadata.Key(latestVersionKey), encodeVersion(0))
		if err := s.db.Write(batch, &opt.WriteOptions{Sync: s.params.SyncWrites}); err != nil {
			return 0, fmt.Errorf("failed to initialize storage; %w", err)
		}
		return 0, nil
	}
	if !bytes.Equal(layout, expected) {
		return 0, fmt.Errorf("%w: found %q, expected %q", ErrIncompatibleLayout, layout, expected)
	}
	data, err := s.metadata.Get(latestVersionKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read latest version; %w", err)
	}
	if data == nil {
		return 0, fmt.Errorf("latest version record missing")
	}
	return decodeVersion(data)
}

// LatestVersion provides the version of the last commit, 0 for an empty store.
func (s *Storage) LatestVersion() uint64 {
	return s.latest.Load()
}

// Snapshot pins the given version. The snapshot must be released by the caller.
func (s *Storage) Snapshot(version uint64) (*Snapshot, error) {
	if latest := s.latest.Load(); version > latest {
		return nil, fmt.Errorf("%w: %d, latest version is %d", ErrUnknownVersion, version, latest)
	}
	return newSnapshot(s, version)
}

// LatestSnapshot pins the latest version.
func (s *Storage) LatestSnapshot() (*Snapshot, error) {
	return s.Snapshot(s.latest.Load())
}

// LatestState provides a head state on top of the latest version, collecting
// changes for the next commit. It must be released by the caller.
func (s *Storage) LatestState() (*state.State, error) {
	snapshot, err := s.LatestSnapshot()
	if err != nil {
		return nil, err
	}
	return state.NewState(snapshot), nil
}

// RootHash provides the root hash of the authenticated tree at the given version.
func (s *Storage) RootHash(version uint64) (common.Hash, error) {
	if latest := s.latest.Load(); version > latest {
		return common.Hash{}, fmt.Errorf("%w: %d, latest version is %d", ErrUnknownVersion, version, latest)
	}
	_, hash, err := s.lastRoot(version)
	return hash, err
}

// lastRoot finds the newest root not exceeding the given version. Versions
// without consensus changes have no root of their own.
func (s *Storage) lastRoot(version uint64) (*uint64, common.Hash, error) {
	it := s.metadata.NewIterator(getRootHashRangeFrom(version))
	defer it.Release()
	if !it.Next() {
		return nil, tree.EmptyRootHash, it.Error()
	}
	var key rootHashKey
	copy(key[:], s.metadata.Strip(it.Key()))
	hash, err := common.HashFromBytes(it.Value())
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("invalid root hash record; %w", err)
	}
	rootVersion := key.get()
	return &rootVersion, hash, nil
}

// Commit persists the changes collected by the given head state as a new
// version. The head state must be based on the latest version of this store
// and must not have an open transaction. All changes
// are written atomically. The new version and its root hash are returned.
func (s *Storage) Commit(ctx context.Context, head *state.State) (uint64, common.Hash, error) {
	s.commitMutex.Lock()
	defer s.commitMutex.Unlock()

	if head.TransactionOpen() {
		return 0, common.Hash{}, state.ErrTransactionInProgress
	}
	latest := s.latest.Load()
	if !s.isLatest(head.Base()) {
		return 0, common.Hash{}, ErrStaleState
	}
	if err := ctx.Err(); err != nil {
		return 0, common.Hash{}, err
	}
	version := latest + 1
	_, span := s.params.Tracer.Start(ctx, "Storage.Commit", trace.WithAttributes(attribute.Int64("version", int64(version))))
	defer span.End()

	rootHash, err := s.writeVersion(head, latest, version)
	if err != nil {
		recordError(span, err)
		return 0, common.Hash{}, err
	}
	s.latest.Store(version)
	s.log.Info("committed version",
		zap.Uint64("version", version),
		zap.Stringer("root_hash", rootHash),
		traceID(span),
	)
	return version, rootHash, nil
}

// isLatest checks whether the given base is a live snapshot of the latest
// version of this store.
func (s *Storage) isLatest(base state.StateRead) bool {
	snapshot, ok := base.(*Snapshot)
	if !ok || snapshot.released.Load() {
		return false
	}
	return snapshot.view.store == s && snapshot.view.version == s.latest.Load()
}

func (s *Storage) writeVersion(head *state.State, latest, version uint64) (common.Hash, error) {
	consensus, nonconsensus := head.Changes()
	values := backend.NewArea(s.db, backend.AuthenticatedKey.Prefix(backend.ValueDomain))
	nodes := backend.NewArea(s.db, backend.AuthenticatedKey.Prefix(backend.NodeDomain))
	preimages := backend.NewArea(s.db, backend.KeyPreimageKey.Prefix())
	nonconsensusArea := backend.NewArea(s.db, backend.NonconsensusKey.Prefix())

	batch := new(leveldb.Batch)
	updates := make([]tree.LeafUpdate, 0, len(consensus))
	for _, change := range consensus {
		hash := s.hasher([]byte(change.Key))
		var key valueKey
		key.set(hash, version)
		batch.Put(values.Key(key[:]), encodeRecord(change.Value))

		known, err := preimages.Has([]byte(change.Key))
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to check preimage of key %q; %w", change.Key, err)
		}
		if !known {
			batch.Put(preimages.Key([]byte(change.Key)), hash[:])
		}

		update := tree.LeafUpdate{KeyHash: hash}
		if !change.Deleted() {
			valueHash := s.hasher(change.Value)
			update.ValueHash = &valueHash
		}
		updates = append(updates, update)
	}

	prevRoot, rootHash, err := s.lastRoot(latest)
	if err != nil {
		return common.Hash{}, err
	}
	if len(updates) > 0 {
		root, keyed, err := tree.BuildVersion(newTreeReader(s.db, maxVersion), prevRoot, version, updates)
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to build tree of version %d; %w", version, err)
		}
		for _, node := range keyed {
			key, err := node.Key.Encode()
			if err != nil {
				return common.Hash{}, err
			}
			data, err := tree.EncodeNode(node.Node)
			if err != nil {
				return common.Hash{}, err
			}
			batch.Put(nodes.Key(key), data)
		}
		rootHash = root.Hash()
		var key rootHashKey
		key.set(version)
		batch.Put(s.metadata.Key(key[:]), rootHash[:])
	}

	for _, change := range nonconsensus {
		if change.Deleted() {
			batch.Delete(nonconsensusArea.Key(change.Key))
		} else {
			batch.Put(nonconsensusArea.Key(change.Key), change.Value)
		}
	}
	batch.Put(s.metadata.Key(latestVersionKey), encodeVersion(version))

	if err := s.db.Write(batch, &opt.WriteOptions{Sync: s.params.SyncWrites}); err != nil {
		return common.Hash{}, fmt.Errorf("failed to write version %d; %w", version, err)
	}
	s.log.Debug("version written",
		zap.Uint64("version", version),
		zap.Int("consensus_changes", len(consensus)),
		zap.Int("nonconsensus_changes", len(nonconsensus)),
	)
	return rootHash, nil
}

// Close stops the workers and closes the database. Snapshots must not be
// used afterwards.
func (s *Storage) Close() error {
	s.pool.Close()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close storage; %w", err)
	}
	s.log.Info("storage closed", zap.Uint64("latest_version", s.latest.Load()))
	return nil
}
