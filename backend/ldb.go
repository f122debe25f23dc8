// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package backend

import (
	"bytes"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// TableSpace divide key-value storage into spaces by adding a prefix to the key.
type TableSpace byte

const (
	// AuthenticatedKey is a tablespace for consensus-critical data. It co-locates
	// the versioned values, addressed by key hash, and the nodes of the
	// authenticated tree, addressed by node key.
	AuthenticatedKey TableSpace = 'J'
	// KeyPreimageKey is a tablespace mapping original key strings to key hashes,
	// ordered lexicographically by the original key
	KeyPreimageKey TableSpace = 'K'
	// NonconsensusKey is a tablespace for unauthenticated data
	NonconsensusKey TableSpace = 'N'
	// MetadataKey is a tablespace for store bookkeeping (latest version, root hashes, layout)
	MetadataKey TableSpace = 'M'
)

// Domains of the authenticated table space.
const (
	ValueDomain byte = 'v'
	NodeDomain  byte = 'n'
)

// Prefix provides the key prefix of the table space, optionally narrowed to the given domains.
func (t TableSpace) Prefix(domains ...byte) []byte {
	res := make([]byte, 0, 1+len(domains))
	res = append(res, byte(t))
	return append(res, domains...)
}

// LevelDBReader is an interface missing in original LevelDB design.
// It contains methods common for the LevelDB instance and its Snapshots.
type LevelDBReader interface {
	// Get gets the value for the given key. It returns ErrNotFound if the
	// DB does not contain the key.
	//
	// The returned slice is its own copy, it is safe to modify the contents
	// of the returned slice.
	Get(key []byte, ro *opt.ReadOptions) (value []byte, err error)

	// Has returns true if the DB does contain the given key.
	Has(key []byte, ro *opt.ReadOptions) (bool, error)

	// NewIterator returns an iterator over the given key range. The iterator
	// must be released after use, by calling Release method.
	NewIterator(slice *util.Range, ro *opt.ReadOptions) iterator.Iterator
}

var (
	_ LevelDBReader = (*leveldb.DB)(nil)
	_ LevelDBReader = (*leveldb.Snapshot)(nil)
)

// OpenLevelDb opens the LevelDB stored in the given directory. An empty path
// opens a fresh in-memory database, which is lost when closed.
func OpenLevelDb(path string, options *opt.Options) (*leveldb.DB, error) {
	if path == "" {
		return leveldb.Open(storage.NewMemStorage(), options)
	}
	db, err := leveldb.OpenFile(path, options)
	if err != nil {
		return nil, fmt.Errorf("failed to open LevelDB in %s; %w", path, err)
	}
	return db, nil
}

// Area is a view on the keys of one table space (or one of its domains) of
// a LevelDB reader. Keys passed to and returned by an Area exclude the prefix.
type Area struct {
	prefix []byte
	reader LevelDBReader
}

// NewArea binds the given key prefix to a reader.
func NewArea(reader LevelDBReader, prefix []byte) Area {
	return Area{prefix: prefix, reader: reader}
}

// Key converts the given area-local key into a database key.
func (a Area) Key(key []byte) []byte {
	res := make([]byte, 0, len(a.prefix)+len(key))
	res = append(res, a.prefix...)
	return append(res, key...)
}

// Strip removes the area prefix from a database key.
func (a Area) Strip(dbKey []byte) []byte {
	return dbKey[len(a.prefix):]
}

// Get fetches the value of the given key. A missing key is reported as a nil
// value without an error.
func (a Area) Get(key []byte) ([]byte, error) {
	value, err := a.reader.Get(a.Key(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Has checks whether the given key is present.
func (a Area) Has(key []byte) (bool, error) {
	return a.reader.Has(a.Key(key), nil)
}

// NewIterator iterates the keys in [start, limit) of the area. A nil start or
// limit is unbounded within the area.
func (a Area) NewIterator(start, limit []byte) iterator.Iterator {
	bounds := util.BytesPrefix(a.prefix)
	r := util.Range{Start: bounds.Start, Limit: bounds.Limit}
	if start != nil {
		r.Start = a.Key(start)
	}
	if limit != nil {
		r.Limit = a.Key(limit)
	}
	return a.reader.NewIterator(&r, nil)
}

// NewPrefixIterator iterates all keys of the area starting with the given prefix.
func (a Area) NewPrefixIterator(prefix []byte) iterator.Iterator {
	return a.reader.NewIterator(util.BytesPrefix(a.Key(prefix)), nil)
}

// Last provides the highest key of the area and its value.
func (a Area) Last() (key, value []byte, found bool, err error) {
	it := a.NewIterator(nil, nil)
	defer it.Release()
	if it.Last() {
		key = bytes.Clone(a.Strip(it.Key()))
		value = bytes.Clone(it.Value())
		return key, value, true, nil
	}
	return nil, nil, false, it.Error()
}
