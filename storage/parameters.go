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
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Fantom-foundation/kvstate/common"
)

const (
	DefaultBlockingWorkers  = 64
	DefaultPrefixBufferSize = 10
	DefaultKeyHash          = common.Sha3

	tracerName = "github.com/Fantom-foundation/kvstate/storage"
)

// Parameters struct defining configuration parameters for storage instances.
type Parameters struct {
	// Directory of the LevelDB files, an empty directory keeps everything in memory.
	Directory string
	// KeyHash selects the hash function deriving key hashes. It is fixed for
	// the lifetime of a store.
	KeyHash common.HashAlgorithm
	// BlockingWorkers is the number of workers serving blocking reads.
	BlockingWorkers int
	// PrefixBufferSize is the capacity of the channel streaming prefix scan results.
	PrefixBufferSize int
	// SyncWrites makes commits wait for the data to be flushed to disk.
	SyncWrites bool
	Logger     *zap.Logger
	Tracer     trace.Tracer
}

func (p Parameters) withDefaults() Parameters {
	if p.KeyHash == "" {
		p.KeyHash = DefaultKeyHash
	}
	if p.BlockingWorkers <= 0 {
		p.BlockingWorkers = DefaultBlockingWorkers
	}
	if p.PrefixBufferSize <= 0 {
		p.PrefixBufferSize = DefaultPrefixBufferSize
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	if p.Tracer == nil {
		p.Tracer = otel.Tracer(tracerName)
	}
	return p
}
