// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Fantom-foundation/kvstate/common"
	"github.com/Fantom-foundation/kvstate/storage"
)

var (
	dbDirectoryFlag = cli.StringFlag{
		Name:     "dir",
		Usage:    "the targeted directory",
		Required: true,
	}
	keyHashFlag = cli.StringFlag{
		Name:  "key-hash",
		Usage: "hash function of the key hashes, sha3 or blake3",
		Value: string(storage.DefaultKeyHash),
	}
	versionFlag = cli.Uint64Flag{
		Name:  "version",
		Usage: "the version to read, the latest version if not set",
	}
	verboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "enables debug logging",
	}
)

var storageFlags = []cli.Flag{
	&dbDirectoryFlag,
	&keyHashFlag,
	&verboseFlag,
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	if !verbose {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return config.Build()
}

// runWithStorage opens the storage selected by the flags of the given context,
// runs the given action on it, and closes it again.
func runWithStorage(ctx *cli.Context, action func(*storage.Storage, *zap.Logger) error) (err error) {
	log, err := newLogger(ctx.Bool(verboseFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to create logger; %w", err)
	}
	defer log.Sync()

	dir := ctx.String(dbDirectoryFlag.Name)
	s, err := storage.Open(storage.Parameters{
		Directory: dir,
		KeyHash:   common.HashAlgorithm(ctx.String(keyHashFlag.Name)),
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.Close())
	}()
	return action(s, log)
}

// snapshotOf pins the version requested by the flags of the given context.
func snapshotOf(ctx *cli.Context, s *storage.Storage) (*storage.Snapshot, error) {
	if ctx.IsSet(versionFlag.Name) {
		return s.Snapshot(ctx.Uint64(versionFlag.Name))
	}
	return s.LatestSnapshot()
}
