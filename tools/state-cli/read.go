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
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Fantom-foundation/kvstate/storage"
)

var nonconsensusFlag = cli.BoolFlag{
	Name:  "nonconsensus",
	Usage: "reads from the non-consensus data, the key is given in hex",
}

var getCommand = cli.Command{
	Action:    getValue,
	Name:      "get",
	Usage:     "prints the value of a key",
	ArgsUsage: "<key>",
	Flags:     append([]cli.Flag{&versionFlag, &nonconsensusFlag}, storageFlags...),
}

var scanCommand = cli.Command{
	Action:    scanPrefix,
	Name:      "scan",
	Usage:     "prints all keys starting with a prefix and their values",
	ArgsUsage: "<prefix>",
	Flags:     append([]cli.Flag{&versionFlag}, storageFlags...),
}

func getValue(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected exactly one key, got %d arguments", ctx.NArg())
	}
	key := ctx.Args().First()
	return runWithStorage(ctx, func(s *storage.Storage, _ *zap.Logger) error {
		snapshot, err := snapshotOf(ctx, s)
		if err != nil {
			return err
		}
		defer snapshot.Release()

		var value []byte
		if ctx.Bool(nonconsensusFlag.Name) {
			raw, err := decodeHex(key)
			if err != nil {
				return err
			}
			value, err = snapshot.GetNonconsensus(ctx.Context, raw)
			if err != nil {
				return err
			}
		} else {
			value, err = snapshot.GetRaw(ctx.Context, key)
			if err != nil {
				return err
			}
		}
		if value == nil {
			return fmt.Errorf("key %q not found at version %d", key, snapshot.Version())
		}
		fmt.Printf("%x\n", value)
		return nil
	})
}

func scanPrefix(ctx *cli.Context) error {
	prefix := ctx.Args().First()
	return runWithStorage(ctx, func(s *storage.Storage, log *zap.Logger) error {
		snapshot, err := snapshotOf(ctx, s)
		if err != nil {
			return err
		}
		defer snapshot.Release()

		it := snapshot.PrefixRaw(ctx.Context, prefix)
		defer it.Release()
		count := 0
		for it.Next() {
			fmt.Printf("%s: %x\n", it.Key(), it.Value())
			count++
		}
		if err := it.Error(); err != nil {
			return err
		}
		log.Info("scan completed", zap.String("prefix", prefix), zap.Int("keys", count))
		return nil
	})
}
