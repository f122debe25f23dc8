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
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Fantom-foundation/kvstate/state"
	"github.com/Fantom-foundation/kvstate/storage"
)

var hexValueFlag = cli.BoolFlag{
	Name:  "hex",
	Usage: "interprets the value as hex encoded bytes",
}

var putCommand = cli.Command{
	Action:    putValue,
	Name:      "put",
	Usage:     "sets the value of a key in a new version",
	ArgsUsage: "<key> <value>",
	Flags:     append([]cli.Flag{&hexValueFlag}, storageFlags...),
}

var deleteCommand = cli.Command{
	Action:    deleteValue,
	Name:      "delete",
	Usage:     "removes a key in a new version",
	ArgsUsage: "<key>",
	Flags:     storageFlags,
}

func putValue(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return fmt.Errorf("expected a key and a value, got %d arguments", ctx.NArg())
	}
	key, value := ctx.Args().Get(0), []byte(ctx.Args().Get(1))
	if ctx.Bool(hexValueFlag.Name) {
		decoded, err := decodeHex(ctx.Args().Get(1))
		if err != nil {
			return err
		}
		value = decoded
	}
	return update(ctx, func(tx *state.Transaction) {
		tx.PutRaw(key, value)
	})
}

func deleteValue(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected exactly one key, got %d arguments", ctx.NArg())
	}
	key := ctx.Args().First()
	return update(ctx, func(tx *state.Transaction) {
		tx.Delete(key)
	})
}

// update stages the changes of the given function in a transaction on the
// latest state and commits them as a new version.
func update(ctx *cli.Context, change func(*state.Transaction)) error {
	return runWithStorage(ctx, func(s *storage.Storage, log *zap.Logger) error {
		head, err := s.LatestState()
		if err != nil {
			return err
		}
		defer head.Release()

		tx, err := head.BeginTransaction()
		if err != nil {
			return err
		}
		change(tx)
		if err := tx.Commit(); err != nil {
			return err
		}

		version, hash, err := s.Commit(ctx.Context, head)
		if err != nil {
			return err
		}
		fmt.Printf("Version %d, root hash %v\n", version, hash)
		log.Debug("update committed", zap.Uint64("version", version))
		return nil
	})
}

func decodeHex(value string) ([]byte, error) {
	res, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid hex value %q; %w", value, err)
	}
	return res, nil
}
