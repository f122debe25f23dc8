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

var getInfoCommand = cli.Command{
	Action: getInfo,
	Name:   "info",
	Usage:  "prints summary information about a state directory",
	Flags:  append([]cli.Flag{&versionFlag}, storageFlags...),
}

func getInfo(ctx *cli.Context) error {
	return runWithStorage(ctx, func(s *storage.Storage, log *zap.Logger) error {
		snapshot, err := snapshotOf(ctx, s)
		if err != nil {
			return err
		}
		defer snapshot.Release()

		hash, err := s.RootHash(snapshot.Version())
		if err != nil {
			return err
		}
		fmt.Printf("Latest version: %d\n", s.LatestVersion())
		fmt.Printf("Version: %d\n", snapshot.Version())
		fmt.Printf("Root hash: %v\n", hash)

		log.Debug("looking up rightmost leaf")
		key, leaf, err := snapshot.GetRightmostLeaf()
		if err != nil {
			return err
		}
		if leaf == nil {
			fmt.Printf("Rightmost leaf: -\n")
		} else {
			fmt.Printf("Rightmost leaf: %v %v\n", key, leaf)
		}
		return nil
	})
}
