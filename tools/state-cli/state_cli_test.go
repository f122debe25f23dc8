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
	"context"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/Fantom-foundation/kvstate/storage"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.App{
		Name: "state",
		Commands: []*cli.Command{
			&getInfoCommand,
			&getCommand,
			&scanCommand,
			&putCommand,
			&deleteCommand,
		},
	}
	return app.Run(append([]string{"state"}, args...))
}

func TestStateCli_UpdatesCreateNewVersions(t *testing.T) {
	dir := t.TempDir()
	if err := run(t, "put", "--dir", dir, "a/1", "x"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := run(t, "put", "--dir", dir, "--hex", "a/2", "0102"); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := run(t, "delete", "--dir", dir, "a/1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	for _, args := range [][]string{
		{"info", "--dir", dir},
		{"get", "--dir", dir, "a/2"},
		{"get", "--dir", dir, "--version", "1", "a/1"},
		{"scan", "--dir", dir, "a/"},
	} {
		if err := run(t, args...); err != nil {
			t.Errorf("%v failed: %v", args, err)
		}
	}

	s, err := storage.Open(storage.Parameters{Directory: dir})
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	defer s.Close()
	if s.LatestVersion() != 3 {
		t.Errorf("unexpected latest version: %d", s.LatestVersion())
	}
	snapshot, _ := s.LatestSnapshot()
	defer snapshot.Release()
	if value, _ := snapshot.GetRaw(context.Background(), "a/1"); value != nil {
		t.Errorf("deleted key should be absent, got %v", value)
	}
	if value, _ := snapshot.GetRaw(context.Background(), "a/2"); string(value) != string([]byte{1, 2}) {
		t.Errorf("unexpected value: %v", value)
	}
}

func TestStateCli_InvalidInvocationsFail(t *testing.T) {
	dir := t.TempDir()
	for _, args := range [][]string{
		{"get", "--dir", dir, "missing"},
		{"get", "--dir", dir},
		{"get", "--dir", dir, "--nonconsensus", "zz"},
		{"put", "--dir", dir, "k"},
		{"put", "--dir", dir, "--hex", "k", "xyz"},
		{"delete", "--dir", dir},
		{"info", "--dir", dir, "--version", "5"},
		{"info", "--dir", dir, "--key-hash", "md5"},
	} {
		if err := run(t, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}
