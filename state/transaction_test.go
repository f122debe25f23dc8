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

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
)

func TestTransaction_ReadsOwnWritesWithoutConsultingBase(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := NewMockStateRead(ctrl) // any call on the base fails the test
	tx, err := NewState(base).BeginTransaction()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer tx.Abort()

	tx.PutRaw("k", []byte{1, 2, 3})
	value, err := tx.GetRaw(context.Background(), "k")
	if err != nil || string(value) != string([]byte{1, 2, 3}) {
		t.Errorf("unexpected value: %v, %v", value, err)
	}

	tx.PutNonconsensus([]byte("n"), []byte("v"))
	value, err = tx.GetNonconsensus(context.Background(), []byte("n"))
	if err != nil || string(value) != "v" {
		t.Errorf("unexpected value: %v, %v", value, err)
	}
}

func TestTransaction_DeleteHidesBaseValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := NewMockStateRead(ctrl)
	tx, _ := NewState(base).BeginTransaction()
	defer tx.Abort()

	tx.Delete("k")
	tx.DeleteNonconsensus([]byte("n"))

	if value, err := tx.GetRaw(context.Background(), "k"); err != nil || value != nil {
		t.Errorf("deleted key should be absent, got %v, %v", value, err)
	}
	if value, err := tx.GetNonconsensus(context.Background(), []byte("n")); err != nil || value != nil {
		t.Errorf("deleted key should be absent, got %v, %v", value, err)
	}
}

func TestTransaction_FallsBackToBaseForUntouchedKeys(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := NewMockStateRead(ctrl)
	base.EXPECT().GetRaw(gomock.Any(), "k").Return([]byte("base"), nil)
	base.EXPECT().GetNonconsensus(gomock.Any(), []byte("n")).Return(nil, nil)

	tx, _ := NewState(base).BeginTransaction()
	defer tx.Abort()
	tx.PutRaw("other", []byte("x"))

	if value, err := tx.GetRaw(context.Background(), "k"); err != nil || string(value) != "base" {
		t.Errorf("unexpected value: %v, %v", value, err)
	}
	if value, err := tx.GetNonconsensus(context.Background(), []byte("n")); err != nil || value != nil {
		t.Errorf("unexpected value: %v, %v", value, err)
	}
}

func TestTransaction_BaseErrorsArePropagated(t *testing.T) {
	ctrl := gomock.NewController(t)
	base := NewMockStateRead(ctrl)
	injected := errors.New("injected")
	base.EXPECT().GetRaw(gomock.Any(), "k").Return(nil, injected)

	tx, _ := NewState(base).BeginTransaction()
	defer tx.Abort()
	if _, err := tx.GetRaw(context.Background(), "k"); !errors.Is(err, injected) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTransaction_LastWriteWins(t *testing.T) {
	tx, _ := NewState(newMapState(map[string]string{"k": "base"})).BeginTransaction()
	defer tx.Abort()
	ctx := context.Background()

	tx.PutRaw("k", []byte("v1"))
	tx.PutRaw("k", []byte("v2"))
	if value, _ := tx.GetRaw(ctx, "k"); string(value) != "v2" {
		t.Errorf("unexpected value: %s", value)
	}
	tx.Delete("k")
	if value, _ := tx.GetRaw(ctx, "k"); value != nil {
		t.Errorf("deleted key should be absent, got %s", value)
	}
	tx.PutRaw("k", []byte("v3"))
	if value, _ := tx.GetRaw(ctx, "k"); string(value) != "v3" {
		t.Errorf("unexpected value: %s", value)
	}
}

func TestTransaction_EmptyValueIsNotADeletion(t *testing.T) {
	tx, _ := NewState(newMapState(map[string]string{"k": "base"})).BeginTransaction()
	defer tx.Abort()

	tx.PutRaw("k", nil)
	value, err := tx.GetRaw(context.Background(), "k")
	if err != nil || value == nil || len(value) != 0 {
		t.Errorf("empty value should be present, got %v, %v", value, err)
	}
}

func TestTransaction_StagedValuesAreCopied(t *testing.T) {
	tx, _ := NewState(newMapState(nil)).BeginTransaction()
	defer tx.Abort()

	buffer := []byte("abc")
	key := []byte("n")
	tx.PutRaw("k", buffer)
	tx.PutNonconsensus(key, buffer)
	buffer[0] = 'x'
	key[0] = 'm'

	if value, _ := tx.GetRaw(context.Background(), "k"); string(value) != "abc" {
		t.Errorf("staged value was modified through caller buffer: %s", value)
	}
	if value, _ := tx.GetNonconsensus(context.Background(), []byte("n")); string(value) != "abc" {
		t.Errorf("staged value was modified through caller buffer: %s", value)
	}
}

func TestTransaction_CommitMergesChangesIntoState(t *testing.T) {
	ctx := context.Background()
	state := NewState(newMapState(map[string]string{"a": "1", "b": "2"}))
	state.PutRaw("c", []byte("staged"))

	tx, _ := state.BeginTransaction()
	tx.PutRaw("a", []byte("10"))
	tx.Delete("b")
	tx.PutRaw("c", []byte("30"))
	tx.PutNonconsensus([]byte("n"), []byte("x"))
	if err := tx.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	want := map[string][]byte{"a": []byte("10"), "b": nil, "c": []byte("30")}
	for key, value := range want {
		got, err := state.GetRaw(ctx, key)
		if err != nil || string(got) != string(value) || (got == nil) != (value == nil) {
			t.Errorf("unexpected value of %s: wanted %v, got %v, %v", key, value, got, err)
		}
	}
	if got, _ := state.GetNonconsensus(ctx, []byte("n")); string(got) != "x" {
		t.Errorf("unexpected non-consensus value: %s", got)
	}
}

func TestTransaction_AbortLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	state := NewState(newMapState(map[string]string{"a": "1"}))

	tx, _ := state.BeginTransaction()
	tx.PutRaw("a", []byte("2"))
	tx.PutRaw("b", []byte("3"))
	tx.PutNonconsensus([]byte("n"), []byte("x"))
	tx.Abort()

	if state.HasChanges() {
		t.Errorf("aborted transaction must not stage changes")
	}
	if got, _ := state.GetRaw(ctx, "a"); string(got) != "1" {
		t.Errorf("unexpected value: %s", got)
	}
	if got, _ := state.GetRaw(ctx, "b"); got != nil {
		t.Errorf("unexpected value: %s", got)
	}
}

func TestTransaction_FailedTransactionCanNotBeCommitted(t *testing.T) {
	state := NewState(newMapState(map[string]string{"a": "1"}))

	tx, _ := state.BeginTransaction()
	tx.PutRaw("a", []byte("2"))
	tx.Fail("R")
	if !tx.Failed() || tx.FailureReason() != "R" {
		t.Errorf("transaction should be marked as failed")
	}

	err := tx.Commit()
	if !errors.Is(err, ErrTransactionFailed) || !strings.Contains(err.Error(), "R") {
		t.Errorf("unexpected error: %v", err)
	}
	if state.HasChanges() {
		t.Errorf("failed transaction must not stage changes")
	}
	if got, _ := state.GetRaw(context.Background(), "a"); string(got) != "1" {
		t.Errorf("unexpected value: %s", got)
	}
}

func TestTransaction_Cannot_Commit_Twice(t *testing.T) {
	tx, _ := NewState(newMapState(nil)).BeginTransaction()
	if err := tx.Commit(); err != nil {
		t.Fatalf("cannot commit transaction: %v", err)
	}
	if err := tx.Commit(); !errors.Is(err, ErrTransactionClosed) {
		t.Errorf("second commit should fail, got %v", err)
	}
}

func TestTransaction_Cannot_Commit_After_Abort(t *testing.T) {
	tx, _ := NewState(newMapState(nil)).BeginTransaction()
	tx.Abort()
	tx.Abort() // second abort is a no-op
	if err := tx.Commit(); !errors.Is(err, ErrTransactionClosed) {
		t.Errorf("commit should fail, got %v", err)
	}
}

func TestTransaction_ClosedTransactionIsUnusable(t *testing.T) {
	state := NewState(newMapState(nil))
	tx, _ := state.BeginTransaction()
	tx.Abort()

	ctx := context.Background()
	if _, err := tx.GetRaw(ctx, "k"); !errors.Is(err, ErrTransactionClosed) {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := tx.GetNonconsensus(ctx, []byte("k")); !errors.Is(err, ErrTransactionClosed) {
		t.Errorf("unexpected error: %v", err)
	}
	it := tx.PrefixRaw(ctx, "")
	if it.Next() || !errors.Is(it.Error(), ErrTransactionClosed) {
		t.Errorf("prefix iteration on closed transaction should fail")
	}
	it.Release()

	tx.PutRaw("k", []byte("v"))
	tx.Delete("k")
	tx.PutNonconsensus([]byte("k"), []byte("v"))
	tx.DeleteNonconsensus([]byte("k"))
	if state.HasChanges() {
		t.Errorf("writes to closed transaction must not reach the state")
	}
}

func TestTransaction_OnlyOneTransactionAtATime(t *testing.T) {
	state := NewState(newMapState(nil))
	first, err := state.BeginTransaction()
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	if _, err := state.BeginTransaction(); !errors.Is(err, ErrTransactionInProgress) {
		t.Errorf("concurrent transaction should be refused, got %v", err)
	}

	first.Fail("doomed")
	first.Commit()

	second, err := state.BeginTransaction()
	if err != nil {
		t.Fatalf("transaction should be possible after the previous one ended: %v", err)
	}
	second.Abort()
}

func TestTransaction_PrefixMergesPendingChanges(t *testing.T) {
	base := newMapState(map[string]string{
		"a/1": "x",
		"a/2": "y",
		"a/3": "z",
		"b/1": "w",
	})
	tx, _ := NewState(base).BeginTransaction()
	defer tx.Abort()

	tx.PutRaw("a/0", []byte("new"))
	tx.PutRaw("a/2", []byte("changed"))
	tx.Delete("a/3")
	tx.PutRaw("a/4", []byte("added"))
	tx.Delete("a/5")
	tx.PutRaw("b/2", []byte("other"))

	got := collect(t, tx.PrefixRaw(context.Background(), "a/"))
	want := []string{"a/0=new", "a/1=x", "a/2=changed", "a/4=added"}
	if !equalLists(got, want) {
		t.Errorf("unexpected prefix result, wanted %v, got %v", want, got)
	}
}

func TestTransaction_PrefixSeesChangesOfStateAndTransaction(t *testing.T) {
	state := NewState(newMapState(map[string]string{"a/1": "x", "a/2": "y"}))
	state.PutRaw("a/3", []byte("state"))
	state.Delete("a/1")

	tx, _ := state.BeginTransaction()
	defer tx.Abort()
	tx.PutRaw("a/2", []byte("tx"))

	got := collect(t, tx.PrefixRaw(context.Background(), "a/"))
	want := []string{"a/2=tx", "a/3=state"}
	if !equalLists(got, want) {
		t.Errorf("unexpected prefix result, wanted %v, got %v", want, got)
	}
}

func TestTransaction_PrefixScan(t *testing.T) {
	base := newMapState(map[string]string{"a/1": "x", "a/2": "y", "b/1": "z"})
	tx, _ := NewState(base).BeginTransaction()
	defer tx.Abort()

	got := collect(t, tx.PrefixRaw(context.Background(), "a/"))
	want := []string{"a/1=x", "a/2=y"}
	if !equalLists(got, want) {
		t.Errorf("unexpected prefix result, wanted %v, got %v", want, got)
	}
}
