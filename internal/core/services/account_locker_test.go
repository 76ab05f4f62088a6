package services

import (
	"context"
	"testing"
	"time"

	"github.com/retailbank/banking_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountLocker_TimeoutOnContendedLock(t *testing.T) {
	l := newAccountLocker()
	ctx := context.Background()

	require.NoError(t, l.Lock(ctx, "acc1"))
	defer l.Unlock("acc1")

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	err := l.Lock(waitCtx, "acc1")
	assert.ErrorIs(t, err, apperrors.ErrLockTimeout)
}

func TestAccountLocker_IndependentAccountsDoNotBlock(t *testing.T) {
	l := newAccountLocker()
	ctx := context.Background()

	require.NoError(t, l.Lock(ctx, "acc1"))
	defer l.Unlock("acc1")

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()

	require.NoError(t, l.Lock(waitCtx, "acc2"))
	l.Unlock("acc2")
}

func TestAccountLocker_LockAllRollsBackOnTimeout(t *testing.T) {
	l := newAccountLocker()
	ctx := context.Background()

	// Hold the lexicographically later lock so LockAll acquires acc1 first,
	// then times out on acc2 and must release acc1.
	require.NoError(t, l.Lock(ctx, "acc2"))

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	_, err := l.LockAll(waitCtx, "acc1", "acc2")
	cancel()
	assert.ErrorIs(t, err, apperrors.ErrLockTimeout)

	// acc1 must be free again.
	freeCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	require.NoError(t, l.Lock(freeCtx, "acc1"))
	l.Unlock("acc1")

	l.Unlock("acc2")
}

func TestAccountLocker_ReleaseFreesEverything(t *testing.T) {
	l := newAccountLocker()
	ctx := context.Background()

	release, err := l.LockAll(ctx, "accB", "accA")
	require.NoError(t, err)
	release()

	for _, id := range []string{"accA", "accB"} {
		lockCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		require.NoError(t, l.Lock(lockCtx, id))
		l.Unlock(id)
		cancel()
	}
}
