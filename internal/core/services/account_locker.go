package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/retailbank/banking_ledger/internal/apperrors"
)

// accountLocker hands out one exclusive mutation lock per account ID. Locks
// are channel-based so a waiter can give up when its context expires instead
// of blocking forever.
type accountLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newAccountLocker() *accountLocker {
	return &accountLocker{locks: make(map[string]chan struct{})}
}

func (l *accountLocker) chanFor(accountID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[accountID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[accountID] = ch
	}
	return ch
}

// Lock acquires the account's exclusive lock, or returns ErrLockTimeout if
// ctx is done first. A timed-out caller has changed no state.
func (l *accountLocker) Lock(ctx context.Context, accountID string) error {
	ch := l.chanFor(accountID)
	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: account %s", apperrors.ErrLockTimeout, accountID)
	}
}

// Unlock releases a lock previously acquired with Lock.
func (l *accountLocker) Unlock(accountID string) {
	<-l.chanFor(accountID)
}

// LockAll acquires the locks for every given account in sorted ID order, so
// two transfers between the same pair of accounts can never deadlock. On
// failure every lock already acquired is released and ErrLockTimeout is
// returned. The returned release function unlocks everything.
func (l *accountLocker) LockAll(ctx context.Context, accountIDs ...string) (func(), error) {
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	acquired := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := l.Lock(ctx, id); err != nil {
			for i := len(acquired) - 1; i >= 0; i-- {
				l.Unlock(acquired[i])
			}
			return nil, err
		}
		acquired = append(acquired, id)
	}

	return func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			l.Unlock(acquired[i])
		}
	}, nil
}
