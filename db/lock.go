package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/iamnorbiato/F1App/models"
)

// ErrLocked is returned when another run holds the named lock.
var ErrLocked = errors.New("import lock held by another run")

// ErrLockLost is returned when a run no longer holds the lock it took.
var ErrLockLost = errors.New("import lock no longer held")

// AcquireLock takes the named run lock for ttl. An expired holder is evicted
// first; a live holder yields ErrLocked.
func AcquireLock(ctx context.Context, db bun.IDB, name, owner string, ttl time.Duration) error {
	t := time.Now()

	if _, err := db.NewDelete().
		Model((*models.ImportLock)(nil)).
		Where("name = ?", name).
		Where("expires_at < ?", t.Unix()).
		Exec(ctx); err != nil {
		return fmt.Errorf("evicting expired lock %s: %w", name, err)
	}

	lock := &models.ImportLock{
		Name:      name,
		Owner:     owner,
		ExpiresAt: t.Add(ttl).Unix(),
	}
	if _, err := db.NewInsert().Model(lock).Exec(ctx); err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%s: %w", name, ErrLocked)
		}
		return fmt.Errorf("acquiring lock %s: %w", name, err)
	}
	return nil
}

// RenewLock pushes the expiry of the named lock to now+ttl. It fails with
// ErrLockLost if owner no longer holds the lock.
func RenewLock(ctx context.Context, db bun.IDB, name, owner string, ttl time.Duration) error {
	res, err := db.NewUpdate().
		Model((*models.ImportLock)(nil)).
		Set("expires_at = ?", time.Now().Add(ttl).Unix()).
		Where("name = ?", name).
		Where("owner = ?", owner).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("renewing lock %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("renewing lock %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", name, ErrLockLost)
	}
	return nil
}

// ReleaseLock drops the named lock if owner still holds it.
func ReleaseLock(ctx context.Context, db bun.IDB, name, owner string) error {
	if _, err := db.NewDelete().
		Model((*models.ImportLock)(nil)).
		Where("name = ?", name).
		Where("owner = ?", owner).
		Exec(ctx); err != nil {
		return fmt.Errorf("releasing lock %s: %w", name, err)
	}
	return nil
}
