package contracts

import (
	"context"
	"time"
)

// LockerService provides a best-effort distributed lock for background
// workers. It is never used on the booking hot path; slot exclusivity comes
// from the storage-level conditional write.
type LockerService interface {
	TryLock(ctx context.Context, key string, expiration time.Duration) (acquired bool, token string, err error)
	Unlock(ctx context.Context, key, token string) error
	Refresh(ctx context.Context, key, token string, expiration time.Duration) error
}
