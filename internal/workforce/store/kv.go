package store

import "context"

// KV is the persistent medium behind the collection store: whole JSON
// documents under fixed keys, plus a change broadcast observable by every
// instance sharing the medium. Subscribe delivery excludes the instance
// that performed the write; same-instance writers refresh directly.
type KV interface {
	// Get returns the raw document and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the document wholesale and then broadcasts a change
	// notification for key. The notification is sent only after the write
	// succeeds.
	Set(ctx context.Context, key, value string) error
	// Subscribe registers fn for change notifications from other
	// instances. fn may be called from another goroutine; duplicate or
	// spurious notifications are allowed, consumers must treat a reload
	// as idempotent. Subscription ends when ctx is cancelled.
	Subscribe(ctx context.Context, fn func(key string)) error
}
