// Package lock serializes work per key, in process or across instances.
package lock

import "context"

// Unlock releases a held key. Calling it more than once is a no-op and
// returns nil after the first call.
type Unlock func() error

// Locker grants exclusive ownership of a key until Unlock is called.
// Lock blocks until the key is free or ctx is done.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}
