package querycache

import "errors"

var (
	// ErrStoreUnavailable wraps failures of the fast store. Reads degrade to a
	// miss; writes are logged and may be discarded.
	ErrStoreUnavailable = errors.New("querycache: store unavailable")
	// ErrSerialization marks an entry that could not be encoded or decoded.
	ErrSerialization = errors.New("querycache: serialization failed")
	// ErrKeyDerivation is returned to the caller when a query cannot be keyed.
	ErrKeyDerivation = errors.New("querycache: key derivation failed")
)
