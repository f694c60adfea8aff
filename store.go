package crowdvest

// ReadOnlyKVStore is the view handlers and queries read the ledger through.
// Keys and values handed out must not be modified by the caller.
type ReadOnlyKVStore interface {
	// Get returns nil for a missing key.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// Iterator walks [start, end) in ascending key order. A nil bound is
	// open. The range must not be written to while the iterator is in use.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks the same range in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write half shared by stores and batches.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is what every handler receives. Within a transaction it is a
// cache over the block state.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch groups writes that are applied by Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator yields records until it returns errors.ErrIteratorDone:
//
//	it, err := db.Iterator(start, end)
//	...
//	defer it.Release()
//	for {
//		key, value, err := it.Next()
//		if errors.ErrIteratorDone.Is(err) {
//			break
//		}
//		...
//	}
type Iterator interface {
	Next() (key, value []byte, err error)
	Release()
}

// CacheableKVStore can stack a scratch pad of pending writes on top of
// itself. Savepoints and the mempool view are built this way.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap reads through to its parent. Write flushes the pending
// writes into the parent and Discard drops them.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent root of the ledger state. Every Commit
// creates a new version with its own merkle root.
type CommitKVStore interface {
	// Get reads the last committed state.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap
	Commit() (CommitID, error)
	// LoadLatestVersion opens the last complete version, which may be older
	// than the last commit attempt after a crash.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version of the state.
type CommitID struct {
	Version int64
	Hash    []byte
}
