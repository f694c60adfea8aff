// nolint
package store

import "github.com/iov-one/crowdvest"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = crowdvest.ReadOnlyKVStore
type SetDeleter = crowdvest.SetDeleter
type KVStore = crowdvest.KVStore
type Batch = crowdvest.Batch
type Iterator = crowdvest.Iterator
type CacheableKVStore = crowdvest.CacheableKVStore
type KVCacheWrap = crowdvest.KVCacheWrap
type CommitKVStore = crowdvest.CommitKVStore
type CommitID = crowdvest.CommitID
type Model = crowdvest.Model

var Pair = crowdvest.Pair
