package app

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

// CommitStore keeps two pending views on top of the committed ledger state:
// one for the mempool and one for the block under construction. Only the
// block view is persisted on Commit.
type CommitStore struct {
	committed crowdvest.CommitKVStore
	deliver   crowdvest.KVCacheWrap
	check     crowdvest.KVCacheWrap
}

// NewCommitStore opens the latest persisted version. It panics when the
// database cannot be loaded because the node cannot run without it.
func NewCommitStore(db crowdvest.CommitKVStore) *CommitStore {
	if err := db.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: db}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the version and the hash of the last commit.
func (cs *CommitStore) CommitInfo() (crowdvest.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists the block view and starts a new round. Pending mempool
// changes are dropped.
func (cs *CommitStore) Commit() (crowdvest.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return crowdvest.CommitID{}, errors.Wrap(err, "write block state")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() crowdvest.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() crowdvest.CacheableKVStore {
	return cs.deliver
}

// Snapshot returns a throwaway view of the committed state. Callers must
// Discard it.
func (cs *CommitStore) Snapshot() crowdvest.KVCacheWrap {
	return cs.committed.CacheWrap()
}

// Keys starting with "_cv:" hold node metadata and never collide with a
// bucket prefix.
var chainIDKey = []byte("_cv:chainID")

// loadChainID returns an empty string before genesis.
func loadChainID(db crowdvest.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID records the chain id once. A second call is rejected so that
// a node can never be re-initialized under another name.
func saveChainID(db crowdvest.KVStore, chainID string) error {
	if !crowdvest.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	switch current, err := loadChainID(db); {
	case err != nil:
		return err
	case current != "":
		return errors.Wrapf(errors.ErrUnauthorized, "chain id already set to %q", current)
	}
	return errors.Wrap(db.Set(chainIDKey, []byte(chainID)), "save chain id")
}
