package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the parts of abci.Application that do not execute
// transactions: the handshake, genesis, queries and block boundaries.
// BaseApp embeds it and adds CheckTx and DeliverTx.
//
// None of these calls carries user input, so a failure means the node
// state is broken and they panic instead of returning an error.
type StoreApp struct {
	name        string
	logger      log.Logger
	store       *CommitStore
	initializer crowdvest.Initializer
	queryRouter crowdvest.QueryRouter

	// chainID is empty until genesis has been applied.
	chainID string
	// appContext lives as long as the node, blockContext is rebuilt on
	// every BeginBlock.
	appContext   crowdvest.Context
	blockContext crowdvest.Context
}

// NewStoreApp opens the latest committed state. It panics if the state
// cannot be loaded.
func NewStoreApp(name string, db crowdvest.CommitKVStore, queries crowdvest.QueryRouter, ctx crowdvest.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(db),
		queryRouter: queries,
		appContext:  ctx,
	}
	s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(s.DeliverStore())
	if err != nil {
		panic(err)
	}
	if chainID != "" {
		s.setChainID(chainID)
	}

	last, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = crowdvest.WithHeight(s.appContext, last.Version)
	return s
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the genesis initializer run by InitChain.
func (s *StoreApp) WithInit(init crowdvest.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the node logger. Every transaction context inherits it.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.appContext = crowdvest.WithLogger(s.appContext, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

func (s *StoreApp) BlockContext() crowdvest.Context {
	return s.blockContext
}

func (s *StoreApp) DeliverStore() crowdvest.CacheableKVStore {
	return s.store.DeliverStore()
}

func (s *StoreApp) CheckStore() crowdvest.CacheableKVStore {
	return s.store.CheckStore()
}

func (s *StoreApp) setChainID(chainID string) {
	s.chainID = chainID
	s.appContext = crowdvest.WithChainID(s.appContext, chainID)
	if s.blockContext != nil {
		s.blockContext = crowdvest.WithChainID(s.blockContext, chainID)
	}
}

// Info reports the last committed height and app hash so that tendermint
// can replay the missing blocks.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	last, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", last.Version, "hash", fmt.Sprintf("%X", last.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          crowdvest.Version(),
		LastBlockHeight:  last.Version,
		LastBlockAppHash: last.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain records the chain id and loads the genesis app state. It can
// run only once for a given database.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.applyGenesis(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

func (s *StoreApp) applyGenesis(chainID string, raw []byte) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already applied for chain %s", s.chainID)
	}
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state missing in genesis")
	}
	var state crowdvest.Options
	if err := json.Unmarshal(raw, &state); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse app state: %s", err)
	}
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.setChainID(chainID)
	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(state, s.DeliverStore())
}

// BeginBlock exposes the header, height and block time to every
// transaction of the block. Proposal deadlines are checked against that
// block time.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := crowdvest.WithHeader(s.appContext, req.Header)
	ctx = crowdvest.WithHeight(ctx, req.Header.GetHeight())
	s.blockContext = crowdvest.WithBlockTime(ctx, req.Header.GetTime())
	return abci.ResponseBeginBlock{}
}

// EndBlock never changes the validator set.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// Query reads the committed state. The path selects the handler, for
// example "/proposals" or "/investments/proposal", and an optional
// "?prefix" suffix switches to a prefix query. Keys and values of the
// result are returned as two serialized ResultSets of the same length.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	route, mod := splitQueryPath(req.Path)
	h := s.queryRouter.Handler(route)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}

	last, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	db := s.store.Snapshot()
	defer db.Discard()

	models, err := h.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: last.Version, Key: keys, Value: values}
}

// splitQueryPath splits "/bucket?mod" into the route and the query mode.
func splitQueryPath(full string) (route, mod string) {
	if i := strings.IndexByte(full, '?'); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}
