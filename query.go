package crowdvest

import (
	"fmt"
)

// Query modes understood by every query handler. An exact key lookup is
// the default. The prefix mode lists every record whose key starts with
// the given data, which is how investments are listed per proposal.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key value record returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler reads records from the committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRouter maps a query path such as "/proposals" to its handler.
type QueryRouter map[string]QueryHandler

func NewQueryRouter() QueryRouter {
	return make(QueryRouter)
}

// RegisterAll lets every extension add its own paths.
func (r QueryRouter) RegisterAll(registers ...func(QueryRouter)) {
	for _, register := range registers {
		register(r)
	}
}

// Register panics if the path is taken. Two extensions claiming the same
// path is a wiring mistake.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r[path]; ok {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r[path] = h
}

// Handler returns nil for an unknown path.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r[path]
}
