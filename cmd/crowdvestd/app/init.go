package app

import (
	"encoding/json"
	"path/filepath"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/commands/server"
	"github.com/iov-one/crowdvest/crypto"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/x/cash"
	"github.com/iov-one/crowdvest/x/invest"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
)

// DefaultBalance is the amount the owner account is funded with in a
// generated genesis file.
const DefaultBalance = 1000000000

// GenInitOptions will produce the options for one rich account that is
// also the authority owner, to use for dev mode.
//
// The owner address can be given as the first argument, in any of the
// forms accepted by crowdvest.ParseAddress. Otherwise a new key is
// generated.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var owner crowdvest.Address
	if len(args) > 0 {
		addr, err := crowdvest.ParseAddress(args[0])
		if err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		if addr == nil {
			return nil, errors.Wrap(errors.ErrEmpty, "owner")
		}
		owner = addr
	} else {
		owner = crypto.GenPrivKeyEd25519().PublicKey().Address()
	}

	type dict map[string]interface{}
	return json.Marshal(dict{
		"cash": []cash.GenesisAccount{
			{Address: owner, Balance: DefaultBalance},
		},
		"invest": invest.Genesis{Owner: owner},
	})
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "crowdvest.db")
	}
	registry := options.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	stack := Stack(registry)
	application, err := Application(Name, stack, TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	if options.Logger != nil {
		application.WithLogger(options.Logger)
	}
	return application, nil
}
