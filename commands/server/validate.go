package server

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/store"
)

// ValidateGenesis loads the app_state of every given genesis file with the
// initializer, using a throw away store.
func ValidateGenesis(ini crowdvest.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrEmpty, "genesis path")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini crowdvest.Initializer, genesisPath string) error {
	b, err := ioutil.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "cannot read genesis file: %s", err)
	}

	var genesis struct {
		State json.RawMessage `json:"app_state"`
	}
	if err := json.Unmarshal(b, &genesis); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot JSON deserialize genesis: %s", err)
	}
	return ValidateGenesisState(ini, genesis.State)
}

// ValidateGenesisState runs the initializer over the app_state content of
// a genesis file.
func ValidateGenesisState(ini crowdvest.Initializer, appState json.RawMessage) error {
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}
	var opts crowdvest.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot JSON deserialize app_state: %s", err)
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	if err := ini.FromGenesis(opts, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
