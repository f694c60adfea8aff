package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/crowdvest/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// AppStateKey is the key in the genesis file where all info
	// on initializing the app can be found
	AppStateKey = "app_state"
	// DirConfig is the directory under home with the tendermint config
	DirConfig = "config"
	// GenesisTimeKey is the genesis field tendermint requires to be set
	GenesisTimeKey = "genesis_time"

	flagOverwrite = "o"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisPath returns the location of the genesis file under given home
// directory.
func GenesisPath(home string) string {
	return filepath.Join(home, DirConfig, "genesis.json")
}

// InitCmd will initialize the app_state of the genesis file created by
// `tendermint init`. The application passes in a function to generate
// proper options, for example an owner and some funded accounts.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	// parse flagOverwrite and return the result
	var overwrite bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&overwrite, flagOverwrite, false, "overwrite the app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrapf(errors.ErrInput, "flags: %s", err)
	}
	args = initFlags.Args()

	genFile := GenesisPath(home)
	if _, err := os.Stat(genFile); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotFound, "%s does not exist, run `tendermint init` first", genFile)
		}
		return errors.Wrap(err, "genesis file")
	}

	// Now, we want to add the custom app_state
	appState, err := gen(args)
	if err != nil {
		return err
	}

	logger.Info("Adding app_state to genesis", "path", genFile)
	return addGenesisOptions(genFile, appState, overwrite)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, appState json.RawMessage, overwrite bool) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "read genesis")
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis: %s", err)
	}

	if v, ok := doc[AppStateKey]; ok && !isEmptyJSON(v) && !overwrite {
		return errors.Wrap(errors.ErrState, "app_state already set, use -o to overwrite")
	}

	doc[AppStateKey] = appState
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}

func isEmptyJSON(raw json.RawMessage) bool {
	switch string(raw) {
	case "", "null", "{}", `""`:
		return true
	}
	return false
}
