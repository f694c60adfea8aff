package invest

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

const optKey = "invest"

// Genesis is the invest section of the genesis file.
type Genesis struct {
	Owner crowdvest.Address `json:"owner"`
}

// Initializer declares the authority from the genesis file.
type Initializer struct{}

var _ crowdvest.Initializer = Initializer{}

// FromGenesis stores the authority if the genesis file declares one. A
// chain started without it must process an InitializeMsg before any
// proposal can be resolved.
func (Initializer) FromGenesis(opts crowdvest.Options, kv crowdvest.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}
	if gen.Owner == nil {
		return nil
	}
	bucket := NewConfigBucket()
	switch err := bucket.Has(kv, []byte(configKey)); {
	case err == nil:
		return errors.Wrap(errors.ErrState, "authority already initialized")
	case !errors.ErrNotFound.Is(err):
		return err
	}
	conf := &Config{
		Metadata: &crowdvest.Metadata{Schema: 1},
		Owner:    gen.Owner,
	}
	if _, err := bucket.Put(kv, []byte(configKey), conf); err != nil {
		return errors.Wrap(err, "authority")
	}
	return nil
}
