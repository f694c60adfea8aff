package cash

import (
	"testing"

	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/store"
	"github.com/iov-one/crowdvest/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController(t *testing.T) {
	kv := store.MemStore()
	ctrl := NewController(NewBucket())

	a := weavetest.NewCondition().Address()
	b := weavetest.NewCondition().Address()
	c := weavetest.NewCondition().Address()

	bal, err := ctrl.Balance(kv, a)
	require.NoError(t, err)
	assert.EqualValues(t, 0, bal)

	// Moving from an empty account fails.
	err = ctrl.MoveCoins(kv, a, b, 10)
	assert.True(t, errors.ErrInsufficientFunds.Is(err))

	require.NoError(t, ctrl.IssueCoins(kv, a, 100))
	require.NoError(t, ctrl.MoveCoins(kv, a, b, 40))

	bal, err = ctrl.Balance(kv, a)
	require.NoError(t, err)
	assert.EqualValues(t, 60, bal)
	bal, err = ctrl.Balance(kv, b)
	require.NoError(t, err)
	assert.EqualValues(t, 40, bal)

	err = ctrl.MoveCoins(kv, b, c, 41)
	assert.True(t, errors.ErrInsufficientFunds.Is(err))

	err = ctrl.MoveCoins(kv, b, c, 0)
	assert.True(t, errors.ErrAmount.Is(err))

	// Moving everything leaves an empty but existing wallet.
	require.NoError(t, ctrl.MoveCoins(kv, b, c, 40))
	bal, err = ctrl.Balance(kv, b)
	require.NoError(t, err)
	assert.EqualValues(t, 0, bal)

	// Moving to self does not change the balance.
	require.NoError(t, ctrl.MoveCoins(kv, a, a, 60))
	bal, err = ctrl.Balance(kv, a)
	require.NoError(t, err)
	assert.EqualValues(t, 60, bal)

	_, err = ctrl.Balance(kv, []byte("short"))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestControllerOverflow(t *testing.T) {
	kv := store.MemStore()
	ctrl := NewController(NewBucket())

	a := weavetest.NewCondition().Address()
	b := weavetest.NewCondition().Address()

	const max = ^uint64(0)
	require.NoError(t, ctrl.IssueCoins(kv, a, max))
	require.NoError(t, ctrl.IssueCoins(kv, b, 1))

	err := ctrl.IssueCoins(kv, a, 1)
	assert.True(t, errors.ErrOverflow.Is(err))

	err = ctrl.MoveCoins(kv, b, a, 1)
	assert.True(t, errors.ErrOverflow.Is(err))
}
