package chain

import (
	"context"
	"testing"

	"github.com/compose-network/governance-deployer/internal/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedFundsKeysAndReportsDevChainID(t *testing.T) {
	key, err := crypto.ParsePrivateKey(DevPrivateKey)
	require.NoError(t, err)
	address, err := crypto.PublicAddress(key)
	require.NoError(t, err)

	sim, err := NewSimulated(key)
	require.NoError(t, err)
	t.Cleanup(sim.Close)

	ctx := context.Background()
	chainID, err := sim.ChainID(ctx)
	require.NoError(t, err)
	assert.Equal(t, params.AllDevChainProtocolChanges.ChainID, chainID)

	balance, err := sim.BalanceAt(ctx, address, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Cmp(devBalance))

	before, err := sim.BlockNumber(ctx)
	require.NoError(t, err)
	sim.Commit()
	after, err := sim.BlockNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}

func TestWaitForRPCGivesUp(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WaitForRPC(ctx, "http://127.0.0.1:1", 3, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
