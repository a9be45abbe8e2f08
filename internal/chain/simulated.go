package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"sync"

	"github.com/compose-network/governance-deployer/internal/crypto"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
)

// DevPrivateKey funds the simulated chain when no key is configured. It is the
// first account of the widely used development mnemonic and must never hold
// value on a public network.
const DevPrivateKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var devBalance = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(params.Ether))

// Simulated is an in-process chain that mines a block for every transaction
// it receives, so deployments confirm as soon as they are sent.
type Simulated struct {
	simulated.Client

	backend *simulated.Backend
	mu      sync.Mutex
}

// NewSimulated starts a simulated chain where every given key holds a dev balance.
func NewSimulated(keys ...*ecdsa.PrivateKey) (*Simulated, error) {
	alloc := make(types.GenesisAlloc, len(keys))
	for _, key := range keys {
		address, err := crypto.PublicAddress(key)
		if err != nil {
			return nil, err
		}
		alloc[address] = types.Account{Balance: devBalance}
	}

	backend := simulated.NewBackend(alloc)

	return &Simulated{
		Client:  backend.Client(),
		backend: backend,
	}, nil
}

// SendTransaction submits tx and mines it into a new block.
func (s *Simulated) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	s.backend.Commit()

	return nil
}

// Commit mines pending transactions into a new block.
func (s *Simulated) Commit() common.Hash {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.backend.Commit()
}

func (s *Simulated) Close() {
	_ = s.backend.Close()
}

var _ Backend = (*Simulated)(nil)
