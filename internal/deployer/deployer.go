package deployer

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/compose-network/governance-deployer/internal/chain"
	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/compose-network/governance-deployer/internal/crypto"
	"github.com/compose-network/governance-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrDeploymentReverted = errors.New("contract deployment reverted")

const defaultTimeout = time.Minute

type (
	Options struct {
		// GasLimit of every creation transaction. Zero lets the node estimate it.
		GasLimit            uint64
		WaitForConfirmation bool
		Timeout             time.Duration
	}

	// Deployer submits contract creation transactions from a single account.
	Deployer struct {
		backend    chain.Backend
		privateKey *ecdsa.PrivateKey
		from       common.Address
		chainID    *big.Int
		contracts  map[contracts.ContractName]contracts.CompiledContract
		opts       Options
		now        func() time.Time
		logger     *slog.Logger
	}
)

// New creates a deployer signing with privateKey on the chain behind backend.
func New(ctx context.Context, backend chain.Backend, privateKey *ecdsa.PrivateKey, compiled map[contracts.ContractName]contracts.CompiledContract, opts Options) (*Deployer, error) {
	log := logger.Named("contracts_deployer")

	from, err := crypto.PublicAddress(privateKey)
	if err != nil {
		return nil, err
	}

	chainID, err := chain.ChainID(ctx, backend, log)
	if err != nil {
		return nil, err
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &Deployer{
		backend:    backend,
		privateKey: privateKey,
		from:       from,
		chainID:    chainID,
		contracts:  compiled,
		opts:       opts,
		now:        time.Now,
		logger:     log.With("from", from.Hex()),
	}, nil
}

// From is the account paying for and owning every deployment.
func (d *Deployer) From() common.Address {
	return d.from
}

func (d *Deployer) ChainID() *big.Int {
	return new(big.Int).Set(d.chainID)
}

// Deploy creates name with the given constructor arguments. Chain level
// failures are returned as is; nothing is retried.
func (d *Deployer) Deploy(ctx context.Context, name contracts.ContractName, constructorArgs ...any) (Deployment, error) {
	contract, ok := d.contracts[name]
	if !ok {
		return Deployment{}, fmt.Errorf("%w: %s was not loaded", contracts.ErrUnknownContract, name)
	}

	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()

	auth, err := bind.NewKeyedTransactorWithChainID(d.privateKey, d.chainID)
	if err != nil {
		return Deployment{}, fmt.Errorf("failed to create transactor: %w", err)
	}

	gasPrice, err := d.backend.SuggestGasPrice(ctx)
	if err != nil {
		return Deployment{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	auth.Context = ctx
	auth.GasLimit = d.opts.GasLimit
	auth.GasPrice = gasPrice

	d.logger.With("contract", name).With("args", constructorArgs).Info("deploying contract")

	address, tx, _, err := bind.DeployContract(auth, contract.ABI, contract.Bytecode, d.backend, constructorArgs...)
	if err != nil {
		return Deployment{}, fmt.Errorf("failed to deploy %s: %w", name, err)
	}

	d.logger.
		With("contract", name).
		With("address", address.Hex()).
		With("tx_hash", tx.Hash().Hex()).
		Info("contract deployment transaction sent")

	deployment := Deployment{
		Name:       name,
		Address:    address,
		TxHash:     tx.Hash(),
		DeployedAt: d.now().UTC(),
	}

	if !d.opts.WaitForConfirmation {
		return deployment, nil
	}

	receipt, err := bind.WaitMined(ctx, d.backend, tx)
	if err != nil {
		return Deployment{}, fmt.Errorf("failed to wait for %s deployment: %w", name, err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return Deployment{}, fmt.Errorf("%w: %s in tx %s", ErrDeploymentReverted, name, tx.Hash().Hex())
	}

	deployment.BlockNumber = receipt.BlockNumber.Uint64()

	d.logger.
		With("contract", name).
		With("address", address.Hex()).
		With("block", deployment.BlockNumber).
		With("gas_used", receipt.GasUsed).
		Info("contract deployed")

	return deployment, nil
}
