package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/compose-network/governance-deployer/internal/logger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is everything a deployment needs from a chain connection.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ethereum.ChainIDReader
	ethereum.BlockNumberReader
	ethereum.TransactionReader
	Close()
}

const defaultRPCWaitInterval = time.Second

// Dial connects to an RPC endpoint.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	return client, nil
}

// WaitForRPC dials url until it answers a block number query or attempts run out.
func WaitForRPC(ctx context.Context, url string, attempts int, interval time.Duration) (*ethclient.Client, error) {
	log := logger.Named("chain")
	if interval <= 0 {
		interval = defaultRPCWaitInterval
	}

	var lastErr error
	attempts = max(attempts, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		client, err := Dial(ctx, url)
		if err == nil {
			if _, err = client.BlockNumber(ctx); err == nil {
				return client, nil
			}
			client.Close()
		}
		lastErr = err

		log.With("url", url).With("attempt", attempt).With("err", err.Error()).Debug("rpc not ready")

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for RPC at %s: %w", url, ctx.Err())
		case <-time.After(interval):
		}
	}

	return nil, fmt.Errorf("timed out waiting for RPC at %s: %w", url, lastErr)
}

// ChainID fetches and logs the chain ID of a backend.
func ChainID(ctx context.Context, backend ethereum.ChainIDReader, log *slog.Logger) (*big.Int, error) {
	log.Info("fetching chain ID")
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	log.With("chain_id", chainID).Info("chain ID was fetched")

	return chainID, nil
}
