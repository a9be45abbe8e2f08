package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"slices"

	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/compose-network/governance-deployer/internal/crypto"
	"github.com/compose-network/governance-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrImproperAddress = errors.New("not a proper address")
	ErrNoCode          = errors.New("no code at address")
)

type codeReader interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
}

// Checker smoke-tests deployed contracts.
type Checker struct {
	reader codeReader
	logger *slog.Logger
}

func NewChecker(reader codeReader) *Checker {
	return &Checker{
		reader: reader,
		logger: logger.Named("verify_checker"),
	}
}

// Check requires every address to be a proper, non-zero account address
// holding code. All failures are reported together.
func (c *Checker) Check(ctx context.Context, addresses map[contracts.ContractName]common.Address) error {
	if len(addresses) == 0 {
		return errors.New("nothing to verify")
	}

	names := make([]contracts.ContractName, 0, len(addresses))
	for name := range addresses {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		address := addresses[name]
		if err := c.checkOne(ctx, address); err != nil {
			errs = append(errs, fmt.Errorf("%s at %s: %w", name, address.Hex(), err))
			continue
		}
		c.logger.With("contract", name).With("address", address.Hex()).Info("deployment verified")
	}

	if len(errs) > 0 {
		return fmt.Errorf("verification failed: %w", errors.Join(errs...))
	}

	return nil
}

func (c *Checker) checkOne(ctx context.Context, address common.Address) error {
	if !crypto.IsProperAddress(address.Hex()) {
		return ErrImproperAddress
	}

	code, err := c.reader.CodeAt(ctx, address, nil)
	if err != nil {
		return fmt.Errorf("failed to fetch code: %w", err)
	}
	if len(code) == 0 {
		return ErrNoCode
	}

	return nil
}
