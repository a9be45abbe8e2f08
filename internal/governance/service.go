package governance

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"slices"
	"time"

	"github.com/compose-network/governance-deployer/configs"
	"github.com/compose-network/governance-deployer/internal/chain"
	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/compose-network/governance-deployer/internal/crypto"
	"github.com/compose-network/governance-deployer/internal/deployer"
	"github.com/compose-network/governance-deployer/internal/logger"
	"github.com/compose-network/governance-deployer/internal/output"
	"github.com/compose-network/governance-deployer/internal/scripts"
	"github.com/compose-network/governance-deployer/internal/verify"
	"github.com/ethereum/go-ethereum/common"
)

var ErrSimulatedNotPersistent = errors.New("the simulated network only lives for a single deploy run")

type (
	outputWriter interface {
		Write(network, script string, chainID *big.Int, record *deployer.Record, compiled map[contracts.ContractName]contracts.CompiledContract) (string, error)
		Read(network, script string) (output.RecordFile, error)
	}

	dialer func(ctx context.Context, url string, attempts int, interval time.Duration) (chain.Backend, error)

	connection struct {
		backend    chain.Backend
		privateKey *ecdsa.PrivateKey
	}

	// Service runs deployment scripts against the configured network.
	Service struct {
		cfg             configs.Config
		registry        *scripts.Registry
		output          outputWriter
		rpcWaitInterval time.Duration
		dial            dialer
		logger          *slog.Logger
	}
)

// NewService creates a service for cfg with the MetaGovernor and Uni governance scripts registered.
func NewService(cfg configs.Config, writer outputWriter) (*Service, error) {
	metaGovernor, err := metaGovernorParams(cfg.MetaGovernor)
	if err != nil {
		return nil, err
	}

	registry := scripts.NewRegistry(
		scripts.NewMetaGovernor(metaGovernor),
		scripts.NewUniGovernance(scripts.UniGovernanceParams{
			TimelockDelay:       cfg.UniGovernance.TimelockDelay,
			MintingAllowedAfter: cfg.UniGovernance.MintingAllowedAfter,
		}),
	)

	return &Service{
		cfg:             cfg,
		registry:        registry,
		output:          writer,
		rpcWaitInterval: time.Second,
		dial:            waitForRPC,
		logger:          logger.Named("governance_service"),
	}, nil
}

// Deploy runs the target scripts one after another. The first failure aborts
// everything that follows; already deployed contracts are left in place.
func (s *Service) Deploy(ctx context.Context, target scripts.ScriptName) error {
	selected, err := s.registry.Resolve(target)
	if err != nil {
		return err
	}

	var names []contracts.ContractName
	for _, script := range selected {
		for _, name := range script.Contracts() {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}

	s.logger.With("artifacts_dir", s.cfg.Paths.Artifacts).Info("loading compiled contracts")
	compiled, err := contracts.NewLoader(s.cfg.Paths.Artifacts).Load(names...)
	if err != nil {
		return fmt.Errorf("failed to load compiled contracts: %w", err)
	}
	s.logger.With("len", len(compiled)).Info("compiled contracts loaded")

	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.backend.Close()

	network, _ := s.cfg.ActiveNetwork()
	runner, err := deployer.New(ctx, conn.backend, conn.privateKey, compiled, deployer.Options{
		GasLimit:            s.cfg.Deploy.GasLimit,
		WaitForConfirmation: s.cfg.Deploy.WaitForConfirmation,
		Timeout:             s.cfg.Deploy.Timeout,
	})
	if err != nil {
		return err
	}

	if !network.Simulated && network.ChainID != 0 && runner.ChainID().Int64() != int64(network.ChainID) {
		return fmt.Errorf("network '%s' expects chain ID %d but the RPC reports %s", s.cfg.Network, network.ChainID, runner.ChainID())
	}

	checker := verify.NewChecker(conn.backend)
	for _, script := range selected {
		log := s.logger.With("script", script.Name())
		log.Info("running deployment script")

		record, err := script.Run(ctx, runner)
		if err != nil {
			log.With("err", err.Error()).With("deployed", record.Len()).Error("deployment sequence aborted")
			return fmt.Errorf("script %s failed: %w", script.Name(), err)
		}

		if _, err := s.output.Write(string(s.cfg.Network), string(script.Name()), runner.ChainID(), record, compiled); err != nil {
			return err
		}

		if !s.cfg.Deploy.WaitForConfirmation {
			log.Warn("deployments were not awaited, skipping verification")
			continue
		}
		if err := checker.Check(ctx, record.Addresses()); err != nil {
			return fmt.Errorf("script %s: %w", script.Name(), err)
		}

		log.Info("deployment script completed")
	}

	return nil
}

// Verify checks the records written by earlier deploy runs against the chain.
func (s *Service) Verify(ctx context.Context, target scripts.ScriptName) error {
	network, err := s.cfg.ActiveNetwork()
	if err != nil {
		return err
	}
	if network.Simulated {
		return ErrSimulatedNotPersistent
	}

	selected, err := s.registry.Resolve(target)
	if err != nil {
		return err
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.backend.Close()

	checker := verify.NewChecker(conn.backend)
	var errs []error
	for _, script := range selected {
		recordFile, err := s.output.Read(string(s.cfg.Network), string(script.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := checker.Check(ctx, recordFile.Addresses); err != nil {
			errs = append(errs, fmt.Errorf("script %s: %w", script.Name(), err))
		}
	}

	return errors.Join(errs...)
}

// Scripts lists the names accepted by Deploy and Verify.
func (s *Service) Scripts() []string {
	return s.registry.Names()
}

func (s *Service) connect(ctx context.Context) (connection, error) {
	network, err := s.cfg.ActiveNetwork()
	if err != nil {
		return connection{}, err
	}

	privateKey, err := crypto.ParsePrivateKey(signingKey(network))
	if err != nil {
		return connection{}, fmt.Errorf("network '%s': %w", s.cfg.Network, err)
	}

	if network.Simulated {
		s.logger.Info("starting simulated chain")
		sim, err := chain.NewSimulated(privateKey)
		if err != nil {
			return connection{}, fmt.Errorf("failed to start simulated chain: %w", err)
		}
		return connection{backend: sim, privateKey: privateKey}, nil
	}

	s.logger.With("network", s.cfg.Network).With("url", network.RPCURL).Info("waiting for RPC")
	backend, err := s.dial(ctx, network.RPCURL, s.cfg.Deploy.RPCWaitAttempts, s.rpcWaitInterval)
	if err != nil {
		return connection{}, err
	}

	return connection{backend: backend, privateKey: privateKey}, nil
}

func waitForRPC(ctx context.Context, url string, attempts int, interval time.Duration) (chain.Backend, error) {
	client, err := chain.WaitForRPC(ctx, url, attempts, interval)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// signingKey is the configured key, or the dev key on a simulated network without one.
func signingKey(network configs.Network) string {
	if network.Simulated && network.PrivateKey == "" {
		return chain.DevPrivateKey
	}
	return network.PrivateKey
}

func metaGovernorParams(cfg configs.MetaGovernor) (scripts.MetaGovernorParams, error) {
	var errs []error
	parse := func(key, value string) common.Address {
		if !common.IsHexAddress(value) {
			errs = append(errs, fmt.Errorf("meta-governor.%s must be a hex address, got '%s'", key, value))
			return common.Address{}
		}
		return common.HexToAddress(value)
	}

	params := scripts.MetaGovernorParams{
		AaveGovernor:     parse("aave-governor", cfg.AaveGovernor),
		CompoundGovernor: parse("compound-governor", cfg.CompoundGovernor),
		UniGovernor:      parse("uni-governor", cfg.UniGovernor),
	}

	return params, errors.Join(errs...)
}
