package scripts

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/compose-network/governance-deployer/internal/deployer"
	"github.com/compose-network/governance-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
)

type (
	ScriptName string

	// Runner is the deployment runner scripts drive.
	Runner interface {
		From() common.Address
		Deploy(ctx context.Context, name contracts.ContractName, constructorArgs ...any) (deployer.Deployment, error)
	}

	// Script is a fixed sequence of deployments. Each step may only reference
	// addresses produced by earlier steps of the same run.
	Script interface {
		Name() ScriptName
		Contracts() []contracts.ContractName
		Run(ctx context.Context, runner Runner) (*deployer.Record, error)
	}

	step struct {
		contract contracts.ContractName
		args     func(runner Runner, record *deployer.Record) ([]any, error)
	}
)

const (
	ScriptNameMetaGovernor  ScriptName = "meta-governor"
	ScriptNameUniGovernance ScriptName = "uni-governance"
	ScriptNameAll           ScriptName = "all"
)

// runSteps executes steps in order and stops at the first failure. The record
// of the steps that succeeded is returned together with the error.
func runSteps(ctx context.Context, log *slog.Logger, runner Runner, steps []step) (*deployer.Record, error) {
	record := deployer.NewRecord()

	for i, s := range steps {
		args, err := s.args(runner, record)
		if err != nil {
			return record, fmt.Errorf("failed to build constructor arguments for %s: %w", s.contract, err)
		}

		log.With("step", i+1).With("of", len(steps)).With("contract", s.contract).Info("running deployment step")

		deployment, err := runner.Deploy(ctx, s.contract, args...)
		if err != nil {
			return record, fmt.Errorf("failed to deploy %s: %w", s.contract, err)
		}

		if err := record.Add(deployment); err != nil {
			return record, err
		}
	}

	return record, nil
}

func stepContracts(steps []step) []contracts.ContractName {
	names := make([]contracts.ContractName, 0, len(steps))
	for _, s := range steps {
		if !slices.Contains(names, s.contract) {
			names = append(names, s.contract)
		}
	}
	return names
}

func scriptLogger(name ScriptName) *slog.Logger {
	return logger.Named("deploy_script").With("script", name)
}
