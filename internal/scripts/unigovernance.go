package scripts

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/compose-network/governance-deployer/internal/deployer"
)

// UniGovernanceParams configure the timelock and token of the stack.
type UniGovernanceParams struct {
	TimelockDelay time.Duration
	// MintingAllowedAfter is a unix timestamp in seconds.
	MintingAllowedAfter int64
}

// UniGovernance deploys a timelock, a token and a governor wired to both.
// The deploying account is the timelock admin, the initial token holder and
// the minter.
type UniGovernance struct {
	params UniGovernanceParams
}

func NewUniGovernance(params UniGovernanceParams) *UniGovernance {
	return &UniGovernance{params: params}
}

func (u *UniGovernance) Name() ScriptName {
	return ScriptNameUniGovernance
}

func (u *UniGovernance) Contracts() []contracts.ContractName {
	return stepContracts(u.steps())
}

func (u *UniGovernance) Run(ctx context.Context, runner Runner) (*deployer.Record, error) {
	return runSteps(ctx, scriptLogger(u.Name()), runner, u.steps())
}

func (u *UniGovernance) steps() []step {
	return []step{
		{
			contract: contracts.ContractNameUniTimelock,
			args: func(runner Runner, _ *deployer.Record) ([]any, error) {
				delay := int64(u.params.TimelockDelay / time.Second)
				if delay <= 0 {
					return nil, fmt.Errorf("timelock delay must be at least one second, got %s", u.params.TimelockDelay)
				}
				return []any{runner.From(), big.NewInt(delay)}, nil
			},
		},
		{
			contract: contracts.ContractNameUni,
			args: func(runner Runner, _ *deployer.Record) ([]any, error) {
				return []any{runner.From(), runner.From(), big.NewInt(u.params.MintingAllowedAfter)}, nil
			},
		},
		{
			contract: contracts.ContractNameUniGovernorAlpha,
			args: func(_ Runner, record *deployer.Record) ([]any, error) {
				timelock, err := record.Address(contracts.ContractNameUniTimelock)
				if err != nil {
					return nil, err
				}
				uni, err := record.Address(contracts.ContractNameUni)
				if err != nil {
					return nil, err
				}
				return []any{timelock, uni}, nil
			},
		},
	}
}
