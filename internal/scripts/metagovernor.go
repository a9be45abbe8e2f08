package scripts

import (
	"context"

	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/compose-network/governance-deployer/internal/deployer"
	"github.com/ethereum/go-ethereum/common"
)

// MetaGovernorParams are the governors the aggregator reads from.
type MetaGovernorParams struct {
	AaveGovernor     common.Address
	CompoundGovernor common.Address
	UniGovernor      common.Address
}

// MetaGovernor deploys the aggregator on top of existing governors.
type MetaGovernor struct {
	params MetaGovernorParams
}

func NewMetaGovernor(params MetaGovernorParams) *MetaGovernor {
	return &MetaGovernor{params: params}
}

func (m *MetaGovernor) Name() ScriptName {
	return ScriptNameMetaGovernor
}

func (m *MetaGovernor) Contracts() []contracts.ContractName {
	return stepContracts(m.steps())
}

func (m *MetaGovernor) Run(ctx context.Context, runner Runner) (*deployer.Record, error) {
	return runSteps(ctx, scriptLogger(m.Name()), runner, m.steps())
}

func (m *MetaGovernor) steps() []step {
	return []step{
		{
			contract: contracts.ContractNameMetaGovernor,
			args: func(Runner, *deployer.Record) ([]any, error) {
				return []any{m.params.AaveGovernor, m.params.CompoundGovernor, m.params.UniGovernor}, nil
			},
		},
	}
}
