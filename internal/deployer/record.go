package deployer

import (
	"errors"
	"fmt"
	"time"

	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/ethereum/go-ethereum/common"
)

var ErrNotDeployed = errors.New("contract not deployed in this run")

type (
	// Deployment describes one contract creation.
	Deployment struct {
		Name        contracts.ContractName `json:"name"`
		Address     common.Address         `json:"address"`
		TxHash      common.Hash            `json:"txHash"`
		BlockNumber uint64                 `json:"blockNumber,omitempty"`
		DeployedAt  time.Time              `json:"deployedAt"`
	}

	// Record collects the deployments of a single run in the order they happened.
	Record struct {
		order       []contracts.ContractName
		deployments map[contracts.ContractName]Deployment
	}
)

func NewRecord() *Record {
	return &Record{deployments: make(map[contracts.ContractName]Deployment)}
}

// Add stores d. Deploying the same contract twice in one run is an error.
func (r *Record) Add(d Deployment) error {
	if _, ok := r.deployments[d.Name]; ok {
		return fmt.Errorf("%s already deployed in this run", d.Name)
	}

	r.order = append(r.order, d.Name)
	r.deployments[d.Name] = d
	return nil
}

// Address returns the address name received earlier in the run.
func (r *Record) Address(name contracts.ContractName) (common.Address, error) {
	d, ok := r.deployments[name]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrNotDeployed, name)
	}

	return d.Address, nil
}

func (r *Record) Get(name contracts.ContractName) (Deployment, bool) {
	d, ok := r.deployments[name]
	return d, ok
}

// Deployments returns every deployment in the order it was made.
func (r *Record) Deployments() []Deployment {
	out := make([]Deployment, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.deployments[name])
	}
	return out
}

// Addresses returns the name to address mapping of the run.
func (r *Record) Addresses() map[contracts.ContractName]common.Address {
	out := make(map[contracts.ContractName]common.Address, len(r.deployments))
	for name, d := range r.deployments {
		out[name] = d.Address
	}
	return out
}

func (r *Record) Len() int {
	return len(r.order)
}
