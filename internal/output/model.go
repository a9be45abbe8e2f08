package output

import (
	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/compose-network/governance-deployer/internal/deployer"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

type (
	// RecordFile is the JSON form of a run's deployment record.
	RecordFile struct {
		ChainInfo   ChainInfo                                 `json:"chainInfo"`
		Network     string                                    `json:"network"`
		Script      string                                    `json:"script"`
		Addresses   map[contracts.ContractName]common.Address `json:"addresses"`
		Deployments []deployer.Deployment                     `json:"deployments"`
	}

	ChainInfo struct {
		ChainID uint64 `json:"chainId"`
	}

	// Summary is the human readable YAML companion of a RecordFile.
	Summary struct {
		Network   string                    `yaml:"network"`
		ChainID   uint64                    `yaml:"chain-id"`
		Script    string                    `yaml:"script"`
		Contracts map[string]ContractConfig `yaml:"contracts"`
	}

	ContractConfig struct {
		Address common.Address     `yaml:"address"`
		TxHash  common.Hash        `yaml:"tx-hash"`
		Block   uint64             `yaml:"block,omitempty"`
		ABI     SingleQuotedString `yaml:"abi,omitempty"`
	}

	SingleQuotedString string
)

func (s SingleQuotedString) MarshalYAML() (any, error) {
	node := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.SingleQuotedStyle,
		Value: string(s),
	}
	return node, nil
}
