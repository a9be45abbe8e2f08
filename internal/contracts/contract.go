package contracts

import (
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

type (
	ContractName string

	CompiledContract struct {
		Name     ContractName
		ABI      abi.ABI
		RawABI   string
		Bytecode []byte
	}

	// Artifact is the on-disk form of a compiled contract. It is a subset of
	// the Hardhat artifact format, so Hardhat build output loads unchanged.
	Artifact struct {
		Format       string          `json:"_format,omitempty"`
		ContractName string          `json:"contractName"`
		SourceName   string          `json:"sourceName,omitempty"`
		ABI          json.RawMessage `json:"abi"`
		Bytecode     string          `json:"bytecode"`
	}
)

const (
	ContractNameMetaGovernor     ContractName = "MetaGovernor"
	ContractNameUniTimelock      ContractName = "UniTimelock"
	ContractNameUni              ContractName = "Uni"
	ContractNameUniGovernorAlpha ContractName = "UniGovernorAlpha"

	artifactFormat = "hh-sol-artifact-1"
)

// Contracts lists every contract the deployment scripts reference.
var Contracts = map[ContractName]struct{}{
	ContractNameMetaGovernor:     {},
	ContractNameUniTimelock:      {},
	ContractNameUni:              {},
	ContractNameUniGovernorAlpha: {},
}

var (
	ErrUnknownContract = errors.New("unknown contract")
	ErrEmptyBytecode   = errors.New("contract has no creation bytecode")
)
