package configs

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var Values Config

type (
	NetworkName  string
	CompilerMode string

	Config struct {
		LogLevel      string                  `mapstructure:"log-level"`
		Network       NetworkName             `mapstructure:"network"`
		Networks      map[NetworkName]Network `mapstructure:"networks"`
		Paths         Paths                   `mapstructure:"paths"`
		Deploy        Deploy                  `mapstructure:"deploy"`
		Compiler      Compiler                `mapstructure:"compiler"`
		MetaGovernor  MetaGovernor            `mapstructure:"meta-governor"`
		UniGovernance UniGovernance           `mapstructure:"uni-governance"`
	}

	Network struct {
		RPCURL     string `mapstructure:"rpc-url"`
		ChainID    int    `mapstructure:"chain-id"`
		PrivateKey string `mapstructure:"private-key"`
		Simulated  bool   `mapstructure:"simulated"`
	}

	Paths struct {
		Contracts   string `mapstructure:"contracts"`
		Artifacts   string `mapstructure:"artifacts"`
		Deployments string `mapstructure:"deployments"`
	}

	Deploy struct {
		GasLimit            uint64        `mapstructure:"gas-limit"`
		WaitForConfirmation bool          `mapstructure:"wait-for-confirmation"`
		Timeout             time.Duration `mapstructure:"timeout"`
		RPCWaitAttempts     int           `mapstructure:"rpc-wait-attempts"`
	}

	Compiler struct {
		Mode       CompilerMode `mapstructure:"mode"`
		SolcBinary string       `mapstructure:"solc-binary"`
		Image      string       `mapstructure:"image"`
	}

	MetaGovernor struct {
		AaveGovernor     string `mapstructure:"aave-governor"`
		CompoundGovernor string `mapstructure:"compound-governor"`
		UniGovernor      string `mapstructure:"uni-governor"`
	}

	UniGovernance struct {
		TimelockDelay       time.Duration `mapstructure:"timelock-delay"`
		MintingAllowedAfter int64         `mapstructure:"minting-allowed-after"`
	}
)

const (
	NetworkNameSimulated NetworkName = "simulated"

	CompilerModeLocal  CompilerMode = "local"
	CompilerModeDocker CompilerMode = "docker"
)

// ActiveNetwork returns the network selected by Config.Network.
func (c *Config) ActiveNetwork() (Network, error) {
	network, ok := c.Networks[c.Network]
	if !ok {
		return Network{}, fmt.Errorf("network '%s' is not configured", c.Network)
	}

	return network, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Network == "" {
		errs = append(errs, errors.New("network is required"))
	} else if network, ok := c.Networks[c.Network]; !ok {
		errs = append(errs, fmt.Errorf("networks.%s is required", c.Network))
	} else {
		errs = append(errs, network.validate(c.Network)...)
	}

	if c.Paths.Artifacts == "" {
		errs = append(errs, errors.New("paths.artifacts is required"))
	}
	if c.Paths.Deployments == "" {
		errs = append(errs, errors.New("paths.deployments is required"))
	}
	if c.Deploy.Timeout <= 0 {
		errs = append(errs, errors.New("deploy.timeout must be positive"))
	}

	governors := map[string]string{
		"meta-governor.aave-governor":     c.MetaGovernor.AaveGovernor,
		"meta-governor.compound-governor": c.MetaGovernor.CompoundGovernor,
		"meta-governor.uni-governor":      c.MetaGovernor.UniGovernor,
	}
	for key, value := range governors {
		if !common.IsHexAddress(value) {
			errs = append(errs, fmt.Errorf("%s must be a hex address, got '%s'", key, value))
		}
	}

	if c.UniGovernance.TimelockDelay <= 0 {
		errs = append(errs, errors.New("uni-governance.timelock-delay must be positive"))
	}
	if c.UniGovernance.MintingAllowedAfter <= 0 {
		errs = append(errs, errors.New("uni-governance.minting-allowed-after is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

// ValidateCompiler checks only the settings used by the compile command.
func (c *Config) ValidateCompiler() error {
	var errs []error

	if c.Paths.Contracts == "" {
		errs = append(errs, errors.New("paths.contracts is required"))
	}
	if c.Paths.Artifacts == "" {
		errs = append(errs, errors.New("paths.artifacts is required"))
	}

	switch c.Compiler.Mode {
	case CompilerModeLocal:
		if c.Compiler.SolcBinary == "" {
			errs = append(errs, errors.New("compiler.solc-binary is required in local mode"))
		}
	case CompilerModeDocker:
		if c.Compiler.Image == "" {
			errs = append(errs, errors.New("compiler.image is required in docker mode"))
		}
	default:
		errs = append(errs, errors.New("compiler.mode must be either 'local' or 'docker'"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("compiler configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func (n Network) validate(name NetworkName) []error {
	var errs []error

	if n.Simulated {
		return nil
	}
	if n.RPCURL == "" {
		errs = append(errs, fmt.Errorf("networks.%s.rpc-url is required", name))
	}
	if n.PrivateKey == "" {
		errs = append(errs, fmt.Errorf("networks.%s.private-key is required", name))
	}

	return errs
}
