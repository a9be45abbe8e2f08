package configs

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, NetworkNameSimulated, cfg.Network)
	assert.Equal(t, 2*time.Minute, cfg.UniGovernance.TimelockDelay)
	assert.Equal(t, int64(1623374762+86400*7), cfg.UniGovernance.MintingAllowedAfter)
	assert.Equal(t, time.Minute, cfg.Deploy.Timeout)

	network, err := cfg.ActiveNetwork()
	require.NoError(t, err)
	assert.True(t, network.Simulated)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Config{
		Network: "kovan",
		Networks: map[NetworkName]Network{
			"kovan": {ChainID: 42},
		},
		MetaGovernor: MetaGovernor{
			AaveGovernor:     "0xEC568fffba86c094cf06b22134B23074DFE2252c",
			CompoundGovernor: "not-an-address",
			UniGovernor:      "0x5e4be8Bc9637f0EAA1A755019e06A68ce081D58F",
		},
	}

	err := cfg.Validate()
	require.Error(t, err)

	for _, want := range []string{
		"networks.kovan.rpc-url is required",
		"networks.kovan.private-key is required",
		"paths.artifacts is required",
		"paths.deployments is required",
		"deploy.timeout must be positive",
		"meta-governor.compound-governor must be a hex address",
		"uni-governance.timelock-delay must be positive",
		"uni-governance.minting-allowed-after is required",
	} {
		assert.ErrorContains(t, err, want)
	}
	assert.NotContains(t, err.Error(), "aave-governor")
}

func TestValidateUnknownNetwork(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	cfg.Network = "mainnet"

	assert.ErrorContains(t, cfg.Validate(), "networks.mainnet is required")

	_, err = cfg.ActiveNetwork()
	assert.ErrorContains(t, err, "network 'mainnet' is not configured")
}

func TestValidateCompiler(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateCompiler())

	cfg.Compiler.Mode = "remote"
	assert.ErrorContains(t, cfg.ValidateCompiler(), "compiler.mode must be either 'local' or 'docker'")

	cfg.Compiler.Mode = CompilerModeLocal
	cfg.Compiler.SolcBinary = ""
	assert.ErrorContains(t, cfg.ValidateCompiler(), "compiler.solc-binary is required in local mode")
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	v := viper.New()
	v.Set("network", "kovan")
	v.Set("networks.kovan.rpc-url", "http://localhost:8545")
	v.Set("networks.kovan.private-key", "0x01")

	require.NoError(t, ApplyDefaults(v))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, NetworkName("kovan"), cfg.Network)
	assert.Equal(t, "http://localhost:8545", cfg.Networks["kovan"].RPCURL)
	assert.Equal(t, 42, cfg.Networks["kovan"].ChainID)
	assert.Equal(t, "./build/artifacts", cfg.Paths.Artifacts)
	require.NoError(t, cfg.Validate())
}
