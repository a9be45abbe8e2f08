package governance

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagDef defines a command-line flag with its configuration.
type (
	flagType interface {
		string | int | bool | time.Duration
	}

	flagDef[T flagType] struct {
		name         string
		viperKey     string
		defaultValue T
		description  string
	}
)

// Flag defaults stay empty. Unset keys fall back to the embedded config.example.yaml.
var (
	stringFlags = []flagDef[string]{
		{"log-level", "log-level", "", "Log level (debug, info, warn, error)"},
		{"network", "network", "", "Network to deploy to, as configured under networks"},

		// Paths
		{"contracts-dir", "paths.contracts", "", "Directory holding the Solidity sources"},
		{"artifacts-dir", "paths.artifacts", "", "Directory holding compiled contract artifacts"},
		{"deployments-dir", "paths.deployments", "", "Directory deployment records are written to"},

		// Compiler
		{"compiler-mode", "compiler.mode", "", "Compiler mode (local or docker)"},
		{"solc-binary", "compiler.solc-binary", "", "solc binary used in local mode"},
		{"solc-image", "compiler.image", "", "solc image used in docker mode"},

		// Governors read by the MetaGovernor
		{"aave-governor", "meta-governor.aave-governor", "", "Aave governor address"},
		{"compound-governor", "meta-governor.compound-governor", "", "Compound governor address"},
		{"uni-governor", "meta-governor.uni-governor", "", "Uni governor address"},
	}

	intFlags = []flagDef[int]{
		{"gas-limit", "deploy.gas-limit", 0, "Gas limit of creation transactions (0 estimates)"},
		{"rpc-wait-attempts", "deploy.rpc-wait-attempts", 0, "Attempts made while waiting for the RPC to come up"},
		{"minting-allowed-after", "uni-governance.minting-allowed-after", 0, "Unix timestamp after which Uni minting is allowed"},
	}

	boolFlags = []flagDef[bool]{
		{"wait-for-confirmation", "deploy.wait-for-confirmation", false, "Wait for every deployment to be mined"},
	}

	durationFlags = []flagDef[time.Duration]{
		{"deploy-timeout", "deploy.timeout", 0, "Timeout of a single deployment"},
		{"timelock-delay", "uni-governance.timelock-delay", 0, "Delay of the UniTimelock"},
	}
)

// DeclareFlags declares every flag on root as a persistent flag and binds it to viper.
func DeclareFlags(root *cobra.Command) error {
	if err := declareFlags(root, stringFlags); err != nil {
		return err
	}
	if err := declareFlags(root, intFlags); err != nil {
		return err
	}
	if err := declareFlags(root, boolFlags); err != nil {
		return err
	}
	return declareFlags(root, durationFlags)
}

// declareFlags declares multiple flags and binds them to viper configuration keys.
func declareFlags[T flagType](root *cobra.Command, flags []flagDef[T]) error {
	for _, flag := range flags {
		if err := declareFlag(root, flag.name, flag.viperKey, flag.defaultValue, flag.description); err != nil {
			return err
		}
	}
	return nil
}

// declareFlag declares a single flag and binds it to a viper configuration key.
// The type parameter T determines the flag type.
func declareFlag[T flagType](root *cobra.Command, flagName, viperKey string, defaultValue T, description string) error {
	flags := root.PersistentFlags()

	var zero T
	switch any(zero).(type) {
	case string:
		flags.String(flagName, any(defaultValue).(string), description)
	case int:
		flags.Int(flagName, any(defaultValue).(int), description)
	case bool:
		flags.Bool(flagName, any(defaultValue).(bool), description)
	case time.Duration:
		flags.Duration(flagName, any(defaultValue).(time.Duration), description)
	}
	return viper.BindPFlag(viperKey, flags.Lookup(flagName))
}
