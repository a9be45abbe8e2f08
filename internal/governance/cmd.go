package governance

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/compose-network/governance-deployer/configs"
	"github.com/compose-network/governance-deployer/internal/crypto"
	"github.com/compose-network/governance-deployer/internal/infra/filesystem"
	"github.com/compose-network/governance-deployer/internal/output"
	"github.com/compose-network/governance-deployer/internal/scripts"
	"github.com/spf13/cobra"
)

// Commands are the subcommands of the governance deployer.
var Commands = []*cobra.Command{compileCmd, deployCmd, verifyCmd, networksCmd}

var deployCmd = &cobra.Command{
	Use:   "deploy [meta-governor|uni-governance|all]",
	Short: "Deploy governance contracts to the configured network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("starting deploy command. Validating config", slog.String("network", string(configs.Values.Network)))

		if err := configs.Values.Validate(); err != nil {
			return err
		}

		service, err := newService(configs.Values)
		if err != nil {
			return err
		}

		if err := service.Deploy(cmd.Context(), scripts.ScriptName(args[0])); err != nil {
			return fmt.Errorf("deployment failed: %w", err)
		}

		slog.Info("deployment completed successfully")

		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify [meta-governor|uni-governance|all]",
	Short: "Check that recorded deployments hold code on the configured network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := configs.Values.Validate(); err != nil {
			return err
		}

		service, err := newService(configs.Values)
		if err != nil {
			return err
		}

		if err := service.Verify(cmd.Context(), scripts.ScriptName(args[0])); err != nil {
			return err
		}

		slog.Info("all recorded deployments verified")

		return nil
	},
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List the configured networks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, 0, len(configs.Values.Networks))
		for name := range configs.Values.Networks {
			names = append(names, string(name))
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		for _, name := range names {
			network := configs.Values.Networks[configs.NetworkName(name)]

			marker := " "
			if configs.NetworkName(name) == configs.Values.Network {
				marker = "*"
			}
			endpoint := network.RPCURL
			if network.Simulated {
				endpoint = "in-process"
			}
			fmt.Fprintf(out, "%s %s\tchain-id=%d\t%s\tsigner=%s\n", marker, name, network.ChainID, strings.TrimSpace(endpoint), signer(network))
		}

		return nil
	},
}

func signer(network configs.Network) string {
	key := signingKey(network)
	if key == "" {
		return "unset"
	}

	address, err := crypto.AddressFromPrivateKey(key)
	if err != nil {
		return "invalid"
	}
	return address
}

func newService(cfg configs.Config) (*Service, error) {
	writer := output.NewWriter(filesystem.NewStore(cfg.Paths.Deployments))
	return NewService(cfg, writer)
}
