package governance

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/compose-network/governance-deployer/configs"
	"github.com/compose-network/governance-deployer/internal/contracts"
	"github.com/compose-network/governance-deployer/internal/contracts/solc"
	"github.com/compose-network/governance-deployer/internal/infra/docker"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the governance contracts",
	Long:  "Compiles the Solidity sources under paths.contracts and writes one artifact per deployable contract to paths.artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("running contract compilation command")

		if err := configs.Values.ValidateCompiler(); err != nil {
			return err
		}

		if err := compile(cmd.Context(), configs.Values); err != nil {
			return fmt.Errorf("contract compilation failed: %w", err)
		}

		slog.Info("contract compilation completed successfully")

		return nil
	},
}

func compile(ctx context.Context, cfg configs.Config) error {
	var runner interface {
		CombinedJSON(ctx context.Context, sourcesDir string, sources []string) ([]byte, error)
	}

	switch cfg.Compiler.Mode {
	case configs.CompilerModeLocal:
		slog.With("binary", cfg.Compiler.SolcBinary).Info("compiling with local solc")
		runner = solc.Local{Binary: cfg.Compiler.SolcBinary}
	case configs.CompilerModeDocker:
		client, err := docker.New()
		if err != nil {
			return fmt.Errorf("failed to create docker client: %w", err)
		}
		defer client.Close()

		slog.With("image", cfg.Compiler.Image).Info("compiling with dockerized solc")
		runner = solc.Docker{Client: client, Image: cfg.Compiler.Image}
	default:
		return fmt.Errorf("unsupported compiler mode '%s'", cfg.Compiler.Mode)
	}

	names := slices.Sorted(maps.Keys(contracts.Contracts))

	compiler := contracts.NewCompiler(cfg.Paths.Contracts, cfg.Paths.Artifacts, runner)
	return compiler.Compile(ctx, names)
}
